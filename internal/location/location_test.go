package location

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegefinder/internal/domain"
	"collegefinder/internal/eventbus"
)

// syncBus delivers events inline so tests can assert right away
type syncBus struct {
	mu     sync.Mutex
	events []domain.LocationChangedEvent
}

func (b *syncBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ev, ok := e.(domain.LocationChangedEvent); ok {
		b.events = append(b.events, ev)
	}
}

func (b *syncBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() { return func() {} }
func (b *syncBus) Close()                                                    {}

func TestPushPublishesTaggedEvent(t *testing.T) {
	bus := &syncBus{}
	loc := New(bus, "?state=Delhi")
	assert.Equal(t, "state=Delhi", loc.Current())

	loc.Push("state=Delhi&sort=fees_low", domain.SourceInternal)
	require.Len(t, bus.events, 1)
	assert.Equal(t, domain.LocationChangedEvent{Query: "state=Delhi&sort=fees_low", Source: domain.SourceInternal}, bus.events[0])
	assert.Equal(t, "state=Delhi&sort=fees_low", loc.Current())
}

func TestPushSameQueryIsSilent(t *testing.T) {
	bus := &syncBus{}
	loc := New(bus, "city=Pune")
	loc.Push("?city=Pune", domain.SourceInternal)
	assert.Empty(t, bus.events)
	assert.False(t, loc.CanGoBack())
}

func TestBackForwardAreExternal(t *testing.T) {
	bus := &syncBus{}
	loc := New(bus, "")
	loc.Push("state=Goa", domain.SourceInternal)
	loc.Push("state=Goa,Delhi", domain.SourceInternal)

	require.True(t, loc.Back())
	assert.Equal(t, "state=Goa", loc.Current())
	require.True(t, loc.Back())
	assert.Equal(t, "", loc.Current())
	assert.False(t, loc.Back())

	require.True(t, loc.Forward())
	assert.Equal(t, "state=Goa", loc.Current())

	events := bus.events[2:]
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, domain.SourceExternal, e.Source)
	}
}

func TestPushDropsForwardHistory(t *testing.T) {
	loc := New(&syncBus{}, "")
	loc.Push("a=1", domain.SourceInternal)
	loc.Push("a=2", domain.SourceInternal)
	loc.Back()
	loc.Push("a=3", domain.SourceInternal)

	assert.False(t, loc.CanGoForward())
	loc.Back()
	assert.Equal(t, "a=1", loc.Current())
}

func TestOpen(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://portal.example/colleges?state=Delhi&stream=Law", "state=Delhi&stream=Law"},
		{"/colleges?goal=Colleges", "goal=Colleges"},
		{"?sort=fees_high", "sort=fees_high"},
		{"city=Pune", "city=Pune"},
		{"https://portal.example/colleges", ""},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			bus := &syncBus{}
			loc := New(bus, "seed=1")
			require.NoError(t, loc.Open(tt.link))
			assert.Equal(t, tt.want, loc.Current())
			require.Len(t, bus.events, 1)
			assert.Equal(t, domain.SourceExternal, bus.events[0].Source)
		})
	}
}

func TestOpenEmpty(t *testing.T) {
	loc := New(&syncBus{}, "")
	assert.ErrorIs(t, loc.Open("   "), ErrEmptyLink)
}

func TestLink(t *testing.T) {
	loc := New(nil, "state=Delhi")
	assert.Equal(t, "https://portal.example/colleges?state=Delhi", loc.Link("https://portal.example/"))
	assert.Equal(t, "https://portal.example/colleges", LinkFor("https://portal.example", ""))
}
