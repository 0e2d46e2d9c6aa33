// Package location is the terminal's address bar: the current shareable
// query plus back/forward history.
package location

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"collegefinder/internal/domain"
	"collegefinder/internal/eventbus"
)

// ErrEmptyLink is returned by Open for blank input
var ErrEmptyLink = errors.New("location: empty link")

// ListingPath is the path of the college listing on the portal website
const ListingPath = "/colleges"

// Location records every navigation and announces it on the bus
type Location struct {
	mu      sync.Mutex
	bus     eventbus.EventBus
	history []string
	index   int
}

// New creates a location positioned at initial
func New(bus eventbus.EventBus, initial string) *Location {
	return &Location{
		bus:     bus,
		history: []string{trimQuery(initial)},
	}
}

// Current returns the query the location points at
func (l *Location) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history[l.index]
}

// Push navigates to query, dropping any forward history
func (l *Location) Push(query string, source domain.NavigationSource) {
	query = trimQuery(query)

	l.mu.Lock()
	if l.history[l.index] == query {
		l.mu.Unlock()
		// same URL: nothing changes, nothing is announced
		return
	}
	l.history = append(l.history[:l.index+1], query)
	l.index = len(l.history) - 1
	l.mu.Unlock()

	l.publish(query, source)
}

// Back moves one entry back. Reports false at the start of history.
func (l *Location) Back() bool {
	return l.step(-1)
}

// Forward moves one entry forward. Reports false at the end of history.
func (l *Location) Forward() bool {
	return l.step(1)
}

// CanGoBack reports whether Back would move
func (l *Location) CanGoBack() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index > 0
}

// CanGoForward reports whether Forward would move
func (l *Location) CanGoForward() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index < len(l.history)-1
}

func (l *Location) step(delta int) bool {
	l.mu.Lock()
	next := l.index + delta
	if next < 0 || next >= len(l.history) {
		l.mu.Unlock()
		return false
	}
	l.index = next
	query := l.history[next]
	l.mu.Unlock()

	l.publish(query, domain.SourceExternal)
	return true
}

// Open navigates to a pasted link. Full URLs, paths and bare queries are
// accepted; only the query part is kept.
func (l *Location) Open(link string) error {
	query, err := QueryOf(link)
	if err != nil {
		return err
	}
	l.Push(query, domain.SourceExternal)
	return nil
}

// Link renders the shareable URL of the current location under base
func (l *Location) Link(base string) string {
	return LinkFor(base, l.Current())
}

func (l *Location) publish(query string, source domain.NavigationSource) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(domain.LocationChangedEvent{Query: query, Source: source})
}

// QueryOf extracts the query string from a link
func QueryOf(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", ErrEmptyLink
	}
	if !strings.Contains(link, "?") && strings.Contains(link, "=") {
		return trimQuery(link), nil
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	return u.RawQuery, nil
}

// LinkFor renders base + listing path + query
func LinkFor(base, query string) string {
	link := strings.TrimRight(base, "/") + ListingPath
	if query != "" {
		link += "?" + query
	}
	return link
}

func trimQuery(q string) string {
	return strings.TrimPrefix(strings.TrimSpace(q), "?")
}
