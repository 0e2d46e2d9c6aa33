package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventLocationChanged    EventType = "LocationChanged"
	EventFilterChanged      EventType = "FilterChanged"
	EventResultsUpdated     EventType = "ResultsUpdated"
	EventSuggestionsUpdated EventType = "SuggestionsUpdated"
	EventFetchFailed        EventType = "FetchFailed"
	EventConfigChanged      EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// NavigationSource tells who moved the location
type NavigationSource int

const (
	// SourceInternal marks a location written by the filter controller itself
	SourceInternal NavigationSource = iota
	// SourceExternal marks anything else: history, quick links, pasted links
	SourceExternal
)

func (s NavigationSource) String() string {
	if s == SourceInternal {
		return "internal"
	}
	return "external"
}

// LocationChangedEvent is emitted every time the shareable location changes
type LocationChangedEvent struct {
	Query  string
	Source NavigationSource
}

func (e LocationChangedEvent) Type() EventType { return EventLocationChanged }

// FilterChangedEvent is emitted when the filter state was edited or re-initialized
type FilterChangedEvent struct {
	Query string // serialized filter state
}

func (e FilterChangedEvent) Type() EventType { return EventFilterChanged }

// ResultsUpdatedEvent is emitted when a results fetch started or finished
type ResultsUpdatedEvent struct {
	Seq     uint64
	Loading bool
}

func (e ResultsUpdatedEvent) Type() EventType { return EventResultsUpdated }

// SuggestionsUpdatedEvent is emitted when the suggestion dropdown changed
type SuggestionsUpdatedEvent struct {
	Seq   uint64
	Count int
}

func (e SuggestionsUpdatedEvent) Type() EventType { return EventSuggestionsUpdated }

// FetchFailedEvent is emitted when a backend call failed and was swallowed
type FetchFailedEvent struct {
	Op  string // "results" or "suggestions"
	Err error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// ConfigChangedEvent is emitted when configuration needs to be saved
type ConfigChangedEvent struct {
	LastQuery string
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
