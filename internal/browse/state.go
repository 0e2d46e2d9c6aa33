package browse

import (
	"time"

	"collegefinder/internal/domain"
	"collegefinder/internal/filter"
)

// Defaults for Options
const (
	DefaultPageSize = 20
	DefaultMaxPages = 5
	DefaultDebounce = 300 * time.Millisecond

	// minSuggestRunes is the shortest term worth a type-ahead lookup
	minSuggestRunes = 2
)

// Options tunes the controller
type Options struct {
	PageSize int           // results per page sent as limit
	MaxPages int           // hard display cap on pagination
	Debounce time.Duration // quiet period before a type-ahead lookup
}

// DefaultOptions returns the production settings
func DefaultOptions() Options {
	return Options{
		PageSize: DefaultPageSize,
		MaxPages: DefaultMaxPages,
		Debounce: DefaultDebounce,
	}
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	return o
}

// PageState is the pagination position
type PageState struct {
	Page           int  // 1-indexed, within [1, MaxPages]
	TotalPages     int  // server page count capped at MaxPages
	HasMoreResults bool // server has more pages than we are willing to show
}

// ResultState is the latest result page. Err and an empty list are kept
// apart even though the UI currently shows both as "no colleges".
type ResultState struct {
	Colleges []domain.CollegeSummary
	Loading  bool
	Fetched  bool  // at least one fetch has completed
	Err      error // last failure; nil after a success
}

// SuggestionState is the type-ahead dropdown
type SuggestionState struct {
	Query       string // raw search box contents
	Suggestions []domain.Suggestion
	Visible     bool
	Err         error
}

// View is an immutable snapshot for rendering
type View struct {
	Filters      filter.State
	Query        string // shareable form of Filters
	Page         PageState
	Results      ResultState
	Suggestions  SuggestionState
	OptionSearch map[filter.Category]string
	MaxPages     int
}

// Empty reports whether the result list has nothing to show
func (v View) Empty() bool {
	return len(v.Results.Colleges) == 0
}
