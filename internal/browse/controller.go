// Package browse keeps the filter widgets, the shareable location and the
// displayed result page consistent with each other.
package browse

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"collegefinder/internal/catalog"
	"collegefinder/internal/debounce"
	"collegefinder/internal/domain"
	"collegefinder/internal/eventbus"
	"collegefinder/internal/filter"
	"collegefinder/internal/metrics"
)

// Portal is the slice of the backend API the controller needs
type Portal interface {
	ListColleges(ctx context.Context, f filter.State, page, limit int) (domain.ResultPage, error)
	SearchColleges(ctx context.Context, q string) ([]domain.Suggestion, error)
}

// Navigator is the address bar the controller writes to
type Navigator interface {
	Current() string
	Push(query string, source domain.NavigationSource)
}

// Controller owns the filter, page, suggestion and result state
type Controller struct {
	api     Portal
	nav     Navigator
	bus     eventbus.EventBus
	log     *zap.Logger
	opts    Options
	catalog *catalog.Catalog

	ctx         context.Context
	cancel      context.CancelFunc
	debouncer   *debounce.Debouncer
	inflight    sync.WaitGroup
	unsubscribe func()

	mu            sync.Mutex
	closed        bool
	filters       filter.State
	page          PageState
	results       ResultState
	suggest       SuggestionState
	optionSearch  map[filter.Category]string
	resultsSeq    uint64
	suggestSeq    uint64
	resultsCancel context.CancelFunc
	suggestCancel context.CancelFunc
}

// New creates a controller. When bus is non-nil the controller observes
// LocationChanged events on it and announces its own state changes there.
func New(api Portal, nav Navigator, bus eventbus.EventBus, log *zap.Logger, cat *catalog.Catalog, opts Options) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.MustDefault()
	}
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		api:          api,
		nav:          nav,
		bus:          bus,
		log:          log.Named("browse"),
		opts:         opts,
		catalog:      cat,
		ctx:          ctx,
		cancel:       cancel,
		debouncer:    debounce.New(opts.Debounce),
		filters:      filter.Default(),
		page:         PageState{Page: 1, TotalPages: 1},
		optionSearch: map[filter.Category]string{},
	}
	if bus != nil {
		c.unsubscribe = bus.Subscribe(eventbus.EventLocationChanged, func(e eventbus.DomainEvent) {
			if ev, ok := e.(eventbus.LocationChangedEvent); ok {
				c.HandleLocationChange(ev)
			}
		})
	}
	return c
}

// Start initializes from the current location and loads the first page
func (c *Controller) Start() {
	f := c.InitializeFromURL(c.nav.Current())
	c.mu.Lock()
	c.suggest.Query = f.Search
	c.mu.Unlock()
	c.scheduleFetch()
}

// InitializeFromURL replaces the filters with the ones encoded in query,
// clears the within-filter search boxes and returns to page 1
func (c *Controller) InitializeFromURL(query string) filter.State {
	f := filter.Parse(query)

	c.mu.Lock()
	c.filters = f
	c.page.Page = 1
	clear(c.optionSearch)
	c.mu.Unlock()

	c.log.Debug("initialized from location", zap.String("query", query))
	c.publish(domain.FilterChangedEvent{Query: filter.Encode(f)})
	return f.Clone()
}

// HandleLocationChange observes the location. Navigations the controller
// wrote itself are ignored; anything else is ground truth.
func (c *Controller) HandleLocationChange(ev domain.LocationChangedEvent) {
	if ev.Source == domain.SourceInternal {
		return
	}
	f := c.InitializeFromURL(ev.Query)

	c.debouncer.Cancel()
	c.mu.Lock()
	c.suggest.Query = f.Search
	c.hideSuggestionsLocked()
	c.mu.Unlock()

	c.scheduleFetch()
}

// SetFilter applies patches, writes the new location, returns to page 1
// and schedules a fetch
func (c *Controller) SetFilter(patches ...filter.Patch) {
	c.mu.Lock()
	c.filters = c.filters.Apply(patches...)
	c.page.Page = 1
	query := filter.Encode(c.filters)
	c.mu.Unlock()

	c.nav.Push(query, domain.SourceInternal)
	c.publish(domain.FilterChangedEvent{Query: query})
	c.scheduleFetch()
}

// ToggleArrayFilter flips value in a multi-select category
func (c *Controller) ToggleArrayFilter(cat filter.Category, value string) {
	c.SetFilter(filter.Toggle(cat, value))
}

// ToggleState flips a state selection
func (c *Controller) ToggleState(value string) { c.ToggleArrayFilter(filter.CategoryState, value) }

// ToggleStream flips a stream selection
func (c *Controller) ToggleStream(value string) { c.ToggleArrayFilter(filter.CategoryStream, value) }

// ToggleDegree flips a degree selection
func (c *Controller) ToggleDegree(value string) { c.ToggleArrayFilter(filter.CategoryDegree, value) }

// ToggleTargetYear flips a target year selection
func (c *Controller) ToggleTargetYear(value string) {
	c.ToggleArrayFilter(filter.CategoryTargetYear, value)
}

// ToggleGoal flips a goal selection
func (c *Controller) ToggleGoal(value string) { c.ToggleArrayFilter(filter.CategoryGoal, value) }

// ResetAll clears every filter
func (c *Controller) ResetAll() {
	c.SetFilter(filter.Replace(filter.Default()))
}

// SetPage moves to page n, clamped to [1, MaxPages]
func (c *Controller) SetPage(n int) {
	c.UpdatePage(func(int) int { return n })
}

// UpdatePage moves to fn(current page), clamped to [1, MaxPages]
func (c *Controller) UpdatePage(fn func(prev int) int) {
	c.mu.Lock()
	prev := c.page.Page
	next := c.clampPage(fn(prev))
	c.page.Page = next
	c.mu.Unlock()

	if next != prev {
		c.scheduleFetch()
	}
}

func (c *Controller) clampPage(n int) int {
	return max(1, min(n, c.opts.MaxPages))
}

// FetchResults loads the current page. Failures are logged and recorded;
// the previous result list stays on screen.
func (c *Controller) FetchResults(ctx context.Context) {
	c.mu.Lock()
	f := c.filters.Clone()
	page := c.page.Page
	c.resultsSeq++
	seq := c.resultsSeq
	if c.resultsCancel != nil {
		c.resultsCancel()
		c.resultsCancel = nil
	}

	if f.ExcludesColleges() {
		c.results.Colleges = []domain.CollegeSummary{}
		c.results.Loading = false
		c.results.Fetched = true
		c.results.Err = nil
		c.page.TotalPages = 1
		c.page.HasMoreResults = false
		c.mu.Unlock()

		metrics.ShortCircuitsTotal.Inc()
		c.log.Debug("goal excludes colleges, skipping fetch", zap.Strings("goal", f.Goal))
		c.publish(domain.ResultsUpdatedEvent{Seq: seq})
		return
	}

	reqCtx, cancel := context.WithCancel(ctx)
	c.resultsCancel = cancel
	c.results.Loading = true
	c.mu.Unlock()
	c.publish(domain.ResultsUpdatedEvent{Seq: seq, Loading: true})

	defer func() {
		cancel()
		c.mu.Lock()
		if seq == c.resultsSeq {
			c.results.Loading = false
			c.resultsCancel = nil
		}
		c.mu.Unlock()
		c.publish(domain.ResultsUpdatedEvent{Seq: seq})
	}()

	res, err := c.api.ListColleges(reqCtx, f, page, c.opts.PageSize)

	c.mu.Lock()
	if seq != c.resultsSeq {
		c.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues("results").Inc()
		c.log.Debug("discarding stale results", zap.Uint64("seq", seq))
		return
	}
	c.results.Fetched = true
	if err != nil {
		c.results.Err = err
		c.mu.Unlock()
		c.fetchFailed("results", err)
		return
	}
	c.results.Colleges = res.Colleges
	c.results.Err = nil
	c.page.TotalPages = min(res.Pages, c.opts.MaxPages)
	c.page.HasMoreResults = res.Pages > c.opts.MaxPages
	c.mu.Unlock()

	c.log.Debug("results loaded",
		zap.Int("page", page),
		zap.Int("count", len(res.Colleges)),
		zap.Int("server_pages", res.Pages))
}

// Refresh reloads the current page
func (c *Controller) Refresh() {
	c.scheduleFetch()
}

// Type records the search box contents and arms the debounced type-ahead
func (c *Controller) Type(term string) {
	c.mu.Lock()
	c.suggest.Query = term
	// nothing to look up for short terms or the committed search
	if utf8.RuneCountInString(term) < minSuggestRunes || term == c.filters.Search {
		c.hideSuggestionsLocked()
		c.mu.Unlock()
		c.debouncer.Cancel()
		c.publish(domain.SuggestionsUpdatedEvent{})
		return
	}
	c.mu.Unlock()

	c.debouncer.Trigger(func() {
		c.FetchSuggestions(c.ctx, term)
	})
}

// FetchSuggestions looks term up unless it is too short or is the search
// that was just committed
func (c *Controller) FetchSuggestions(ctx context.Context, term string) {
	c.mu.Lock()
	if utf8.RuneCountInString(term) < minSuggestRunes || term == c.filters.Search {
		c.mu.Unlock()
		return
	}
	c.suggestSeq++
	seq := c.suggestSeq
	if c.suggestCancel != nil {
		c.suggestCancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.suggestCancel = cancel
	c.mu.Unlock()
	defer cancel()

	res, err := c.api.SearchColleges(reqCtx, term)

	c.mu.Lock()
	if seq != c.suggestSeq {
		c.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues("suggestions").Inc()
		c.log.Debug("discarding stale suggestions", zap.String("term", term))
		return
	}
	c.suggestCancel = nil
	if err != nil {
		c.suggest.Err = err
		c.mu.Unlock()
		c.fetchFailed("suggestions", err)
		return
	}
	c.suggest.Suggestions = res
	c.suggest.Visible = true
	c.suggest.Err = nil
	c.mu.Unlock()

	c.publish(domain.SuggestionsUpdatedEvent{Seq: seq, Count: len(res)})
}

// CommitSearch applies term as the free-text filter
func (c *Controller) CommitSearch(term string) {
	c.debouncer.Cancel()
	c.mu.Lock()
	c.suggest.Query = term
	c.hideSuggestionsLocked()
	c.mu.Unlock()
	c.publish(domain.SuggestionsUpdatedEvent{})

	c.SetFilter(filter.SetSearch(term))
}

// HideSuggestions closes the dropdown and drops any lookup in flight
func (c *Controller) HideSuggestions() {
	c.debouncer.Cancel()
	c.mu.Lock()
	c.hideSuggestionsLocked()
	c.mu.Unlock()
	c.publish(domain.SuggestionsUpdatedEvent{})
}

func (c *Controller) hideSuggestionsLocked() {
	c.suggestSeq++
	if c.suggestCancel != nil {
		c.suggestCancel()
		c.suggestCancel = nil
	}
	c.suggest.Visible = false
}

// SetOptionSearch narrows the option list of a filter section
func (c *Controller) SetOptionSearch(cat filter.Category, text string) {
	c.mu.Lock()
	if text == "" {
		delete(c.optionSearch, cat)
	} else {
		c.optionSearch[cat] = text
	}
	c.mu.Unlock()
}

// Options returns the visible options of a filter section
func (c *Controller) Options(cat filter.Category) []string {
	c.mu.Lock()
	term := c.optionSearch[cat]
	c.mu.Unlock()
	return c.catalog.Match(cat, term)
}

// Catalog returns the option tables
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Filters returns a copy of the current filter state
func (c *Controller) Filters() filter.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

// Snapshot returns a copy of everything the render layer needs
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := c.results
	results.Colleges = slices.Clone(c.results.Colleges)
	suggest := c.suggest
	suggest.Suggestions = slices.Clone(c.suggest.Suggestions)

	return View{
		Filters:      c.filters.Clone(),
		Query:        filter.Encode(c.filters),
		Page:         c.page,
		Results:      results,
		Suggestions:  suggest,
		OptionSearch: maps.Clone(c.optionSearch),
		MaxPages:     c.opts.MaxPages,
	}
}

// Wait blocks until every fetch scheduled so far has finished
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Close stops the debouncer, cancels in-flight requests and waits for them
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
	c.debouncer.Stop()
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
	c.inflight.Wait()
}

func (c *Controller) scheduleFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.FetchResults(c.ctx)
	}()
}

func (c *Controller) fetchFailed(op string, err error) {
	if errors.Is(err, context.Canceled) {
		c.log.Debug("fetch cancelled", zap.String("op", op))
	} else {
		c.log.Warn("fetch failed", zap.String("op", op), zap.Error(err))
	}
	c.publish(domain.FetchFailedEvent{Op: op, Err: err})
}

func (c *Controller) publish(e domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
