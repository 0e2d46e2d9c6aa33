// Package filter holds the college filter state and its query-string form.
package filter

import (
	"slices"
	"strings"
)

// Sort is the result ordering understood by the backend
type Sort string

const (
	SortNIRFRank  Sort = "nirfRank"
	SortFeesLow   Sort = "fees_low"
	SortFeesHigh  Sort = "fees_high"
	DefaultSort        = SortNIRFRank
	GoalColleges       = "Colleges"
)

// Sorts lists every sort order in display order
func Sorts() []Sort {
	return []Sort{SortNIRFRank, SortFeesLow, SortFeesHigh}
}

// ParseSort maps a raw value to a Sort; unknown values are rejected
func ParseSort(raw string) (Sort, bool) {
	for _, s := range Sorts() {
		if string(s) == raw {
			return s, true
		}
	}
	return DefaultSort, false
}

// Label is the human name of the sort order
func (s Sort) Label() string {
	switch s {
	case SortFeesLow:
		return "Fees: low to high"
	case SortFeesHigh:
		return "Fees: high to low"
	default:
		return "NIRF rank"
	}
}

// Next cycles through Sorts
func (s Sort) Next() Sort {
	all := Sorts()
	i := slices.Index(all, s)
	return all[(i+1)%len(all)]
}

// Category names a multi-select field. Only these can be toggled.
type Category int

const (
	CategoryState Category = iota
	CategoryStream
	CategoryDegree
	CategoryTargetYear
	CategoryGoal
)

// Categories lists the multi-select fields in URL order
func Categories() []Category {
	return []Category{CategoryState, CategoryStream, CategoryDegree, CategoryTargetYear, CategoryGoal}
}

// PanelCategories lists the categories the filter panel offers. Target year
// has no control; it only survives in links.
func PanelCategories() []Category {
	return []Category{CategoryState, CategoryStream, CategoryDegree, CategoryGoal}
}

// Searchable reports whether the category's option list has a search box
func (c Category) Searchable() bool {
	switch c {
	case CategoryState, CategoryStream, CategoryDegree:
		return true
	}
	return false
}

// Key is the query-string parameter name of the category
func (c Category) Key() string {
	switch c {
	case CategoryState:
		return "state"
	case CategoryStream:
		return "stream"
	case CategoryDegree:
		return "degree"
	case CategoryTargetYear:
		return "targetYear"
	case CategoryGoal:
		return "goal"
	default:
		return ""
	}
}

// Title is the heading shown over the category's options
func (c Category) Title() string {
	switch c {
	case CategoryState:
		return "State"
	case CategoryStream:
		return "Stream"
	case CategoryDegree:
		return "Degree"
	case CategoryTargetYear:
		return "Target year"
	case CategoryGoal:
		return "Goal"
	default:
		return ""
	}
}

// State is the complete set of listing filters.
// Empty multi-select fields are nil.
type State struct {
	Search     string
	State      []string
	City       string
	Type       string // no UI control; kept so shared links survive
	Stream     []string
	Degree     []string
	TargetYear []string // no UI control; kept so shared links survive
	Goal       []string
	Sort       Sort
}

// Default returns the empty filter state
func Default() State {
	return State{Sort: DefaultSort}
}

// Clone returns a deep copy
func (s State) Clone() State {
	out := s
	out.State = slices.Clone(s.State)
	out.Stream = slices.Clone(s.Stream)
	out.Degree = slices.Clone(s.Degree)
	out.TargetYear = slices.Clone(s.TargetYear)
	out.Goal = slices.Clone(s.Goal)
	return out
}

// Values returns the selected values of a category
func (s State) Values(c Category) []string {
	if p := s.field(c); p != nil {
		return *p
	}
	return nil
}

// Has reports whether value is selected in the category
func (s State) Has(c Category, value string) bool {
	return slices.Contains(s.Values(c), value)
}

// Toggle adds value when absent and removes it when present
func (s *State) Toggle(c Category, value string) {
	p := s.field(c)
	if p == nil || !listable(value) {
		return
	}
	if i := slices.Index(*p, value); i >= 0 {
		*p = normalize(slices.Delete(slices.Clone(*p), i, i+1))
		return
	}
	*p = append(slices.Clone(*p), value)
}

// IsDefault reports whether no filter is active
func (s State) IsDefault() bool {
	return s.Equal(Default())
}

// Equal compares two states field by field, keeping list order
func (s State) Equal(o State) bool {
	return s.Search == o.Search &&
		s.City == o.City &&
		s.Type == o.Type &&
		s.Sort == o.Sort &&
		slices.Equal(s.State, o.State) &&
		slices.Equal(s.Stream, o.Stream) &&
		slices.Equal(s.Degree, o.Degree) &&
		slices.Equal(s.TargetYear, o.TargetYear) &&
		slices.Equal(s.Goal, o.Goal)
}

// ExcludesColleges reports whether the goal selection can never yield colleges
func (s State) ExcludesColleges() bool {
	return len(s.Goal) > 0 && !slices.Contains(s.Goal, GoalColleges)
}

func (s *State) field(c Category) *[]string {
	switch c {
	case CategoryState:
		return &s.State
	case CategoryStream:
		return &s.Stream
	case CategoryDegree:
		return &s.Degree
	case CategoryTargetYear:
		return &s.TargetYear
	case CategoryGoal:
		return &s.Goal
	default:
		return nil
	}
}

// normalize drops empty and duplicate entries, keeping first occurrence
func normalize(values []string) []string {
	var out []string
	for _, v := range values {
		if !listable(v) || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// listable reports whether v can be a list entry. Commas separate entries in
// the location, so a value holding one would not survive a round trip.
func listable(v string) bool {
	return v != "" && !strings.Contains(v, listSeparator)
}

// Patch is one edit applied by SetFilter
type Patch func(*State)

// Apply returns a copy of s with the patches applied in order
func (s State) Apply(patches ...Patch) State {
	out := s.Clone()
	for _, p := range patches {
		if p != nil {
			p(&out)
		}
	}
	return out
}

// SetSearch replaces the free-text query
func SetSearch(q string) Patch {
	return func(s *State) { s.Search = q }
}

// SetCity replaces the city filter
func SetCity(city string) Patch {
	return func(s *State) { s.City = city }
}

// SetType replaces the institution type filter
func SetType(t string) Patch {
	return func(s *State) { s.Type = t }
}

// SetSort replaces the sort order; unknown values fall back to the default
func SetSort(sort Sort) Patch {
	return func(s *State) {
		if _, ok := ParseSort(string(sort)); !ok {
			sort = DefaultSort
		}
		s.Sort = sort
	}
}

// SetValues replaces every selected value of a category. Empty values and
// values containing a comma are dropped.
func SetValues(c Category, values ...string) Patch {
	return func(s *State) {
		if p := s.field(c); p != nil {
			*p = normalize(values)
		}
	}
}

// Toggle flips one value of a category
func Toggle(c Category, value string) Patch {
	return func(s *State) { s.Toggle(c, value) }
}

// Replace swaps the whole state
func Replace(next State) Patch {
	return func(s *State) { *s = next.Clone() }
}
