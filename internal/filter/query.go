package filter

import (
	"net/url"
	"strconv"
	"strings"
)

// Query-string parameter names
const (
	ParamSearch = "search"
	ParamCity   = "city"
	ParamType   = "type"
	ParamSort   = "sort"

	// backend-only names
	ParamBranch = "branch"
	ParamCourse = "course"
	ParamPage   = "page"
	ParamLimit  = "limit"
)

const listSeparator = ","

// Parse rebuilds a filter state from a query string.
// A leading "?" is accepted. A malformed escape keeps its raw text and
// leaves the other parameters intact.
func Parse(query string) State {
	values := parseValues(strings.TrimPrefix(query, "?"))

	s := Default()
	s.Search = values.Get(ParamSearch)
	s.City = values.Get(ParamCity)
	s.Type = values.Get(ParamType)
	for _, c := range Categories() {
		*s.field(c) = splitList(values.Get(c.Key()))
	}
	if sort, ok := ParseSort(values.Get(ParamSort)); ok {
		s.Sort = sort
	}
	return s
}

// Encode serializes the state for the shareable location. Empty fields and
// the default sort are omitted; the page is never part of it.
func Encode(s State) string {
	var w queryWriter
	w.add(ParamSearch, s.Search)
	w.add(CategoryState.Key(), joinList(s.State))
	w.add(ParamCity, s.City)
	w.add(ParamType, s.Type)
	w.add(CategoryStream.Key(), joinList(s.Stream))
	w.add(CategoryDegree.Key(), joinList(s.Degree))
	w.add(CategoryTargetYear.Key(), joinList(s.TargetYear))
	w.add(CategoryGoal.Key(), joinList(s.Goal))
	if s.Sort != "" && s.Sort != DefaultSort {
		w.add(ParamSort, string(s.Sort))
	}
	return w.String()
}

// BackendQuery builds the /colleges query for a page of results.
// stream and degree travel as branch and course.
func BackendQuery(s State, page, limit int) string {
	sort := s.Sort
	if sort == "" {
		sort = DefaultSort
	}
	var w queryWriter
	w.add(ParamSearch, s.Search)
	w.add(CategoryState.Key(), joinList(s.State))
	w.add(ParamBranch, joinList(s.Stream))
	w.add(ParamCourse, joinList(s.Degree))
	w.add(ParamSort, string(sort))
	w.add(ParamCity, s.City)
	w.add(ParamPage, strconv.Itoa(page))
	w.add(ParamLimit, strconv.Itoa(limit))
	return w.String()
}

// parseValues splits a query like url.ParseQuery but never gives up on a
// pair: text that fails to unescape is kept as written.
func parseValues(query string) url.Values {
	values := url.Values{}
	for pair := range strings.SplitSeq(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		values.Add(unescape(key), unescape(value))
	}
	return values
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s, "+", " ")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return normalize(strings.Split(raw, listSeparator))
}

func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}

// queryWriter keeps parameters in insertion order and leaves list commas
// readable, unlike url.Values.Encode.
type queryWriter struct {
	b strings.Builder
}

func (w *queryWriter) add(key, value string) {
	if value == "" {
		return
	}
	if w.b.Len() > 0 {
		w.b.WriteByte('&')
	}
	w.b.WriteString(url.QueryEscape(key))
	w.b.WriteByte('=')
	w.b.WriteString(strings.ReplaceAll(url.QueryEscape(value), "%2C", listSeparator))
}

func (w *queryWriter) String() string {
	return w.b.String()
}
