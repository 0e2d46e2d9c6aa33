//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakePortal serves a small deterministic listing: every page holds three
// colleges named after the page, and the search endpoint echoes the term
type fakePortal struct {
	srv *httptest.Server

	mu      sync.Mutex
	queries []string
}

func newFakePortal(t *testing.T, pages int) *fakePortal {
	t.Helper()
	fp := &fakePortal{}

	r := chi.NewRouter()
	r.Get("/colleges", func(w http.ResponseWriter, r *http.Request) {
		fp.mu.Lock()
		fp.queries = append(fp.queries, r.URL.RawQuery)
		fp.mu.Unlock()

		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		var data []map[string]any
		for i := 1; i <= 3; i++ {
			name := fmt.Sprintf("Page%d College %d", page, i)
			if s := q.Get("search"); s != "" {
				name = fmt.Sprintf("%s Institute %d", strings.ToUpper(s), i)
			}
			data = append(data, map[string]any{
				"_id":      fmt.Sprintf("%d-%d", page, i),
				"name":     name,
				"slug":     fmt.Sprintf("p%d-c%d", page, i),
				"location": map[string]any{"city": "Pune", "state": "Maharashtra"},
			})
		}
		writeJSON(w, map[string]any{"success": true, "data": data, "pagination": map[string]any{"pages": pages}})
	})
	r.Get("/colleges/search", func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("q")
		writeJSON(w, map[string]any{"success": true, "data": []map[string]any{
			{"_id": "s1", "name": strings.ToUpper(term) + " Suggested", "slug": "suggested"},
		}})
	})
	r.Get("/colleges/{slug}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": true, "data": map[string]any{
			"_id": "d1", "name": "Detail of " + chi.URLParam(r, "slug"), "slug": chi.URLParam(r, "slug"),
		}})
	})

	fp.srv = httptest.NewServer(r)
	t.Cleanup(fp.srv.Close)
	return fp
}

func (fp *fakePortal) URL() string {
	return fp.srv.URL
}

// Queries returns the listing requests seen so far
func (fp *fakePortal) Queries() []string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return append([]string(nil), fp.queries...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
