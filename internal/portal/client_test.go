package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegefinder/internal/domain"
	"collegefinder/internal/filter"
)

type fakeBackend struct {
	mu       sync.Mutex
	queries  []string
	headers  []http.Header
	detailN  atomic.Int32
	release  chan struct{}
	server   *httptest.Server
	colleges []domain.CollegeSummary
	pages    int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{pages: 7}
	rank := 1
	fb.colleges = []domain.CollegeSummary{
		{ID: "1", Name: "National Law School", Slug: "nls", NIRFRank: &rank, Location: domain.Location{City: "Bengaluru", State: "Karnataka"}},
	}

	r := chi.NewRouter()
	r.Get("/colleges", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"data":       fb.colleges,
			"pagination": map[string]any{"pages": fb.pages},
		})
	})
	r.Get("/colleges/search", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		q := r.URL.Query().Get("q")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []domain.Suggestion{{ID: "s1", Name: q + " college", Slug: "s1"}},
		})
	})
	r.Get("/colleges/{slug}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		fb.detailN.Add(1)
		if fb.release != nil {
			<-fb.release
		}
		slug := chi.URLParam(r, "slug")
		if slug == "missing" {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "no such college"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"_id":   "1",
				"name":  "National Law School",
				"slug":  slug,
				"about": "<p>Premier <b>law</b> school</p>",
				"fees":  map[string]any{"tuition": 250000},
			},
		})
	})
	r.Get("/courses/{slug}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "c1", "name": "B.Tech", "slug": chi.URLParam(r, "slug"), "duration": "4 years"},
		})
	})
	r.Get("/exams/{slug}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	})
	r.Get("/predictor/{kind}", func(w http.ResponseWriter, r *http.Request) {
		fb.record(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"kind": chi.URLParam(r, "kind"), "rank": r.URL.Query().Get("rank")},
		})
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	fb.server = httptest.NewServer(r)
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) record(r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.queries = append(fb.queries, r.URL.Path+"?"+r.URL.RawQuery)
	fb.headers = append(fb.headers, r.Header.Clone())
}

func (fb *fakeBackend) requests() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.queries...)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListCollegesSendsMappedQuery(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL + "/")

	f := filter.Parse("state=Delhi,Karnataka&stream=Law&sort=fees_low")
	page, err := c.ListColleges(context.Background(), f, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"/colleges?state=Delhi,Karnataka&branch=Law&sort=fees_low&page=1&limit=20"}, fb.requests())
	assert.Equal(t, 7, page.Pages)
	require.Len(t, page.Colleges, 1)
	assert.Equal(t, "nls", page.Colleges[0].Slug)
	require.NotNil(t, page.Colleges[0].NIRFRank)
	assert.Equal(t, 1, *page.Colleges[0].NIRFRank)
}

func TestRequestsForwardCredentials(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL, WithToken(" secret "))

	_, err := c.SearchColleges(context.Background(), "iit")
	require.NoError(t, err)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.Len(t, fb.headers, 1)
	assert.Equal(t, "Bearer secret", fb.headers[0].Get("Authorization"))
	assert.Equal(t, "application/json", fb.headers[0].Get("Accept"))
	assert.NotEmpty(t, fb.headers[0].Get(requestIDHeader))
}

func TestSearchColleges(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)

	got, err := c.SearchColleges(context.Background(), "law & order")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "law & order college", got[0].Name)
	assert.Equal(t, []string{"/colleges/search?q=law+%26+order"}, fb.requests())
}

func TestGetCollege(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)

	d, err := c.GetCollege(context.Background(), "nls")
	require.NoError(t, err)
	assert.Equal(t, "National Law School", d.Name)
	assert.Equal(t, "<p>Premier <b>law</b> school</p>", d.About)
	require.NotNil(t, d.Fees)
	assert.InDelta(t, 250000, d.Fees.Tuition, 0.1)
}

func TestGetCollegeNotFound(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)

	_, err := c.GetCollege(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "no such college")
}

func TestGetCollegeEmptySlug(t *testing.T) {
	c := New("http://unused.invalid")
	_, err := c.GetCollege(context.Background(), "  ")
	assert.Error(t, err)
}

func TestGetCollegeCollapsesConcurrentLookups(t *testing.T) {
	fb := newFakeBackend(t)
	fb.release = make(chan struct{})
	c := New(fb.server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetCollege(context.Background(), "nls")
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return fb.detailN.Load() == 1 }, time.Second, 5*time.Millisecond)
	// let late callers join the in-flight call before it finishes
	time.Sleep(20 * time.Millisecond)
	close(fb.release)
	wg.Wait()

	assert.Equal(t, int32(1), fb.detailN.Load())
}

func TestUnsuccessfulEnvelope(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)

	_, err := c.GetExam(context.Background(), "jee-main")
	assert.ErrorIs(t, err, ErrUnsuccessful)
}

func TestGetCourseKeepsExtraFields(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)

	p, err := c.GetCourse(context.Background(), "btech")
	require.NoError(t, err)
	assert.Equal(t, "B.Tech", p.Name)
	assert.Equal(t, "btech", p.Slug)
	assert.Equal(t, "4 years", p.Fields["duration"])
	assert.NotContains(t, p.Fields, "name")
}

func TestPredict(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)

	raw, err := c.Predict(context.Background(), "/jee/", url.Values{"rank": {"1200"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"jee","rank":"1200"}`, string(raw))

	_, err = c.Predict(context.Background(), " ", nil)
	assert.Error(t, err)
}

func TestDecodeError(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)

	var env envelope[json.RawMessage]
	err := get(context.Background(), c, "broken", "/broken", "", &env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestTransportError(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL)
	fb.server.Close()

	_, err := c.ListColleges(context.Background(), filter.Default(), 1, 20)
	assert.Error(t, err)
}

func TestRateLimitHonoursContext(t *testing.T) {
	fb := newFakeBackend(t)
	c := New(fb.server.URL, WithRateLimit(0.001, 1))

	_, err := c.SearchColleges(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.SearchColleges(ctx, "second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Len(t, fb.requests(), 1)
}

func TestWithRateLimitDisabled(t *testing.T) {
	c := New("http://example.test", WithRateLimit(0, 5))
	assert.Nil(t, c.limiter)
}
