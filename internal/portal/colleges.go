package portal

import (
	"context"
	"net/url"

	"collegefinder/internal/domain"
	"collegefinder/internal/filter"
)

// ListColleges fetches one page of the college listing for the given filters
func (c *Client) ListColleges(ctx context.Context, f filter.State, page, limit int) (domain.ResultPage, error) {
	var env envelope[[]domain.CollegeSummary]
	if err := get(ctx, c, "colleges", "/colleges", filter.BackendQuery(f, page, limit), &env); err != nil {
		return domain.ResultPage{}, err
	}

	out := domain.ResultPage{Colleges: env.Data}
	if env.Pagination != nil {
		out.Pages = env.Pagination.Pages
	}
	if out.Pages < 1 {
		out.Pages = 1
	}
	return out, nil
}

// SearchColleges returns type-ahead suggestions for q
func (c *Client) SearchColleges(ctx context.Context, q string) ([]domain.Suggestion, error) {
	var env envelope[[]domain.Suggestion]
	query := url.Values{"q": {q}}.Encode()
	if err := get(ctx, c, "colleges_search", "/colleges/search", query, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetCollege fetches the full college document. Concurrent lookups of the
// same slug share one request.
func (c *Client) GetCollege(ctx context.Context, slug string) (domain.CollegeDetail, error) {
	path, err := slugPath("colleges", slug)
	if err != nil {
		return domain.CollegeDetail{}, err
	}

	v, err, _ := c.details.Do(path, func() (any, error) {
		var env envelope[domain.CollegeDetail]
		if err := get(ctx, c, "college", path, "", &env); err != nil {
			return domain.CollegeDetail{}, err
		}
		return env.Data, nil
	})
	if err != nil {
		return domain.CollegeDetail{}, err
	}
	return v.(domain.CollegeDetail), nil
}
