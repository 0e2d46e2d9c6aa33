package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"collegefinder/internal/domain"
)

// GetCourse fetches a course page
func (c *Client) GetCourse(ctx context.Context, slug string) (domain.Page, error) {
	return c.getPage(ctx, "course", "courses", slug)
}

// GetExam fetches an exam page
func (c *Client) GetExam(ctx context.Context, slug string) (domain.Page, error) {
	return c.getPage(ctx, "exam", "exams", slug)
}

func (c *Client) getPage(ctx context.Context, endpoint, prefix, slug string) (domain.Page, error) {
	path, err := slugPath(prefix, slug)
	if err != nil {
		return domain.Page{}, err
	}
	var env envelope[domain.Page]
	if err := get(ctx, c, endpoint, path, "", &env); err != nil {
		return domain.Page{}, err
	}
	return env.Data, nil
}

// Predict calls a /predictor/<kind> endpoint and hands back its data untouched
func (c *Client) Predict(ctx context.Context, kind string, params url.Values) (json.RawMessage, error) {
	kind = strings.Trim(strings.TrimSpace(kind), "/")
	if kind == "" {
		return nil, fmt.Errorf("portal: predictor: empty kind")
	}
	var env envelope[json.RawMessage]
	if err := get(ctx, c, "predictor", "/predictor/"+url.PathEscape(kind), params.Encode(), &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}
