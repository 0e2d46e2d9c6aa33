// Package catalog holds the static option tables behind the filter panel.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"collegefinder/internal/filter"
)

//go:embed catalog.yaml
var builtin []byte

// Link is a canned navigation shown in the quick-links menu
type Link struct {
	Title string `yaml:"title" toml:"title"`
	Query string `yaml:"query" toml:"query"`
}

// Catalog is the set of filter options
type Catalog struct {
	States      []string `yaml:"states"`
	Streams     []string `yaml:"streams"`
	Degrees     []string `yaml:"degrees"`
	Goals       []string `yaml:"goals"`
	TargetYears []string `yaml:"target_years"`
	Links       []Link   `yaml:"links"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(builtin)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultCatalog.clone(), nil
}

// MustDefault is Default for callers that cannot recover
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if len(c.Goals) == 0 {
		return nil, fmt.Errorf("catalog: no goals defined")
	}
	return &c, nil
}

// Options returns the selectable values of a filter category
func (c *Catalog) Options(cat filter.Category) []string {
	switch cat {
	case filter.CategoryState:
		return c.States
	case filter.CategoryStream:
		return c.Streams
	case filter.CategoryDegree:
		return c.Degrees
	case filter.CategoryGoal:
		return c.Goals
	case filter.CategoryTargetYear:
		return c.TargetYears
	default:
		return nil
	}
}

// Match narrows the options of a category to those containing term, ignoring case
func (c *Catalog) Match(cat filter.Category, term string) []string {
	opts := c.Options(cat)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return opts
	}
	var out []string
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o), term) {
			out = append(out, o)
		}
	}
	return out
}

// WithLinks returns a copy with extra quick links appended
func (c *Catalog) WithLinks(extra []Link) *Catalog {
	out := c.clone()
	for _, l := range extra {
		if strings.TrimSpace(l.Title) == "" {
			continue
		}
		out.Links = append(out.Links, l)
	}
	return out
}

func (c *Catalog) clone() *Catalog {
	out := *c
	out.States = append([]string(nil), c.States...)
	out.Streams = append([]string(nil), c.Streams...)
	out.Degrees = append([]string(nil), c.Degrees...)
	out.Goals = append([]string(nil), c.Goals...)
	out.TargetYears = append([]string(nil), c.TargetYears...)
	out.Links = append([]Link(nil), c.Links...)
	return &out
}
