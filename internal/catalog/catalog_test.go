package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegefinder/internal/filter"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Contains(t, c.States, "Karnataka")
	assert.Contains(t, c.Streams, "Law")
	assert.Contains(t, c.Degrees, "MBA")
	assert.Equal(t, []string{"Colleges", "Exams", "Coachings", "Study Abroad"}, c.Goals)
	assert.NotEmpty(t, c.Links)

	for _, l := range c.Links {
		assert.NotEmpty(t, l.Title)
		q := filter.Parse(l.Query)
		assert.False(t, q.IsDefault(), "link %q should filter something", l.Title)
	}
}

func TestDefaultReturnsCopies(t *testing.T) {
	a := MustDefault()
	a.States[0] = "Atlantis"
	b := MustDefault()
	assert.NotEqual(t, "Atlantis", b.States[0])
}

func TestMatch(t *testing.T) {
	c := MustDefault()
	assert.Equal(t, []string{"Uttar Pradesh", "Uttarakhand"}, c.Match(filter.CategoryState, "  UTTAR"))
	assert.Equal(t, c.Streams, c.Match(filter.CategoryStream, ""))
	assert.Empty(t, c.Match(filter.CategoryDegree, "zzz"))
}

func TestOptionsPerCategory(t *testing.T) {
	c := MustDefault()
	for _, cat := range filter.Categories() {
		assert.NotEmpty(t, c.Options(cat), cat.Key())
	}
	assert.Nil(t, c.Options(filter.Category(99)))
}

func TestWithLinks(t *testing.T) {
	c := MustDefault()
	n := len(c.Links)
	out := c.WithLinks([]Link{{Title: "Pune", Query: "city=Pune"}, {Title: " ", Query: "x=y"}})
	assert.Len(t, out.Links, n+1)
	assert.Len(t, c.Links, n)
	assert.Equal(t, "Pune", out.Links[n].Title)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, err := Parse([]byte("states: [Goa]"))
	assert.Error(t, err)

	_, err = Parse([]byte("states: [unterminated"))
	assert.Error(t, err)
}
