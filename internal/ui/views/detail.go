package views

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"collegefinder/internal/domain"
)

var (
	blockTagRE = regexp.MustCompile(`(?i)</?(p|div|br|li|h[1-6]|tr)[^>]*>`)
	blankRunRE = regexp.MustCompile(`\n{3,}`)
)

// DetailRenderer turns a college document into terminal markdown
type DetailRenderer struct {
	policy *bluemonday.Policy
	style  string // glamour style; empty picks one from the terminal

	renderer      *glamour.TermRenderer
	rendererWidth int
}

// NewDetailRenderer creates a renderer. style is a glamour standard style
// name such as "dark" or "notty"; empty means auto-detect.
func NewDetailRenderer(style string) *DetailRenderer {
	return &DetailRenderer{
		policy: bluemonday.StrictPolicy(),
		style:  style,
	}
}

// PlainText strips CMS markup down to paragraphs of text
func (d *DetailRenderer) PlainText(raw string) string {
	if raw == "" {
		return ""
	}
	// keep paragraph breaks before the policy drops the tags
	withBreaks := blockTagRE.ReplaceAllString(raw, "\n\n")
	text := html.UnescapeString(d.policy.Sanitize(withBreaks))

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	text = blankRunRE.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

// Markdown builds the detail page
func (d *DetailRenderer) Markdown(c domain.CollegeDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	if place := c.Location.Place(); place != "" {
		fmt.Fprintf(&b, "*%s*\n\n", place)
	}

	var facts [][2]string
	add := func(k, v string) {
		if v != "" {
			facts = append(facts, [2]string{k, v})
		}
	}
	if c.NIRFRank != nil {
		add("NIRF rank", fmt.Sprintf("#%d", *c.NIRFRank))
	}
	if c.Rating != nil {
		add("Rating", fmt.Sprintf("%.1f / 5", *c.Rating))
	}
	add("Type", c.Type)
	if c.Established > 0 {
		add("Established", fmt.Sprint(c.Established))
	}
	add("Affiliation", c.Affiliation)
	add("Accreditation", c.Accreditation)
	if fee := TuitionFee(c.CollegeSummary); fee > 0 {
		add("Tuition", FormatRupees(fee))
	}
	add("Address", c.Location.Address)
	add("Website", c.Website)
	add("Email", c.Email)
	add("Phone", c.Phone)

	if len(facts) > 0 {
		b.WriteString("| | |\n|---|---|\n")
		for _, f := range facts {
			fmt.Fprintf(&b, "| **%s** | %s |\n", f[0], cell(f[1]))
		}
		b.WriteString("\n")
	}

	if about := d.PlainText(c.About); about != "" {
		b.WriteString("## About\n\n")
		b.WriteString(about)
		b.WriteString("\n\n")
	}

	if len(c.CoursesOffered) > 0 {
		b.WriteString("## Courses\n\n| Course | Fee |\n|---|---|\n")
		for _, co := range c.CoursesOffered {
			fee := "-"
			if co.Fee > 0 {
				fee = FormatRupees(co.Fee)
			}
			fmt.Fprintf(&b, "| %s | %s |\n", cell(co.CourseName), fee)
		}
		b.WriteString("\n")
	}

	writeList(&b, "Streams", c.Streams)
	writeList(&b, "Facilities", c.Facilities)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Render renders the detail page for the given terminal width
func (d *DetailRenderer) Render(c domain.CollegeDetail, width int) (string, error) {
	r, err := d.termRenderer(width)
	if err != nil {
		return "", err
	}
	return r.Render(d.Markdown(c))
}

func (d *DetailRenderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	wrap := min(max(width-4, 40), 120)
	if d.renderer != nil && d.rendererWidth == wrap {
		return d.renderer, nil
	}

	styleOpt := glamour.WithAutoStyle()
	if d.style != "" {
		styleOpt = glamour.WithStandardStyle(d.style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("detail renderer: %w", err)
	}
	d.renderer = r
	d.rendererWidth = wrap
	return r, nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
