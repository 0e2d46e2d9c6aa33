package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"collegefinder/internal/domain"
)

// CollegeRenderer handles rendering of result rows
type CollegeRenderer struct {
	styles *Styles
}

// NewCollegeRenderer creates a new college renderer
func NewCollegeRenderer(styles *Styles) *CollegeRenderer {
	return &CollegeRenderer{styles: styles}
}

// RenderCollege renders a college as two lines: name and place, then the
// rank/rating/fees summary
func (r *CollegeRenderer) RenderCollege(c domain.CollegeSummary, number int, isSelected bool, searchQuery string) string {
	bg := lipgloss.NewStyle()
	marker := "  "
	if isSelected {
		bg = r.styles.SelectionBg
		marker = "› "
	}

	name := c.Name
	nameStyle := bg.Bold(true)
	if searchQuery != "" && strings.Contains(strings.ToLower(name), strings.ToLower(searchQuery)) {
		name = r.highlightMatch(name, searchQuery, bg.Inherit(r.styles.Highlight), nameStyle)
	} else {
		name = nameStyle.Render(name)
	}

	head := bg.Render(fmt.Sprintf("%s%2d. ", marker, number)) + name
	if place := c.Location.Place(); place != "" {
		head += bg.Render("  ") + r.styles.Meta.Inherit(bg).Render(place)
	}

	var meta []string
	if c.NIRFRank != nil {
		meta = append(meta, r.styles.Rank.Render(fmt.Sprintf("NIRF #%d", *c.NIRFRank)))
	}
	if c.Rating != nil {
		meta = append(meta, fmt.Sprintf("★ %.1f", *c.Rating))
	}
	if fee := TuitionFee(c); fee > 0 {
		meta = append(meta, "Fees "+FormatRupees(fee))
	}
	if c.Type != "" {
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(OwnershipColor(c.Type))).Render(c.Type))
	}
	if n := len(c.CoursesOffered); n > 0 {
		meta = append(meta, fmt.Sprintf("%d courses", n))
	}

	line2 := "      " + strings.Join(meta, r.styles.Dim.Render("  ·  "))
	return head + "\n" + line2
}

// TuitionFee picks the headline fee: the tuition figure, else the cheapest course
func TuitionFee(c domain.CollegeSummary) float64 {
	if c.Fees != nil && c.Fees.Tuition > 0 {
		return c.Fees.Tuition
	}
	var low float64
	for _, co := range c.CoursesOffered {
		if co.Fee > 0 && (low == 0 || co.Fee < low) {
			low = co.Fee
		}
	}
	return low
}

// FormatRupees renders an amount with Indian digit grouping, e.g. ₹2,30,000
func FormatRupees(amount float64) string {
	digits := strconv.FormatInt(int64(amount+0.5), 10)
	if len(digits) <= 3 {
		return "₹" + digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return "₹" + strings.Join(groups, ",") + "," + tail
}

// highlightMatch highlights matching text within a string
func (r *CollegeRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	if index == -1 || len(lowerText) != len(text) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}
