package views

import (
	"fmt"
	"slices"
	"strings"

	"collegefinder/internal/filter"
)

// PanelState is what the filter panel needs to draw itself
type PanelState struct {
	Active       filter.Category
	Filters      filter.State
	Options      []string // options of the active tab after the within-filter search
	Cursor       int
	OptionSearch string
	Searching    bool   // the within-filter search box has focus
	InputView    string // rendered text input while searching
	Height       int    // rows available for options
}

// PanelRenderer draws the filter panel
type PanelRenderer struct {
	styles *Styles
}

// NewPanelRenderer creates a new panel renderer
func NewPanelRenderer(styles *Styles) *PanelRenderer {
	return &PanelRenderer{styles: styles}
}

// RenderPanel renders the tab bar, the search box and the visible options
func (p *PanelRenderer) RenderPanel(s PanelState) string {
	var b strings.Builder

	tabs := make([]string, 0, len(filter.PanelCategories()))
	for _, c := range filter.PanelCategories() {
		label := c.Title()
		if n := len(s.Filters.Values(c)); n > 0 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		if c == s.Active {
			tabs = append(tabs, p.styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, p.styles.Tab.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	switch {
	case s.Searching:
		b.WriteString(p.styles.Prompt.Render("Find: ") + s.InputView)
	case s.OptionSearch != "":
		b.WriteString(p.styles.Filter.Render(fmt.Sprintf("[Find: %s]", s.OptionSearch)))
	case s.Active.Searchable():
		b.WriteString(p.styles.Dim.Render("/ to search this list"))
	}
	b.WriteString("\n")

	if len(s.Options) == 0 {
		b.WriteString(p.styles.Dim.Render("  no matching options"))
		return b.String()
	}

	height := max(1, s.Height)
	offset := 0
	if s.Cursor >= height {
		offset = s.Cursor - height + 1
	}
	end := min(len(s.Options), offset+height)

	selected := s.Filters.Values(s.Active)
	for i := offset; i < end; i++ {
		opt := s.Options[i]
		box := "[ ]"
		line := opt
		if slices.Contains(selected, opt) {
			box = p.styles.Checked.Render("[x]")
		}
		if i == s.Cursor {
			line = p.styles.SelectionBg.Render("› "+box+" "+opt) + "\n"
		} else {
			line = "  " + box + " " + opt + "\n"
		}
		b.WriteString(line)
	}

	if end < len(s.Options) || offset > 0 {
		b.WriteString(p.styles.Scroll.Render(fmt.Sprintf("  %d-%d of %d", offset+1, end, len(s.Options))))
	}
	return strings.TrimRight(b.String(), "\n")
}
