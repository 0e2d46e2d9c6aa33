package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"collegefinder/internal/browse"
	"collegefinder/internal/catalog"
	"collegefinder/internal/filter"
	"collegefinder/internal/ui/input/types"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Browse   browse.View
	PageSize int
	Link     string // shareable URL of the current location

	Mode      types.Mode
	Prompt    string
	InputView string // rendered text input while a text mode is active

	SuggestionIndex int // highlighted suggestion, -1 for none
	SelectedIndex   int
	ViewportOffset  int
	ViewportHeight  int // result rows that fit on screen

	Panel     PanelState
	SortIndex int

	Links     []catalog.Link
	LinkIndex int

	Spinner       string
	StatusMessage string
	StatusIsError bool
	HelpView      string

	Popup string // detail fallback when the pager is unavailable
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	collegeRender *CollegeRenderer
	panelRender   *PanelRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		collegeRender: NewCollegeRenderer(styles),
		panelRender:   NewPanelRenderer(styles),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Styles exposes the style set
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.Popup != "" {
		return r.popupRender.RenderPopup(state.Popup, state.Height, state.Width, r.styles.PopupBox)
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	if state.Link != "" {
		content.WriteString(r.styles.Link.Render(Truncate(state.Link, max(10, state.Width-4))))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(r.renderSearchBox(state))
	content.WriteString("\n")
	if dropdown := r.renderSuggestions(state); dropdown != "" {
		content.WriteString(dropdown)
		content.WriteString("\n")
	}

	if summary := r.renderFilterSummary(state.Browse.Filters); summary != "" {
		content.WriteString(summary)
		content.WriteString("\n")
	}
	content.WriteString("\n")

	switch state.Mode {
	case types.ModeFilter, types.ModeOptionSearch:
		content.WriteString(r.panelRender.RenderPanel(state.Panel))
	case types.ModeLinks:
		content.WriteString(r.renderLinks(state))
	default:
		content.WriteString(r.renderResults(state))
		content.WriteString("\n")
		content.WriteString(r.renderPagination(state))
	}

	if state.Mode == types.ModeSort {
		content.WriteString("\n\n")
		content.WriteString(r.renderSortOptions(state))
	}
	if state.Mode == types.ModeOpenLink {
		content.WriteString("\n\n")
		content.WriteString(r.styles.Prompt.Render(state.Prompt) + state.InputView)
	}

	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = style.Inherit(r.styles.StatusError)
		}
		content.WriteString("\n")
		content.WriteString(style.Render(state.StatusMessage))
	}

	if state.HelpView != "" {
		content.WriteString("\n\n")
		content.WriteString(state.HelpView)
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("collegefinder")
	var right []string
	if state.Browse.Results.Loading {
		right = append(right, r.styles.StatusLoading.Render(state.Spinner+" Loading"))
	}
	right = append(right, r.styles.Dim.Render("Sort: "+state.Browse.Filters.Sort.Label()))
	rightContent := strings.Join(right, "  ")

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderSearchBox(state ViewState) string {
	if state.Mode == types.ModeSearch {
		return r.styles.Prompt.Render(state.Prompt) + state.InputView
	}
	text := state.Browse.Suggestions.Query
	if text == "" {
		return r.styles.Dim.Render("Search colleges… (press /)")
	}
	return r.styles.Prompt.Render("Search: ") + text
}

func (r *Renderer) renderSuggestions(state ViewState) string {
	s := state.Browse.Suggestions
	if state.Mode != types.ModeSearch || !s.Visible {
		return ""
	}
	if len(s.Suggestions) == 0 {
		return r.styles.Dropdown.Render(r.styles.Dim.Render("No colleges match"))
	}
	lines := make([]string, 0, len(s.Suggestions))
	for i, sug := range s.Suggestions {
		line := sug.Name
		if place := sug.Location.Place(); place != "" {
			line += r.styles.Meta.Render("  " + place)
		}
		if i == state.SuggestionIndex {
			line = r.styles.SelectionBg.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return r.styles.Dropdown.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderFilterSummary(f filter.State) string {
	var parts []string
	for _, c := range filter.Categories() {
		if vals := f.Values(c); len(vals) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", c.Title(), strings.Join(vals, ", ")))
		}
	}
	if f.City != "" {
		parts = append(parts, "City: "+f.City)
	}
	if len(parts) == 0 {
		return ""
	}
	return r.styles.Filter.Render("[" + strings.Join(parts, " | ") + "]")
}

func (r *Renderer) renderResults(state ViewState) string {
	res := state.Browse.Results
	if len(res.Colleges) == 0 {
		switch {
		case res.Loading || !res.Fetched:
			return r.styles.StatusLoading.Render(state.Spinner + " Loading colleges…")
		case state.Browse.Filters.ExcludesColleges():
			return r.styles.Dim.Render("No colleges for this goal. Add \"Colleges\" to the goal filter to see listings.")
		case res.Err != nil:
			return r.styles.StatusError.Render("No colleges found") + "\n" + r.styles.Dim.Render(errorLine(res.Err))
		default:
			return r.styles.Dim.Render("No colleges found. Try removing some filters (r resets all).")
		}
	}

	height := state.ViewportHeight
	if height <= 0 {
		height = len(res.Colleges)
	}
	start := min(max(0, state.ViewportOffset), len(res.Colleges)-1)
	end := min(len(res.Colleges), start+height)

	size := state.PageSize
	if size <= 0 {
		size = browse.DefaultPageSize
	}
	first := (state.Browse.Page.Page-1)*size + 1
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, r.collegeRender.RenderCollege(res.Colleges[i], first+i, i == state.SelectedIndex, state.Browse.Filters.Search))
	}
	out := strings.Join(rows, "\n")
	if start > 0 || end < len(res.Colleges) {
		out += "\n" + r.styles.Scroll.Render(fmt.Sprintf("  showing %d-%d of %d on this page", start+1, end, len(res.Colleges)))
	}
	if res.Err != nil {
		out += "\n" + r.styles.StatusWarning.Render(errorLine(res.Err))
	}
	return out
}

func (r *Renderer) renderPagination(state ViewState) string {
	p := state.Browse.Page
	total := max(1, p.TotalPages)
	var b strings.Builder
	prev, next := "‹ prev", "next ›"
	if p.Page <= 1 {
		prev = r.styles.Dim.Render(prev)
	}
	if p.Page >= total {
		next = r.styles.Dim.Render(next)
	}
	fmt.Fprintf(&b, "%s  Page %d of %d  %s", prev, p.Page, total, next)
	if p.HasMoreResults {
		b.WriteString("\n")
		b.WriteString(r.styles.StatusWarning.Render(fmt.Sprintf("More results exist beyond page %d. Refine your filters to narrow them down.", state.Browse.MaxPages)))
	}
	return b.String()
}

// renderSortOptions renders the sort mode selection interface
func (r *Renderer) renderSortOptions(state ViewState) string {
	sorts := filter.Sorts()
	if state.SortIndex < 0 || state.SortIndex >= len(sorts) {
		return ""
	}
	var opts []string
	for i, s := range sorts {
		if i == state.SortIndex {
			opts = append(opts, r.styles.TabActive.Render(s.Label()))
		} else {
			opts = append(opts, r.styles.Tab.Render(s.Label()))
		}
	}
	helpLine := r.styles.Dim.Render("↑/↓ or j/k to change • Enter to accept • Esc to cancel")
	return "Sort by: " + strings.Join(opts, " ") + "\n" + helpLine
}

func (r *Renderer) renderLinks(state ViewState) string {
	if len(state.Links) == 0 {
		return r.styles.Dim.Render("No quick links configured")
	}
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Quick links"))
	b.WriteString("\n")
	for i, l := range state.Links {
		line := fmt.Sprintf("%d. %s", i+1, l.Title)
		if i == state.LinkIndex {
			b.WriteString(r.styles.SelectionBg.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString(r.styles.Dim.Render("  ?" + l.Query))
		b.WriteString("\n")
	}
	b.WriteString(r.styles.Dim.Render("Enter or 1-9 to open • Esc to close"))
	return b.String()
}

func errorLine(err error) string {
	return Truncate("Could not load colleges: "+err.Error(), 120)
}
