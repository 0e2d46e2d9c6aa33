package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	content string
	err     error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	desc    lipgloss.Style
	note    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginBottom(1),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		desc:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		note:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
	}
}

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Results", []helpEntry{
		{"↑/↓, j/k", "Move selection"},
		{"Home/End, G", "First/last college on the page"},
		{"←/→, h/l, [/]", "Previous/next page"},
		{"Enter", "Open college details"},
		{"R, Ctrl+R", "Reload the current page"},
	}},
	{"Search & Filters", []helpEntry{
		{"/", "Search by name (suggestions after two letters)"},
		{"↑/↓", "Pick a suggestion while searching"},
		{"Esc", "Hide suggestions, then leave the search box"},
		{"Tab, F", "Open the filter panel"},
		{"Space, x", "Toggle the option under the cursor"},
		{"/ (panel)", "Search within the active filter"},
		{"s", "Choose sort order"},
		{"r", "Clear all filters"},
	}},
	{"Navigation", []helpEntry{
		{"b/f", "Back/forward through visited filters"},
		{"g", "Quick links"},
		{"o", "Open a shared link"},
		{"y", "Copy a link to the current view"},
	}},
	{"Other", []helpEntry{
		{"?", "Toggle this help"},
		{"q", "Quit"},
		{"Ctrl+C", "Quit without saving the last view"},
	}},
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	var help strings.Builder

	help.WriteString(r.title.Render("College Finder Help"))
	help.WriteString("\n")

	width := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			width = max(width, lipgloss.Width(e.keys))
		}
	}

	for i, s := range helpSections {
		help.WriteString(r.section.Render(s.title))
		help.WriteString("\n")
		for _, e := range s.entries {
			pad := strings.Repeat(" ", width-lipgloss.Width(e.keys)+2)
			help.WriteString(fmt.Sprintf("  %s%s%s\n", r.key.Render(e.keys), pad, r.desc.Render(e.desc)))
		}
		if i == 1 {
			help.WriteString(r.note.Render("  Filters, page and sort live in the link, so a copied link reopens the same view"))
			help.WriteString("\n")
		}
		if i < len(helpSections)-1 {
			help.WriteString("\n")
		}
	}

	return strings.TrimRight(help.String(), "\n")
}

// PagerOps shows long content in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{
		program: program,
	}
}

// Show hands the terminal to ov until the user quits it
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
