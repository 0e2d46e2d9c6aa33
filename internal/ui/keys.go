package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"collegefinder/internal/ui/input/types"
)

// keyMap backs the one-line help bar. The input modes own the real
// dispatch; these bindings only describe it.
type keyMap struct {
	mode types.Mode

	Up, Down     key.Binding
	Prev, Next   key.Binding
	Open         key.Binding
	Search       key.Binding
	Filters      key.Binding
	Sort         key.Binding
	Links        key.Binding
	Back         key.Binding
	Copy         key.Binding
	Help         key.Binding
	Quit         key.Binding
	Toggle       key.Binding
	Tabs         key.Binding
	Find         key.Binding
	Reset        key.Binding
	Pick         key.Binding
	Accept       key.Binding
	Cancel       key.Binding
	QuickLinkNum key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev:         key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/h", "prev page")),
		Next:         key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/l", "next page")),
		Open:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filters:      key.NewBinding(key.WithKeys("tab", "F"), key.WithHelp("tab", "filters")),
		Sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Links:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "links")),
		Back:         key.NewBinding(key.WithKeys("b", "f"), key.WithHelp("b/f", "back/fwd")),
		Copy:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Toggle:       key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space", "toggle")),
		Tabs:         key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Find:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "clear all")),
		Pick:         key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "suggestions")),
		Accept:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		QuickLinkNum: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "open")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	switch k.mode {
	case types.ModeSearch:
		return []key.Binding{k.Pick, k.Accept, k.Cancel}
	case types.ModeOptionSearch, types.ModeOpenLink:
		return []key.Binding{k.Accept, k.Cancel}
	case types.ModeFilter:
		return []key.Binding{k.Tabs, k.Up, k.Down, k.Toggle, k.Find, k.Reset, k.Cancel}
	case types.ModeSort:
		return []key.Binding{k.Up, k.Down, k.Accept, k.Cancel}
	case types.ModeLinks:
		return []key.Binding{k.Up, k.Down, k.QuickLinkNum, k.Accept, k.Cancel}
	default:
		return []key.Binding{k.Down, k.Next, k.Open, k.Search, k.Filters, k.Sort, k.Links, k.Help, k.Quit}
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next, k.Open},
		{k.Search, k.Filters, k.Sort, k.Reset},
		{k.Links, k.Back, k.Copy},
		{k.Help, k.Quit},
	}
}
