package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"collegefinder/internal/ui/input/types"
)

// SearchMode edits the college search box
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, types.ModeNormal, "search", "Search: ", ti),
	}
}

// HandleKey adds dropdown navigation on top of the text input keys
func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "up", "ctrl+p":
		if ctx.SuggestionsVisible() {
			return []types.Action{types.SuggestionNavigateAction{Direction: "up"}}, true
		}
		return nil, true
	case "down", "ctrl+n":
		if ctx.SuggestionsVisible() {
			return []types.Action{types.SuggestionNavigateAction{Direction: "down"}}, true
		}
		return nil, true
	case "esc":
		// first esc closes the dropdown, the second leaves the box
		if ctx.SuggestionsVisible() {
			return []types.Action{types.HideSuggestionsAction{}}, true
		}
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
