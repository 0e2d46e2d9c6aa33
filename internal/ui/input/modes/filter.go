package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"collegefinder/internal/ui/input/types"
)

// FilterMode drives the filter panel: tabs per category, a cursor over the
// options of the active tab
type FilterMode struct{}

func NewFilterMode() *FilterMode {
	return &FilterMode{}
}

func (m *FilterMode) Name() string {
	return "filters"
}

func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *FilterMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *FilterMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "tab", "right", "l":
		return []types.Action{types.PanelTabAction{Delta: 1}}, true
	case "shift+tab", "left", "h":
		return []types.Action{types.PanelTabAction{Delta: -1}}, true
	case "down", "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "up", "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "home":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case "end", "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	case " ", "enter", "x":
		return []types.Action{types.ToggleOptionAction{}}, true
	case "/":
		if !ctx.PanelCategory().Searchable() {
			return nil, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeOptionSearch, Data: ctx.OptionSearch()}}, true
	case "r":
		return []types.Action{types.ResetFiltersAction{}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	}
	return nil, false
}
