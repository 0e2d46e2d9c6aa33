package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"collegefinder/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		// In normal mode, Esc doesn't do anything
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft:
		return []types.Action{types.PageAction{Delta: -1}}, true

	case tea.KeyRight:
		return []types.Action{types.PageAction{Delta: 1}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyTab:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true

	case tea.KeyEnter:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.OpenDetailAction{}}, true
		}
		return nil, false
	}

	// Handle string keys
	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case "h", "[":
		return []types.Action{types.PageAction{Delta: -1}}, true

	case "l", "]":
		return []types.Action{types.PageAction{Delta: 1}}, true

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.SearchText()}}, true

	case "F":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true

	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSort}}, true

	case "g":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeLinks}}, true

	case "o":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeOpenLink}}, true

	case "b":
		return []types.Action{types.HistoryAction{Forward: false}}, true

	case "f":
		return []types.Action{types.HistoryAction{Forward: true}}, true

	case "y":
		return []types.Action{types.CopyLinkAction{}}, true

	case "r":
		return []types.Action{types.ResetFiltersAction{}}, true

	case "R", "ctrl+r":
		return []types.Action{types.RefreshAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}
