package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"collegefinder/internal/ui/input/types"
)

// LinksMode is the quick-links menu
type LinksMode struct{}

func NewLinksMode() *LinksMode {
	return &LinksMode{}
}

func (m *LinksMode) Name() string {
	return "links"
}

func (m *LinksMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *LinksMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *LinksMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch s := msg.String(); s {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q", "g":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "down", "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "up", "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "enter":
		return []types.Action{
			types.OpenQuickLinkAction{Index: -1},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return []types.Action{
			types.OpenQuickLinkAction{Index: int(s[0] - '1')},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}
	return nil, false
}
