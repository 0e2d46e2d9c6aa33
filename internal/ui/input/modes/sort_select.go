package modes

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"collegefinder/internal/filter"
	"collegefinder/internal/ui/input/types"
)

type SortSelectMode struct {
	sortIndex     int
	originalIndex int // Remember the original sort when entering
}

func NewSortSelectMode() *SortSelectMode {
	return &SortSelectMode{}
}

func (m *SortSelectMode) Name() string {
	return "sort"
}

func (m *SortSelectMode) Enter(ctx types.Context) []types.Action {
	m.sortIndex = max(0, slices.Index(filter.Sorts(), ctx.CurrentSort()))
	m.originalIndex = m.sortIndex
	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

func (m *SortSelectMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// HandleKey processes key messages for sort selection. Moving applies the
// sort immediately; esc restores the one active on entry.
func (m *SortSelectMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	sorts := filter.Sorts()

	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		return []types.Action{
			types.UpdateSortIndexAction{Index: m.originalIndex},
			types.SortByAction{Sort: sorts[m.originalIndex]},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "enter", "s":
		return []types.Action{
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "up", "k":
		m.sortIndex--
		if m.sortIndex < 0 {
			m.sortIndex = len(sorts) - 1
		}
	case "down", "j", "tab":
		m.sortIndex++
		if m.sortIndex >= len(sorts) {
			m.sortIndex = 0
		}
	default:
		return nil, false
	}

	return []types.Action{
		types.UpdateSortIndexAction{Index: m.sortIndex},
		types.SortByAction{Sort: sorts[m.sortIndex]},
	}, true
}

// GetCurrentIndex returns the current sort option index
func (m *SortSelectMode) GetCurrentIndex() int {
	return m.sortIndex
}
