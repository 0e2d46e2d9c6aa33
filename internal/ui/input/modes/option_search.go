package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"collegefinder/internal/ui/input/types"
)

// OptionSearchMode narrows the options of the active filter tab
type OptionSearchMode struct {
	TextInputMode
}

func NewOptionSearchMode(ti *textinput.Model) *OptionSearchMode {
	return &OptionSearchMode{
		TextInputMode: NewTextInputMode(types.ModeOptionSearch, types.ModeFilter, "filter search", "Find: ", ti),
	}
}
