package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"collegefinder/internal/ui/input/types"
)

// OpenLinkMode accepts a pasted listing link
type OpenLinkMode struct {
	TextInputMode
}

func NewOpenLinkMode(ti *textinput.Model) *OpenLinkMode {
	return &OpenLinkMode{
		TextInputMode: NewTextInputMode(types.ModeOpenLink, types.ModeNormal, "open link", "Open link: ", ti),
	}
}
