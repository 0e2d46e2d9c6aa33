package types

import "collegefinder/internal/filter"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// PageAction moves the result page by Delta
type PageAction struct {
	Delta int
}

func (a PageAction) Type() string { return "page" }

// HistoryAction walks the location history
type HistoryAction struct {
	Forward bool
}

func (a HistoryAction) Type() string { return "history" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
	Mode Mode
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Suggestion dropdown actions
type SuggestionNavigateAction struct {
	Direction string // "up" or "down"
}

func (a SuggestionNavigateAction) Type() string { return "suggestion_navigate" }

type HideSuggestionsAction struct{}

func (a HideSuggestionsAction) Type() string { return "hide_suggestions" }

// Filter panel actions
type PanelTabAction struct {
	Delta int
}

func (a PanelTabAction) Type() string { return "panel_tab" }

type ToggleOptionAction struct{}

func (a ToggleOptionAction) Type() string { return "toggle_option" }

type ResetFiltersAction struct{}

func (a ResetFiltersAction) Type() string { return "reset_filters" }

// Command actions
type OpenDetailAction struct{}

func (a OpenDetailAction) Type() string { return "open_detail" }

type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type CopyLinkAction struct{}

func (a CopyLinkAction) Type() string { return "copy_link" }

type OpenQuickLinkAction struct {
	Index int // -1 for current
}

func (a OpenQuickLinkAction) Type() string { return "open_quick_link" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }

// Sort actions
type SortByAction struct {
	Sort filter.Sort
}

func (a SortByAction) Type() string { return "sort_by" }

type UpdateSortIndexAction struct {
	Index int
}

func (a UpdateSortIndexAction) Type() string { return "update_sort_index" }
