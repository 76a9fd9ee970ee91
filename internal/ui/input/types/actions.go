package types

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Query form actions
type UpdateQueryAction struct {
	Text string
}

func (a UpdateQueryAction) Type() string { return "update_query" }

type SubmitAction struct {
	Query string
	K     int
}

func (a SubmitAction) Type() string { return "submit" }

type AdjustKAction struct {
	Delta int
}

func (a AdjustKAction) Type() string { return "adjust_k" }

type CancelSearchAction struct{}

func (a CancelSearchAction) Type() string { return "cancel_search" }

// Result actions
type CopyAnswerAction struct{}

func (a CopyAnswerAction) Type() string { return "copy_answer" }

type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

type OpenSourceAction struct {
	Index int // zero-based position in the source list
}

func (a OpenSourceAction) Type() string { return "open_source" }

type ScrollAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "top", "bottom"
}

func (a ScrollAction) Type() string { return "scroll" }

type ToggleDiagnosticsAction struct{}

func (a ToggleDiagnosticsAction) Type() string { return "toggle_diagnostics" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

// History actions
type LoadHistoryAction struct{}

func (a LoadHistoryAction) Type() string { return "load_history" }

type HistoryNavigateAction struct {
	Delta int
}

func (a HistoryNavigateAction) Type() string { return "history_navigate" }

type HistorySelectAction struct{}

func (a HistorySelectAction) Type() string { return "history_select" }

type ClearHistoryAction struct{}

func (a ClearHistoryAction) Type() string { return "clear_history" }

// Application actions
type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
