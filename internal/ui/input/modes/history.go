package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"sonar/internal/ui/input/types"
)

// HistoryMode drives the search history overlay
type HistoryMode struct{}

func NewHistoryMode() *HistoryMode {
	return &HistoryMode{}
}

func (m *HistoryMode) Name() string {
	return "history"
}

func (m *HistoryMode) Enter(ctx types.Context) []types.Action {
	// Refresh the listing every time the overlay opens
	return []types.Action{types.LoadHistoryAction{}}
}

func (m *HistoryMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *HistoryMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case tea.KeyUp:
		return []types.Action{types.HistoryNavigateAction{Delta: -1}}, true

	case tea.KeyDown:
		return []types.Action{types.HistoryNavigateAction{Delta: 1}}, true

	case tea.KeyEnter:
		// Recall the selected answer
		if ctx.HistoryLength() > 0 {
			return []types.Action{
				types.HistorySelectAction{},
				types.ChangeModeAction{Mode: types.ModeNormal},
			}, true
		}
		return nil, true
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.HistoryNavigateAction{Delta: 1}}, true

	case "k":
		return []types.Action{types.HistoryNavigateAction{Delta: -1}}, true

	case "h", "q":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "x":
		if ctx.HistoryLength() > 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeConfirmClear}}, true
		}
		return nil, true
	}

	return nil, false
}
