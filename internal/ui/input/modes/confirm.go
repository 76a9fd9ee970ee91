package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"sonar/internal/ui/input/types"
)

// ConfirmClearMode asks before wiping the search history
type ConfirmClearMode struct{}

func NewConfirmClearMode() *ConfirmClearMode {
	return &ConfirmClearMode{}
}

func (m *ConfirmClearMode) Name() string {
	return "confirm-clear"
}

func (m *ConfirmClearMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmClearMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmClearMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "y", "Y":
		return []types.Action{
			types.ClearHistoryAction{},
			types.ChangeModeAction{Mode: types.ModeHistory},
		}, true

	case "n", "N", "esc":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeHistory}}, true
	}

	return nil, false
}
