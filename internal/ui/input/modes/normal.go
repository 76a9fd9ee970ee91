package modes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"sonar/internal/ui/input/types"
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
		// Esc aborts an in-flight search; otherwise it does nothing
		if ctx.Searching() {
			return []types.Action{types.CancelSearchAction{}}, true
		}
		return nil, false

	case tea.KeyEnter:
		// Enter resubmits the current form, or focuses it when empty
		if strings.TrimSpace(ctx.Query()) != "" {
			return []types.Action{types.SubmitAction{Query: ctx.Query(), K: ctx.K()}}, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeQuery}}, true

	case tea.KeyUp:
		return []types.Action{types.ScrollAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.ScrollAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.ScrollAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.ScrollAction{Direction: "pagedown"}}, true
	}

	// Handle string keys
	switch key := msg.String(); key {
	case "q":
		return []types.Action{types.QuitAction{}}, true

	case "/", "i":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeQuery}}, true

	case "j":
		return []types.Action{types.ScrollAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.ScrollAction{Direction: "up"}}, true

	case "g":
		return []types.Action{types.ScrollAction{Direction: "top"}}, true

	case "G":
		return []types.Action{types.ScrollAction{Direction: "bottom"}}, true

	case "+", "=":
		return []types.Action{types.AdjustKAction{Delta: 1}}, true

	case "-", "_":
		return []types.Action{types.AdjustKAction{Delta: -1}}, true

	case "r":
		if strings.TrimSpace(ctx.Query()) != "" {
			return []types.Action{types.SubmitAction{Query: ctx.Query(), K: ctx.K()}}, true
		}
		return nil, false

	case "c":
		return []types.Action{types.CopyAnswerAction{}}, true

	case "o":
		if ctx.HasAnswer() {
			return []types.Action{types.OpenPagerAction{}}, true
		}
		return nil, false

	case "d":
		return []types.Action{types.ToggleDiagnosticsAction{}}, true

	case "h":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeHistory}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	default:
		// Digits 1-9 open the numbered source in the browser
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			index := int(key[0] - '1')
			if index < ctx.SourceCount() {
				return []types.Action{types.OpenSourceAction{Index: index}}, true
			}
		}
	}

	return nil, false
}
