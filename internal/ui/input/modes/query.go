package modes

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sonar/internal/ui/input/types"
)

// QueryMode is the text mode for editing and submitting the query
type QueryMode struct {
	textInput *textinput.Model
}

func NewQueryMode(ti *textinput.Model) *QueryMode {
	return &QueryMode{textInput: ti}
}

func (m *QueryMode) Name() string {
	return "query"
}

func (m *QueryMode) Enter(ctx types.Context) []types.Action {
	// The form keeps its text across submissions, so restore rather
	// than reset when focus returns.
	if m.textInput != nil {
		m.textInput.SetValue(ctx.Query())
		m.textInput.CursorEnd()
		m.textInput.Focus()
		m.textInput.Prompt = "" // Prompt is handled in the view layer
	}
	return nil
}

func (m *QueryMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m *QueryMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case tea.KeyUp:
		return []types.Action{types.AdjustKAction{Delta: 1}}, true

	case tea.KeyDown:
		return []types.Action{types.AdjustKAction{Delta: -1}}, true

	case tea.KeyEnter:
		query := ""
		if m.textInput != nil {
			query = m.textInput.Value()
		}
		if strings.TrimSpace(query) == "" {
			// Nothing to submit, stay in the form
			return nil, true
		}
		return []types.Action{types.SubmitAction{Query: query, K: ctx.K()}}, true
	}

	// Everything else edits the text input
	return nil, false
}
