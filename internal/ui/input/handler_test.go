package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonar/internal/ui/input/types"
)

type fakeContext struct {
	query      string
	k          int
	searching  bool
	hasAnswer  bool
	sources    int
	historyLen int
}

func (f *fakeContext) Query() string      { return f.query }
func (f *fakeContext) K() int             { return f.k }
func (f *fakeContext) Searching() bool    { return f.searching }
func (f *fakeContext) HasAnswer() bool    { return f.hasAnswer }
func (f *fakeContext) SourceCount() int   { return f.sources }
func (f *fakeContext) HistoryLength() int { return f.historyLen }

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// typeText feeds each rune through the handler
func typeText(h *Handler, ctx types.Context, s string) []types.Action {
	var all []types.Action
	for _, r := range s {
		actions, _ := h.HandleKey(keyRunes(string(r)), ctx)
		all = append(all, actions...)
	}
	return all
}

// toNormal leaves the initial query mode
func toNormal(t *testing.T, h *Handler, ctx types.Context) {
	t.Helper()
	h.HandleKey(key(tea.KeyEsc), ctx)
	require.Equal(t, types.ModeNormal, h.CurrentMode())
}

func findAction[T types.Action](actions []types.Action) (T, bool) {
	for _, a := range actions {
		if typed, ok := a.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}

func TestStartsInQueryMode(t *testing.T) {
	h := New()
	assert.Equal(t, types.ModeQuery, h.CurrentMode())
	require.NotNil(t, h.TextInput())
	assert.True(t, h.TextInput().Focused())
}

func TestTypingProducesUpdateQueryActions(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}

	actions := typeText(h, ctx, "go")
	update, ok := findAction[types.UpdateQueryAction](actions)
	require.True(t, ok)
	assert.Equal(t, "go", update.Text)
	assert.Equal(t, "go", h.TextInput().Value())
}

func TestEnterWithEmptyQueryDoesNotSubmit(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}

	actions, _ := h.HandleKey(key(tea.KeyEnter), ctx)
	_, ok := findAction[types.SubmitAction](actions)
	assert.False(t, ok, "empty query must not submit")
}

func TestEnterWithWhitespaceQueryDoesNotSubmit(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}

	typeText(h, ctx, "   ")
	actions, _ := h.HandleKey(key(tea.KeyEnter), ctx)
	_, ok := findAction[types.SubmitAction](actions)
	assert.False(t, ok, "whitespace-only query must not submit")
}

func TestEnterSubmitsTypedQuery(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 4}

	typeText(h, ctx, "how do goroutines work")
	actions, _ := h.HandleKey(key(tea.KeyEnter), ctx)

	submit, ok := findAction[types.SubmitAction](actions)
	require.True(t, ok)
	assert.Equal(t, "how do goroutines work", submit.Query)
	assert.Equal(t, 4, submit.K)
}

func TestArrowKeysAdjustKInQueryMode(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}

	actions, _ := h.HandleKey(key(tea.KeyUp), ctx)
	adjust, ok := findAction[types.AdjustKAction](actions)
	require.True(t, ok)
	assert.Equal(t, 1, adjust.Delta)

	actions, _ = h.HandleKey(key(tea.KeyDown), ctx)
	adjust, ok = findAction[types.AdjustKAction](actions)
	require.True(t, ok)
	assert.Equal(t, -1, adjust.Delta)
}

func TestEscLeavesQueryModeAndTextInputHides(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}

	toNormal(t, h, ctx)
	assert.Nil(t, h.TextInput())
}

func TestReenteringQueryModeRestoresText(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}

	typeText(h, ctx, "persistent")
	toNormal(t, h, ctx)

	ctx.query = "persistent" // the model mirrors the typed text
	h.HandleKey(keyRunes("/"), ctx)
	require.Equal(t, types.ModeQuery, h.CurrentMode())
	assert.Equal(t, "persistent", h.TextInput().Value())
}

func TestNormalModeDigitOpensSourceWithinRange(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6, sources: 3}
	toNormal(t, h, ctx)

	actions, _ := h.HandleKey(keyRunes("2"), ctx)
	open, ok := findAction[types.OpenSourceAction](actions)
	require.True(t, ok)
	assert.Equal(t, 1, open.Index)

	// Out of range digits do nothing
	actions, _ = h.HandleKey(keyRunes("9"), ctx)
	_, ok = findAction[types.OpenSourceAction](actions)
	assert.False(t, ok)
}

func TestNormalModePagerRequiresAnswer(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}
	toNormal(t, h, ctx)

	actions, _ := h.HandleKey(keyRunes("o"), ctx)
	_, ok := findAction[types.OpenPagerAction](actions)
	assert.False(t, ok)

	ctx.hasAnswer = true
	actions, _ = h.HandleKey(keyRunes("o"), ctx)
	_, ok = findAction[types.OpenPagerAction](actions)
	assert.True(t, ok)
}

func TestEscCancelsOnlyWhileSearching(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6}
	toNormal(t, h, ctx)

	actions, _ := h.HandleKey(key(tea.KeyEsc), ctx)
	_, ok := findAction[types.CancelSearchAction](actions)
	assert.False(t, ok)

	ctx.searching = true
	actions, _ = h.HandleKey(key(tea.KeyEsc), ctx)
	_, ok = findAction[types.CancelSearchAction](actions)
	assert.True(t, ok)
}

func TestHistoryClearGoesThroughConfirm(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6, historyLen: 2}
	toNormal(t, h, ctx)

	actions, _ := h.HandleKey(keyRunes("h"), ctx)
	require.Equal(t, types.ModeHistory, h.CurrentMode())
	_, ok := findAction[types.LoadHistoryAction](actions)
	assert.True(t, ok, "opening history must trigger a load")

	h.HandleKey(keyRunes("x"), ctx)
	require.Equal(t, types.ModeConfirmClear, h.CurrentMode())

	// Answering no returns without clearing
	actions, _ = h.HandleKey(keyRunes("n"), ctx)
	require.Equal(t, types.ModeHistory, h.CurrentMode())
	_, ok = findAction[types.ClearHistoryAction](actions)
	assert.False(t, ok)

	// Answering yes clears
	h.HandleKey(keyRunes("x"), ctx)
	actions, _ = h.HandleKey(keyRunes("y"), ctx)
	_, ok = findAction[types.ClearHistoryAction](actions)
	assert.True(t, ok)
}

func TestHistoryEnterRecallsSelection(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6, historyLen: 1}
	toNormal(t, h, ctx)

	h.HandleKey(keyRunes("h"), ctx)
	actions, _ := h.HandleKey(key(tea.KeyEnter), ctx)

	_, ok := findAction[types.HistorySelectAction](actions)
	assert.True(t, ok)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestHistoryEnterWithEmptyHistoryDoesNothing(t *testing.T) {
	h := New()
	ctx := &fakeContext{k: 6, historyLen: 0}
	toNormal(t, h, ctx)

	h.HandleKey(keyRunes("h"), ctx)
	actions, _ := h.HandleKey(key(tea.KeyEnter), ctx)
	_, ok := findAction[types.HistorySelectAction](actions)
	assert.False(t, ok)
	assert.Equal(t, types.ModeHistory, h.CurrentMode())
}
