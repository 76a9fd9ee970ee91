package input

import (
	"sonar/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
}

// Query returns the current query form text
func (c *ModelContext) Query() string {
	return c.State.Query
}

// K returns the requested source count
func (c *ModelContext) K() int {
	return c.State.K
}

// Searching reports whether a request is in flight
func (c *ModelContext) Searching() bool {
	return c.State.Searching
}

// HasAnswer reports whether a non-empty answer is displayed
func (c *ModelContext) HasAnswer() bool {
	return c.State.HasAnswer()
}

// SourceCount returns the number of sources in the current result
func (c *ModelContext) SourceCount() int {
	if c.State.Result == nil {
		return 0
	}
	return len(c.State.Result.Response.Sources)
}

// HistoryLength returns the number of loaded history entries
func (c *ModelContext) HistoryLength() int {
	return len(c.State.HistoryEntries)
}
