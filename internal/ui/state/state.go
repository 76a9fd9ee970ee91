package state

import (
	"time"

	"sonar/internal/domain"
)

// AppState contains all the application state
type AppState struct {
	// Query form state
	Query string // current query text (mirrors the text input)
	K     int    // requested number of sources

	// Active search state
	Searching     bool   // whether a request is in flight
	ActiveID      string // id of the in-flight request
	ActiveQuery   string // query text of the in-flight request
	SearchStarted time.Time

	// Last outcome. Result and ErrorMessage are mutually exclusive:
	// a new submission clears both before anything else happens.
	Result       *domain.SearchResult
	ErrorMessage string
	ScrollOffset int // first visible line of the rendered result body

	// Backend state
	Health *domain.HealthStatus // nil until the first probe reports

	// History state
	HistoryEntries []domain.HistoryEntry // newest first, loaded on demand
	HistoryIndex   int                   // selected row in the history overlay
	ShowHistory    bool

	// UI state
	ShowHelp        bool
	ShowDiagnostics bool
	StatusMessage   string // status bar message
}

// NewAppState creates a new application state
func NewAppState(defaultK int) *AppState {
	return &AppState{
		K: domain.ClampK(defaultK, defaultK),
	}
}

// BeginSearch records a new in-flight request, clearing the previous
// outcome so stale answers and errors never show next to the spinner.
func (s *AppState) BeginSearch(id, query string) {
	s.Searching = true
	s.ActiveID = id
	s.ActiveQuery = query
	s.SearchStarted = time.Now()
	s.Result = nil
	s.ErrorMessage = ""
	s.ScrollOffset = 0
}

// CompleteSearch stores a successful outcome if it belongs to the
// in-flight request. Returns false for stale results.
func (s *AppState) CompleteSearch(result domain.SearchResult) bool {
	if result.ID != s.ActiveID {
		return false
	}
	s.Searching = false
	s.ActiveID = ""
	s.Result = &result
	s.ErrorMessage = ""
	s.ScrollOffset = 0
	return true
}

// FailSearch stores a failed outcome if it belongs to the in-flight
// request. Returns false for stale failures.
func (s *AppState) FailSearch(id, message string) bool {
	if id != s.ActiveID {
		return false
	}
	s.Searching = false
	s.ActiveID = ""
	s.Result = nil
	s.ErrorMessage = message
	return true
}

// CancelSearch stops tracking the in-flight request without recording
// an error. Returns false when the id no longer matches.
func (s *AppState) CancelSearch(id string) bool {
	if !s.Searching || id != s.ActiveID {
		return false
	}
	s.Searching = false
	s.ActiveID = ""
	return true
}

// ShowStored displays a recalled result without a network round trip.
// Clearing ActiveID makes any still-running request stale, so its
// late outcome cannot replace the recalled answer.
func (s *AppState) ShowStored(result domain.SearchResult) {
	s.Searching = false
	s.ActiveID = ""
	s.Result = &result
	s.ErrorMessage = ""
	s.ScrollOffset = 0
}

// HasAnswer reports whether a non-empty answer is on screen
func (s *AppState) HasAnswer() bool {
	return s.Result != nil && s.Result.Response.Answer != ""
}

// AdjustK nudges k by delta, clamped to the valid range
func (s *AppState) AdjustK(delta int) {
	k := s.K + delta
	if k < domain.MinK {
		k = domain.MinK
	}
	if k > domain.MaxK {
		k = domain.MaxK
	}
	s.K = k
}

// SelectedHistoryEntry returns the highlighted history entry, or nil
func (s *AppState) SelectedHistoryEntry() *domain.HistoryEntry {
	if s.HistoryIndex < 0 || s.HistoryIndex >= len(s.HistoryEntries) {
		return nil
	}
	return &s.HistoryEntries[s.HistoryIndex]
}

// MoveHistorySelection moves the history cursor by delta, clamped
func (s *AppState) MoveHistorySelection(delta int) {
	if len(s.HistoryEntries) == 0 {
		s.HistoryIndex = 0
		return
	}
	idx := s.HistoryIndex + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.HistoryEntries) {
		idx = len(s.HistoryEntries) - 1
	}
	s.HistoryIndex = idx
}
