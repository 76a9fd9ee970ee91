package domain

import "time"

// Source is a single reference backing an answer.
type Source struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// SearchRequest is the payload sent to the backend's /search endpoint.
type SearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

// SearchResponse is the backend's reply to a search request.
type SearchResponse struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// SearchResult bundles a completed search with client-side metadata.
// RawBody keeps the unparsed response for the diagnostics view.
type SearchResult struct {
	ID       string
	K        int
	Response SearchResponse
	Status   int
	Duration time.Duration
	RawBody  string
}

// HistoryEntry is one recorded search in the local history store.
// Sources are kept in full so a past answer can be recalled into the
// result view without asking the backend again.
type HistoryEntry struct {
	ID          string
	Query       string
	K           int
	Answer      string
	Sources     []Source
	SourceCount int
	CreatedAt   time.Time
}

// Result rebuilds a displayable search result from a stored entry.
func (e HistoryEntry) Result() SearchResult {
	return SearchResult{
		ID: e.ID,
		K:  e.K,
		Response: SearchResponse{
			Query:   e.Query,
			Answer:  e.Answer,
			Sources: e.Sources,
		},
	}
}

// HealthStatus reports the result of a backend health probe.
type HealthStatus struct {
	OK      bool   `json:"ok"`
	BaseURL string `json:"-"`
	Detail  string `json:"-"`
}

// Bounds for the source count knob on a search request.
const (
	MinK = 1
	MaxK = 10
)

// ClampK forces k into the valid range, substituting def for values
// that were never set.
func ClampK(k, def int) int {
	if k == 0 {
		k = def
	}
	if k < MinK {
		return MinK
	}
	if k > MaxK {
		return MaxK
	}
	return k
}
