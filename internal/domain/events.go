package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchRequested       EventType = "SearchRequested"
	EventSearchStarted         EventType = "SearchStarted"
	EventSearchCompleted       EventType = "SearchCompleted"
	EventSearchFailed          EventType = "SearchFailed"
	EventHealthChecked         EventType = "HealthChecked"
	EventHistoryAppended       EventType = "HistoryAppended"
	EventHistoryClearRequested EventType = "HistoryClearRequested"
	EventHistoryCleared        EventType = "HistoryCleared"
	EventError                 EventType = "Error"
	EventConfigLoaded          EventType = "ConfigLoaded"
	EventConfigSaved           EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchRequestedEvent is emitted when the user submits a query.
// Seq orders submissions so a slow older request can never clobber
// the result of a newer one.
type SearchRequestedEvent struct {
	ID    string
	Seq   int64
	Query string
	K     int
}

func (e SearchRequestedEvent) Type() EventType { return EventSearchRequested }

// SearchStartedEvent is emitted when the search service begins a request
type SearchStartedEvent struct {
	ID    string
	Query string
	K     int
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when a search request succeeds
type SearchCompletedEvent struct {
	Result SearchResult
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when a search request fails for any reason
type SearchFailedEvent struct {
	ID       string
	Query    string
	Message  string
	Status   int // 0 when the request never reached the backend
	Err      error
	Canceled bool
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// HealthCheckedEvent is emitted after probing the backend's /health endpoint
type HealthCheckedEvent struct {
	Status HealthStatus
}

func (e HealthCheckedEvent) Type() EventType { return EventHealthChecked }

// HistoryAppendedEvent is emitted when a search is recorded in history
type HistoryAppendedEvent struct {
	Entry HistoryEntry
}

func (e HistoryAppendedEvent) Type() EventType { return EventHistoryAppended }

// HistoryClearRequestedEvent is emitted to request wiping the history store
type HistoryClearRequestedEvent struct{}

func (e HistoryClearRequestedEvent) Type() EventType { return EventHistoryClearRequested }

// HistoryClearedEvent is emitted when the history store has been wiped
type HistoryClearedEvent struct {
	Removed int
}

func (e HistoryClearedEvent) Type() EventType { return EventHistoryCleared }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	BaseURL  string
	DefaultK int
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
