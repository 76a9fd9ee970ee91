package history

import (
	"log"
	"time"

	"sonar/internal/domain"
	"sonar/internal/eventbus"
)

// Recorder listens for completed searches and writes them to the store
type Recorder struct {
	bus   eventbus.EventBus
	store *Store
}

// NewRecorder creates a recorder subscribed to search and history events
func NewRecorder(bus eventbus.EventBus, store *Store) *Recorder {
	r := &Recorder{bus: bus, store: store}

	bus.Subscribe(eventbus.EventSearchCompleted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchCompletedEvent); ok {
			r.record(event.Result)
		}
	})

	bus.Subscribe(eventbus.EventHistoryClearRequested, func(e eventbus.DomainEvent) {
		if _, ok := e.(eventbus.HistoryClearRequestedEvent); ok {
			r.clear()
		}
	})

	return r
}

// record persists one search result
func (r *Recorder) record(result domain.SearchResult) {
	entry := domain.HistoryEntry{
		ID:          result.ID,
		Query:       result.Response.Query,
		K:           result.K,
		Answer:      result.Response.Answer,
		Sources:     result.Response.Sources,
		SourceCount: len(result.Response.Sources),
		CreatedAt:   time.Now(),
	}

	if err := r.store.Append(entry); err != nil {
		log.Printf("History: failed to record search %s: %v", entry.ID, err)
		r.bus.Publish(eventbus.ErrorEvent{Message: "failed to record search in history", Err: err})
		return
	}

	r.bus.Publish(eventbus.HistoryAppendedEvent{Entry: entry})
}

// clear wipes the store
func (r *Recorder) clear() {
	removed, err := r.store.Clear()
	if err != nil {
		log.Printf("History: failed to clear: %v", err)
		r.bus.Publish(eventbus.ErrorEvent{Message: "failed to clear history", Err: err})
		return
	}

	log.Printf("History: cleared %d entries", removed)
	r.bus.Publish(eventbus.HistoryClearedEvent{Removed: removed})
}
