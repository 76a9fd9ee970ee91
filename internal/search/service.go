// Package search runs backend queries in response to bus events.
//
// Submissions may overlap: the newest one always wins. An in-flight
// request is canceled when a newer submission arrives, and a result
// that comes back after it has been superseded is dropped instead of
// being published.
package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"sonar/internal/api"
	"sonar/internal/domain"
	"sonar/internal/eventbus"
)

// Service executes search requests published on the event bus
type Service interface {
	// CancelActive aborts the in-flight request, if any
	CancelActive()
}

// service is the concrete implementation
type service struct {
	bus     eventbus.EventBus
	client  *api.Client
	timeout time.Duration

	mu       sync.Mutex
	activeID string
	lastSeq  int64
	cancel   context.CancelFunc
}

// NewService creates a search service subscribed to SearchRequested events
func NewService(bus eventbus.EventBus, client *api.Client, timeout time.Duration) Service {
	s := &service{
		bus:     bus,
		client:  client,
		timeout: timeout,
	}

	bus.Subscribe(eventbus.EventSearchRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.SearchRequestedEvent); ok {
			s.run(event)
		}
	})

	return s
}

// CancelActive aborts the in-flight request, if any
func (s *service) CancelActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// run executes one search request end to end
func (s *service) run(req eventbus.SearchRequestedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)

	s.mu.Lock()
	if req.Seq <= s.lastSeq {
		// A newer submission was already seen; this one is stale on arrival
		s.mu.Unlock()
		cancel()
		log.Printf("Search %s: stale submission (seq %d), dropping", req.ID, req.Seq)
		return
	}
	if s.cancel != nil {
		// Newest submission wins
		s.cancel()
	}
	s.lastSeq = req.Seq
	s.activeID = req.ID
	s.cancel = cancel
	s.mu.Unlock()

	log.Printf("Search %s: %q (k=%d)", req.ID, req.Query, req.K)
	s.bus.Publish(eventbus.SearchStartedEvent{ID: req.ID, Query: req.Query, K: req.K})

	result, err := s.client.Search(ctx, domain.SearchRequest{Query: req.Query, K: req.K})

	s.mu.Lock()
	stale := s.activeID != req.ID
	if !stale {
		s.activeID = ""
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if stale {
		log.Printf("Search %s: superseded, dropping outcome", req.ID)
		return
	}

	if err != nil {
		s.publishFailure(req, err)
		return
	}

	result.ID = req.ID
	result.K = req.K
	log.Printf("Search %s: completed in %s (%d sources)", req.ID, result.Duration.Round(time.Millisecond), len(result.Response.Sources))
	s.bus.Publish(eventbus.SearchCompletedEvent{Result: *result})
}

// publishFailure maps a client error onto a SearchFailed event
func (s *service) publishFailure(req eventbus.SearchRequestedEvent, err error) {
	message := err.Error()
	canceled := false
	status := 0

	var statusErr *api.StatusError
	switch {
	case errors.Is(err, context.Canceled):
		canceled = true
		message = "search canceled"
	case errors.Is(err, context.DeadlineExceeded):
		message = fmt.Sprintf("request timed out after %ds", int(s.timeout.Seconds()))
	case errors.As(err, &statusErr):
		status = statusErr.Status
		message = statusErr.Detail
	}

	if canceled {
		log.Printf("Search %s: canceled", req.ID)
	} else {
		log.Printf("Search %s: failed: %v", req.ID, err)
	}

	s.bus.Publish(eventbus.SearchFailedEvent{
		ID:       req.ID,
		Query:    req.Query,
		Message:  message,
		Status:   status,
		Err:      err,
		Canceled: canceled,
	})
}
