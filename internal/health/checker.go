// Package health probes the search backend's /health endpoint.
package health

import (
	"context"
	"log"
	"time"

	"sonar/internal/api"
	"sonar/internal/domain"
	"sonar/internal/eventbus"
)

// Checker probes backend reachability and reports it on the bus
type Checker interface {
	Check(ctx context.Context)
}

// checker is the concrete implementation
type checker struct {
	bus    eventbus.EventBus
	client *api.Client
}

// NewChecker creates a new health checker
func NewChecker(bus eventbus.EventBus, client *api.Client) Checker {
	return &checker{bus: bus, client: client}
}

// Check probes the backend once and publishes a HealthChecked event.
// Failures are reported through the event, never as an error: an
// unreachable backend must not block the UI.
func (c *checker) Check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status, err := c.client.Health(probeCtx)
	if err != nil {
		log.Printf("Health: backend %s unreachable: %v", c.client.BaseURL(), err)
		c.bus.Publish(eventbus.HealthCheckedEvent{Status: domain.HealthStatus{
			OK:      false,
			BaseURL: c.client.BaseURL(),
			Detail:  err.Error(),
		}})
		return
	}

	log.Printf("Health: backend %s ok=%v", c.client.BaseURL(), status.OK)
	c.bus.Publish(eventbus.HealthCheckedEvent{Status: *status})
}
