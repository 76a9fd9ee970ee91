package ui

import (
	"time"

	"sonar/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer for animations
type tickMsg time.Time

// clearStatusMsg wipes the transient status line
type clearStatusMsg struct{}

// copyDoneMsg contains the result of copying the answer
type copyDoneMsg struct {
	err error
}

// pagerClosedMsg is sent after the pager hands the terminal back
type pagerClosedMsg struct {
	err error
}

// pauseRenderingMsg stops the tick loop while an external pager owns
// the terminal
type pauseRenderingMsg struct{}

// resumeRenderingMsg restarts the tick loop once the terminal is ours
// again
type resumeRenderingMsg struct{}

// sourceOpenedMsg contains the result of opening a source link
type sourceOpenedMsg struct {
	index int
	err   error
}
