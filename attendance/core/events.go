package core

import (
	"context"
	"log"

	"timekeep.com/timekeep/attendance/model"
)

// Events published by the lifecycle manager. Delivery is fire-and-forget:
// a sink failure is logged and never rolls back the state transition that
// produced the event.

type SessionCreated struct {
	Session model.TimeSession
}

type SessionStatusChanged struct {
	Session        model.TimeSession
	PreviousStatus string
	Reviewer       string
}

type Event interface {
	EventName() string
}

func (SessionCreated) EventName() string       { return "session.created" }
func (SessionStatusChanged) EventName() string { return "session.status_changed" }

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher is the default sink; it just records the event.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event Event) error {
	log.Printf("[EVENT] %s", event.EventName())
	return nil
}

// publish shields transitions from sink failures.
func (m *Manager) publish(ctx context.Context, event Event) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, event); err != nil {
		log.Printf("[WARN] failed to publish %s: %v", event.EventName(), err)
	}
}
