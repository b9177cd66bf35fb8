package events

import (
	"context"
	"time"
)

// Type names a customer change.
type Type string

const (
	CustomerCreated Type = "customer.created"
	CustomerUpdated Type = "customer.updated"
	CustomerDeleted Type = "customer.deleted"
)

// CustomerEvent is published after a write has been committed.
type CustomerEvent struct {
	Type       Type      `json:"type"`
	CustomerID int       `json:"customer_id"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
}

// Publisher delivers customer events to whoever listens downstream.
type Publisher interface {
	Publish(ctx context.Context, e CustomerEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CustomerEvent) error { return nil }
