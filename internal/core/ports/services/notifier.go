package services

import (
	"context"
	"time"
)

// Event is the payload handed to the notification trigger after each
// state-changing operation.
type Event struct {
	Kind       string    `json:"kind"`     // e.g. "transaction.completed", "credit.approved"
	EntityID   string    `json:"entityID"` // ID of the affected entity
	UserID     string    `json:"userID"`   // Owner or initiator
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier delivers events to the excluded notification layer. Delivery is
// fire-and-forget: implementations log failures and never return them, so a
// missed notification can never roll back a financial operation.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}
