package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderCompletedEvent is emitted once payment for a handoff succeeds.
type OrderCompletedEvent struct {
	SessionID   string    `json:"session_id"`
	HandoffID   string    `json:"handoff_id"`
	LinesFreed  int       `json:"lines_freed"`
	CompletedAt time.Time `json:"completed_at"`
}

// OrderCompletedV1 is the typed event definition for completed orders.
// Subject: events.checkout.v1.order-completed
var OrderCompletedV1 = helper.EventDefinition[OrderCompletedEvent](
	"checkout", "OrderCompleted", "v1",
)
