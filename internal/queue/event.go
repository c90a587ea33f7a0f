// Package queue defines message payloads exchanged over the message broker.
package queue

// Booking lifecycle actions carried in BookingEvent.Action.
const (
    ActionCreated   = "created"
    ActionEdited    = "edited"
    ActionCancelled = "cancelled"
)

// BookingEvent is published after a booking mutation commits. It
// contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type BookingEvent struct {
    Action        string `json:"action"`
    BookingID     uint64 `json:"booking_id"`
    WorkspaceID   uint64 `json:"workspace_id"`
    WorkspaceName string `json:"workspace_name"`
    OwnerID       uint64 `json:"owner_id"`
    Date          string `json:"date"`
    StartTime     string `json:"start_time"`
    EndTime       string `json:"end_time"`
    OccurredAt    string `json:"occurred_at"`
}
