package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventTicketIssued   EventType = "ticket_issued"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Username string `json:"username,omitempty"`
}

// TicketIssuedPayload payload.
type TicketIssuedPayload struct {
	TicketID     int64 `json:"ticket_id"`
	LessonsTotal int   `json:"lessons_total"`
}
