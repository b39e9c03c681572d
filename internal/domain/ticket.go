package domain

import "time"

// DefaultLessonsPerTicket is the capacity of a season ticket at issuance.
const DefaultLessonsPerTicket = 4

// Ticket is a capacity grant of N lessons to a user. A user may
// accumulate many tickets over time; the one with the greatest
// CreatedAt is the active entitlement while it has lessons left.
type Ticket struct {
	ID           int64
	UserID       int64
	LessonsTotal int
	LessonsUsed  int
	CreatedAt    time.Time
}

// LessonsLeft reports remaining capacity. The store enforces
// 0 <= lessons_used <= lessons_total, so this is never negative.
func (t *Ticket) LessonsLeft() int {
	return t.LessonsTotal - t.LessonsUsed
}

// Active reports whether the ticket still grants lessons.
func (t *Ticket) Active() bool {
	return t.LessonsLeft() > 0
}
