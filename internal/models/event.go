// internal/models/event.go
// Domain models representing core business entities

package models

import "time"

// Event is a scheduled competition. Mutated by external registration flow;
// the engine only reads it to filter eligible Entries.
type Event struct {
	ID            int64       `json:"id" db:"id"`
	Name          string      `json:"name" db:"name"`
	ScheduledDate time.Time   `json:"scheduled_date" db:"scheduled_date"`
	Venue         string      `json:"venue" db:"venue"`
	Status        EventStatus `json:"status" db:"status"`
}

// EventStatus is the event lifecycle state.
type EventStatus string

const (
	EventUpcoming        EventStatus = "upcoming"
	EventRegistrationOpen EventStatus = "registration_open"
	EventCheckIn         EventStatus = "check_in"
	EventInProgress      EventStatus = "in_progress"
	EventCompleted       EventStatus = "completed"
	EventCancelled       EventStatus = "cancelled"
)
