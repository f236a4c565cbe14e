package models

import "time"

// AuditLog is one row of the appointment audit trail.
type AuditLog struct {
	ID            string    `db:"id" json:"id"`
	EventType     string    `db:"event_type" json:"event_type"`
	AppointmentID string    `db:"appointment_id" json:"appointment_id"`
	ActorID       string    `db:"actor_id" json:"actor_id"`
	Payload       []byte    `db:"payload" json:"payload"`
	OccurredAt    time.Time `db:"occurred_at" json:"occurred_at"`
}
