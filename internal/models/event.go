package models

import "time"

// AppointmentEventType names a state change on an appointment.
type AppointmentEventType string

const (
	EventAppointmentCreated   AppointmentEventType = "APPOINTMENT_CREATED"
	EventAppointmentCancelled AppointmentEventType = "APPOINTMENT_CANCELLED"
	EventAppointmentBooked    AppointmentEventType = "APPOINTMENT_BOOKED"
	EventAppointmentUnbooked  AppointmentEventType = "APPOINTMENT_UNBOOKED"
	EventAppointmentSwitched  AppointmentEventType = "APPOINTMENT_SWITCHED"
	EventFeedbackSubmitted    AppointmentEventType = "APPOINTMENT_FEEDBACK_SUBMITTED"
)

// AppointmentEvent is emitted after a successful mutation for downstream integrations.
type AppointmentEvent struct {
	ID            string               `json:"id"`
	Type          AppointmentEventType `json:"type"`
	AppointmentID string               `json:"appointment_id"`
	// PreviousAppointmentID is set on switch events to the appointment the student left.
	PreviousAppointmentID string       `json:"previous_appointment_id,omitempty"`
	ActorID               string       `json:"actor_id"`
	OccurredAt            time.Time    `json:"occurred_at"`
	Appointment           *Appointment `json:"appointment"`
}
