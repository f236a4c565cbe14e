package dto

import (
	"encoding/json"
	"time"
)

// CreateAppointmentRequest is the tutor payload for opening a session.
// MaxSlot accepts a JSON number or numeric string and defaults to 1 when omitted.
type CreateAppointmentRequest struct {
	Name      string      `json:"name" validate:"required"`
	StartTime string      `json:"start_time" validate:"required"`
	EndTime   string      `json:"end_time" validate:"required"`
	Place     string      `json:"place" validate:"required"`
	MaxSlot   json.Number `json:"max_slot" swaggertype:"integer"`
}

// SwitchBookingRequest moves a student's booking to another appointment.
type SwitchBookingRequest struct {
	TargetID string `json:"target_id" validate:"required"`
}

// ExportFormat selects the schedule export renderer.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportScheduleRequest describes a schedule export.
type ExportScheduleRequest struct {
	TutorID string       `form:"tutor_id"`
	Format  ExportFormat `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// SubmitFeedbackRequest rates a booked session. Rating is a pointer so a missing value
// can be told apart from zero.
type SubmitFeedbackRequest struct {
	Rating  *int   `json:"rating" swaggertype:"integer"`
	Comment string `json:"comment" validate:"max=2000"`
}

// AuditEntryResponse is one audit trail row as returned to API clients.
type AuditEntryResponse struct {
	ID            string          `json:"id"`
	EventType     string          `json:"event_type"`
	AppointmentID string          `json:"appointment_id"`
	ActorID       string          `json:"actor_id"`
	Payload       json.RawMessage `json:"payload" swaggertype:"object"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
