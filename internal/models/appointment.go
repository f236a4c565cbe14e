package models

import (
	"fmt"
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment. OPEN -> CANCELLED only.
type AppointmentStatus string

const (
	AppointmentStatusOpen      AppointmentStatus = "OPEN"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment is a tutor-owned, time-bounded session with bookable slots.
type Appointment struct {
	ID           string            `json:"id"`
	TutorID      string            `json:"tutor_id"`
	Name         string            `json:"name"`
	StartTime    string            `json:"start_time"`
	EndTime      string            `json:"end_time"`
	Place        string            `json:"place"`
	MaxSlot      int               `json:"max_slot"`
	Status       AppointmentStatus `json:"status"`
	CurrentSlots []string          `json:"current_slots"`

	interval Interval
}

// AppointmentDraft carries validated creation input. StartTime and EndTime keep the caller's strings.
type AppointmentDraft struct {
	Name      string
	StartTime string
	EndTime   string
	Place     string
	MaxSlot   int
	Span      Interval
}

// NewAppointment builds an OPEN appointment with no bookings.
func NewAppointment(id, tutorID string, draft AppointmentDraft) *Appointment {
	return &Appointment{
		ID:           id,
		TutorID:      tutorID,
		Name:         draft.Name,
		StartTime:    draft.StartTime,
		EndTime:      draft.EndTime,
		Place:        draft.Place,
		MaxSlot:      draft.MaxSlot,
		Status:       AppointmentStatusOpen,
		CurrentSlots: []string{},
		interval:     draft.Span,
	}
}

// Interval returns the parsed [start, end) range.
func (a *Appointment) Interval() Interval {
	return a.interval
}

// IsOpen reports whether the appointment accepts bookings.
func (a *Appointment) IsOpen() bool {
	return a.Status == AppointmentStatusOpen
}

// IsFull reports whether every slot is taken.
func (a *Appointment) IsFull() bool {
	return len(a.CurrentSlots) >= a.MaxSlot
}

// HasStudent reports whether studentID holds a slot.
func (a *Appointment) HasStudent(studentID string) bool {
	for _, id := range a.CurrentSlots {
		if id == studentID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand outside the store.
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	clone := *a
	clone.CurrentSlots = append(make([]string, 0, len(a.CurrentSlots)), a.CurrentSlots...)
	return &clone
}

// AppointmentConflictError describes the session a candidate interval collides with.
type AppointmentConflictError struct {
	Scope           string `json:"scope"`
	AppointmentID   string `json:"appointment_id"`
	AppointmentName string `json:"appointment_name"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
}

// Conflict scopes.
const (
	ConflictScopeTutor   = "TUTOR"
	ConflictScopeStudent = "STUDENT"
)

// Error implements the error interface for conflict errors.
func (e *AppointmentConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("overlaps %q (%s - %s)", e.AppointmentName, e.StartTime, e.EndTime)
}

// ErrorMeta exposes the conflicting session to API clients.
func (e *AppointmentConflictError) ErrorMeta() map[string]interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{"conflict": e}
}

// AppointmentFilter narrows listings. Only the tutor filter is supported.
type AppointmentFilter struct {
	TutorID string
}

// Matches reports whether a satisfies the filter.
func (f AppointmentFilter) Matches(a *Appointment) bool {
	return f.TutorID == "" || a.TutorID == f.TutorID
}

// StartsBy reports whether the appointment has started at now.
func (a *Appointment) StartsBy(now time.Time) bool {
	return !now.Before(a.interval.Start)
}
