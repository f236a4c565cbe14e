package service

import (
	"fmt"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	"github.com/noah-isme/tutor-scheduling-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
)

// overlapScope selects the appointments a candidate interval is compared against.
type overlapScope struct {
	name       string
	ignoreID   string
	candidates func(r repository.StoreReader, visit func(*models.Appointment) bool)
}

// tutorScope compares against the tutor's own appointments that are not cancelled.
func tutorScope(tutorID string) overlapScope {
	return overlapScope{
		name: models.ConflictScopeTutor,
		candidates: func(r repository.StoreReader, visit func(*models.Appointment) bool) {
			r.Each(func(apt *models.Appointment) bool {
				if apt.TutorID != tutorID || apt.Status == models.AppointmentStatusCancelled {
					return true
				}
				return visit(apt)
			})
		},
	}
}

// studentScope compares against OPEN appointments the student currently holds a slot in,
// skipping ignoreID (the appointment being left during a switch).
func studentScope(studentID, ignoreID string) overlapScope {
	return overlapScope{
		name:     models.ConflictScopeStudent,
		ignoreID: ignoreID,
		candidates: func(r repository.StoreReader, visit func(*models.Appointment) bool) {
			for _, id := range r.StudentBookings(studentID) {
				apt, ok := r.Get(id)
				if !ok || !apt.IsOpen() || !apt.HasStudent(studentID) {
					continue
				}
				if !visit(apt) {
					return
				}
			}
		},
	}
}

// findOverlap returns the first appointment in scope whose interval overlaps candidate.
// Both tutor and student checks go through Interval.Overlaps.
func findOverlap(r repository.StoreReader, candidate models.Interval, scope overlapScope) *models.Appointment {
	var hit *models.Appointment
	scope.candidates(r, func(apt *models.Appointment) bool {
		if apt.ID == scope.ignoreID {
			return true
		}
		if candidate.Overlaps(apt.Interval()) {
			hit = apt
			return false
		}
		return true
	})
	return hit
}

func conflictError(scope string, existing *models.Appointment) error {
	detail := &models.AppointmentConflictError{
		Scope:           scope,
		AppointmentID:   existing.ID,
		AppointmentName: existing.Name,
		StartTime:       existing.StartTime,
		EndTime:         existing.EndTime,
	}
	return appErrors.Wrap(detail, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status,
		fmt.Sprintf("schedule overlaps with session: %s", existing.Name))
}
