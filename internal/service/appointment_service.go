package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	"github.com/noah-isme/tutor-scheduling-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
)

// Operation names used for metrics and logs.
const (
	OpCreate       = "create"
	OpCancel       = "cancel"
	OpBook         = "book"
	OpUnbook       = "unbook"
	OpSwitch       = "switch"
	OpFeedback     = "feedback"
	defaultMaxSlot = 1
)

type appointmentStore interface {
	View(fn func(repository.StoreReader) error) error
	Update(fn func(repository.StoreTx) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, event models.AppointmentEvent)
}

// AppointmentService implements the scheduling operations. Every write runs its
// checks and its mutation inside one store.Update call.
type AppointmentService struct {
	store    appointmentStore
	events   eventEmitter
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	location *time.Location
}

// AppointmentOption customises an AppointmentService.
type AppointmentOption func(*AppointmentService)

// WithClock overrides the clock used by the unbook deadline.
func WithClock(now func() time.Time) AppointmentOption {
	return func(s *AppointmentService) { s.now = now }
}

// WithIDGenerator overrides appointment id allocation.
func WithIDGenerator(gen func() string) AppointmentOption {
	return func(s *AppointmentService) { s.newID = gen }
}

// WithLocation sets the zone naive timestamps are interpreted in.
func WithLocation(loc *time.Location) AppointmentOption {
	return func(s *AppointmentService) { s.location = loc }
}

// WithEvents attaches an event sink notified after successful mutations.
func WithEvents(events eventEmitter) AppointmentOption {
	return func(s *AppointmentService) { s.events = events }
}

// WithMetrics attaches operation metrics.
func WithMetrics(metrics *MetricsService) AppointmentOption {
	return func(s *AppointmentService) { s.metrics = metrics }
}

// NewAppointmentService builds an AppointmentService with sane defaults.
func NewAppointmentService(store appointmentStore, logger *zap.Logger, opts ...AppointmentOption) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AppointmentService{
		store:    store,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new appointment for tutorID.
func (s *AppointmentService) Create(ctx context.Context, tutorID string, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	span, err := models.ParseInterval(req.StartTime, req.EndTime, s.location)
	if err != nil {
		return nil, s.reject(OpCreate, err, zap.String("tutor_id", tutorID))
	}
	maxSlot, err := parseMaxSlot(req.MaxSlot)
	if err != nil {
		return nil, s.reject(OpCreate, err, zap.String("tutor_id", tutorID))
	}

	id := s.newID()
	var created *models.Appointment
	err = s.store.Update(func(tx repository.StoreTx) error {
		if existing := findOverlap(tx, span, tutorScope(tutorID)); existing != nil {
			return conflictError(models.ConflictScopeTutor, existing)
		}
		if _, taken := tx.Get(id); taken {
			return appErrors.Clone(appErrors.ErrInternal, "appointment id collision")
		}
		apt := models.NewAppointment(id, tutorID, models.AppointmentDraft{
			Name:      req.Name,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Place:     req.Place,
			MaxSlot:   maxSlot,
			Span:      span,
		})
		tx.Insert(apt)
		created = apt.Clone()
		return nil
	})
	if err != nil {
		return nil, s.reject(OpCreate, err, zap.String("tutor_id", tutorID))
	}

	s.metrics.RecordOperation(OpCreate, nil)
	s.metrics.AppointmentCreated()
	s.logger.Info("appointment created",
		zap.String("appointment_id", created.ID),
		zap.String("tutor_id", tutorID),
		zap.String("start_time", created.StartTime),
		zap.Int("max_slot", created.MaxSlot),
	)
	s.emit(ctx, models.EventAppointmentCreated, created, tutorID, "")
	return created, nil
}

// Cancel marks an appointment CANCELLED on behalf of its tutor. Existing bookings stay in
// place. Cancelling an already cancelled appointment succeeds without side effects.
func (s *AppointmentService) Cancel(ctx context.Context, appointmentID, userID string) (*models.Appointment, error) {
	var (
		result  *models.Appointment
		changed bool
	)
	err := s.store.Update(func(tx repository.StoreTx) error {
		apt, ok := tx.Get(appointmentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		if apt.TutorID != userID {
			return appErrors.Clone(appErrors.ErrForbidden, "only the owning tutor can cancel this appointment")
		}
		if apt.Status != models.AppointmentStatusCancelled {
			tx.SetStatus(appointmentID, models.AppointmentStatusCancelled)
			changed = true
		}
		result = apt.Clone()
		return nil
	})
	if err != nil {
		return nil, s.reject(OpCancel, err, zap.String("appointment_id", appointmentID), zap.String("user_id", userID))
	}

	s.metrics.RecordOperation(OpCancel, nil)
	if !changed {
		s.logger.Debug("appointment already cancelled", zap.String("appointment_id", appointmentID))
		return result, nil
	}
	s.metrics.AppointmentCancelled()
	s.logger.Info("appointment cancelled",
		zap.String("appointment_id", appointmentID),
		zap.String("tutor_id", userID),
		zap.Int("booked", len(result.CurrentSlots)),
	)
	s.emit(ctx, models.EventAppointmentCancelled, result, userID, "")
	return result, nil
}

// Book reserves a slot on appointmentID for studentID.
func (s *AppointmentService) Book(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error) {
	var result *models.Appointment
	err := s.store.Update(func(tx repository.StoreTx) error {
		if _, err := checkBookable(tx, appointmentID, studentID, ""); err != nil {
			return err
		}
		tx.AddBooking(appointmentID, studentID)
		apt, _ := tx.Get(appointmentID)
		result = apt.Clone()
		return nil
	})
	if err != nil {
		return nil, s.reject(OpBook, err, zap.String("appointment_id", appointmentID), zap.String("student_id", studentID))
	}

	s.metrics.RecordOperation(OpBook, nil)
	s.metrics.SlotsChanged(1)
	s.logger.Info("appointment booked",
		zap.String("appointment_id", appointmentID),
		zap.String("student_id", studentID),
		zap.Int("booked", len(result.CurrentSlots)),
		zap.Int("max_slot", result.MaxSlot),
	)
	s.emit(ctx, models.EventAppointmentBooked, result, studentID, "")
	return result, nil
}

// Unbook releases studentID's slot on appointmentID. Allowed only strictly before the start time.
func (s *AppointmentService) Unbook(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error) {
	var result *models.Appointment
	err := s.store.Update(func(tx repository.StoreTx) error {
		if _, err := checkUnbookable(tx, appointmentID, studentID, s.now()); err != nil {
			return err
		}
		tx.RemoveBooking(appointmentID, studentID)
		apt, _ := tx.Get(appointmentID)
		result = apt.Clone()
		return nil
	})
	if err != nil {
		return nil, s.reject(OpUnbook, err, zap.String("appointment_id", appointmentID), zap.String("student_id", studentID))
	}

	s.metrics.RecordOperation(OpUnbook, nil)
	s.metrics.SlotsChanged(-1)
	s.logger.Info("appointment unbooked",
		zap.String("appointment_id", appointmentID),
		zap.String("student_id", studentID),
	)
	s.emit(ctx, models.EventAppointmentUnbooked, result, studentID, "")
	return result, nil
}

// Switch moves studentID from one booking to another atomically. The unbook rules apply
// to fromID, the booking rules to toID, and the student overlap check ignores fromID.
func (s *AppointmentService) Switch(ctx context.Context, fromID, toID, studentID string) (*models.Appointment, error) {
	if fromID == toID {
		return nil, s.reject(OpSwitch, appErrors.Clone(appErrors.ErrValidation, "target appointment must differ from the current one"),
			zap.String("appointment_id", fromID))
	}

	var result *models.Appointment
	err := s.store.Update(func(tx repository.StoreTx) error {
		if _, err := checkUnbookable(tx, fromID, studentID, s.now()); err != nil {
			return err
		}
		if _, err := checkBookable(tx, toID, studentID, fromID); err != nil {
			return err
		}
		tx.RemoveBooking(fromID, studentID)
		tx.AddBooking(toID, studentID)
		apt, _ := tx.Get(toID)
		result = apt.Clone()
		return nil
	})
	if err != nil {
		return nil, s.reject(OpSwitch, err,
			zap.String("from_appointment_id", fromID),
			zap.String("to_appointment_id", toID),
			zap.String("student_id", studentID))
	}

	s.metrics.RecordOperation(OpSwitch, nil)
	s.logger.Info("booking switched",
		zap.String("from_appointment_id", fromID),
		zap.String("to_appointment_id", toID),
		zap.String("student_id", studentID),
	)
	s.emit(ctx, models.EventAppointmentSwitched, result, studentID, fromID)
	return result, nil
}

// Get returns one appointment.
func (s *AppointmentService) Get(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	var result *models.Appointment
	err := s.store.View(func(r repository.StoreReader) error {
		apt, ok := r.Get(appointmentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		result = apt.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns every appointment matching filter, in creation order, any status.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	items := make([]models.Appointment, 0)
	err := s.store.View(func(r repository.StoreReader) error {
		r.Each(func(apt *models.Appointment) bool {
			if filter.Matches(apt) {
				items = append(items, *apt.Clone())
			}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	return items, nil
}

// ListForStudent returns the appointments in studentID's reverse index, in booking order.
func (s *AppointmentService) ListForStudent(ctx context.Context, studentID string) ([]models.Appointment, error) {
	items := make([]models.Appointment, 0)
	err := s.store.View(func(r repository.StoreReader) error {
		for _, id := range r.StudentBookings(studentID) {
			if apt, ok := r.Get(id); ok {
				items = append(items, *apt.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student appointments")
	}
	return items, nil
}

// SubmitFeedback records studentID's rating of appointmentID. The checks run in order:
// the appointment exists, the rating is present and in range, the student holds a slot.
func (s *AppointmentService) SubmitFeedback(ctx context.Context, appointmentID, studentID string, req dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	var (
		entry *models.Feedback
		apt   *models.Appointment
	)
	err := s.store.Update(func(tx repository.StoreTx) error {
		current, ok := tx.Get(appointmentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		if err := validateRating(req.Rating); err != nil {
			return err
		}
		if !current.HasStudent(studentID) {
			return appErrors.Clone(appErrors.ErrForbidden, "only students who booked this appointment can leave feedback")
		}
		fb := models.Feedback{
			AppointmentID: appointmentID,
			StudentID:     studentID,
			Rating:        *req.Rating,
			Comment:       strings.TrimSpace(req.Comment),
			CreatedAt:     s.now().UTC(),
		}
		tx.AddFeedback(fb)
		entry = &fb
		apt = current.Clone()
		return nil
	})
	if err != nil {
		return nil, s.reject(OpFeedback, err, zap.String("appointment_id", appointmentID), zap.String("student_id", studentID))
	}

	s.metrics.RecordOperation(OpFeedback, nil)
	s.logger.Info("feedback submitted",
		zap.String("appointment_id", appointmentID),
		zap.String("student_id", studentID),
		zap.Int("rating", entry.Rating),
	)
	s.emit(ctx, models.EventFeedbackSubmitted, apt, studentID, "")
	return entry, nil
}

// ListFeedback returns the feedback left on appointmentID. Only admins and the owning
// tutor may read it.
func (s *AppointmentService) ListFeedback(ctx context.Context, appointmentID string, viewer *models.JWTClaims) ([]models.Feedback, error) {
	var entries []models.Feedback
	err := s.store.View(func(r repository.StoreReader) error {
		apt, ok := r.Get(appointmentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		if err := authorizeSessionViewer(apt, viewer); err != nil {
			return err
		}
		entries = r.Feedback(appointmentID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// authorizeSessionViewer allows admins and the tutor who owns apt.
func authorizeSessionViewer(apt *models.Appointment, viewer *models.JWTClaims) error {
	if viewer == nil {
		return appErrors.ErrUnauthorized
	}
	if viewer.Role == models.RoleAdmin || (viewer.Role == models.RoleTutor && viewer.UserID == apt.TutorID) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "only the owning tutor or an admin can view this appointment's records")
}

func validateRating(rating *int) error {
	if rating == nil {
		return appErrors.Clone(appErrors.ErrValidation, "rating is required")
	}
	if *rating < models.FeedbackRatingMin || *rating > models.FeedbackRatingMax {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("rating must be between %d and %d", models.FeedbackRatingMin, models.FeedbackRatingMax))
	}
	return nil
}

// checkBookable applies the booking rules in order: exists, OPEN, not already booked,
// capacity left, no overlap with the student's other OPEN bookings except ignoreID.
func checkBookable(r repository.StoreReader, appointmentID, studentID, ignoreID string) (*models.Appointment, error) {
	apt, ok := r.Get(appointmentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
	}
	if !apt.IsOpen() {
		return nil, appErrors.Clone(appErrors.ErrState, "appointment is not available")
	}
	if apt.HasStudent(studentID) {
		return nil, appErrors.Clone(appErrors.ErrDuplicateBooking, "you have already booked this appointment")
	}
	if apt.IsFull() {
		return nil, appErrors.Clone(appErrors.ErrCapacity, "appointment is full")
	}
	if existing := findOverlap(r, apt.Interval(), studentScope(studentID, ignoreID)); existing != nil {
		return nil, conflictError(models.ConflictScopeStudent, existing)
	}
	return apt, nil
}

// checkUnbookable applies the unbook rules in order: exists, not cancelled, booked, not started.
func checkUnbookable(r repository.StoreReader, appointmentID, studentID string, now time.Time) (*models.Appointment, error) {
	apt, ok := r.Get(appointmentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
	}
	if apt.Status == models.AppointmentStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrState, "session was cancelled, cannot unbook")
	}
	if !apt.HasStudent(studentID) {
		return nil, appErrors.Clone(appErrors.ErrState, "you have not booked this appointment")
	}
	if apt.StartsBy(now) {
		return nil, appErrors.Clone(appErrors.ErrState, "cannot cancel after the session has started")
	}
	return apt, nil
}

// parseMaxSlot coerces the capacity to an integer in [1, math.MaxInt32]. Integral floats
// such as 3.0 are accepted.
func parseMaxSlot(raw json.Number) (int, error) {
	text := strings.TrimSpace(raw.String())
	if text == "" {
		return defaultMaxSlot, nil
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, appErrors.Clone(appErrors.ErrValidation, "max_slot must be an integer")
		}
		switch {
		case f <= 0:
			return 0, appErrors.Clone(appErrors.ErrValidation, "max_slot must be greater than 0")
		case f > math.MaxInt32:
			return 0, maxSlotTooLarge()
		}
		value = int64(f)
	}
	if value <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "max_slot must be greater than 0")
	}
	if value > math.MaxInt32 {
		return 0, maxSlotTooLarge()
	}
	return int(value), nil
}

func maxSlotTooLarge() error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("max_slot must not exceed %d", math.MaxInt32))
}

func (s *AppointmentService) reject(op string, err error, fields ...zap.Field) error {
	s.metrics.RecordOperation(op, err)
	fields = append(fields, zap.String("operation", op), zap.String("code", appErrors.FromError(err).Code), zap.Error(err))
	s.logger.Debug("appointment operation rejected", fields...)
	return err
}

func (s *AppointmentService) emit(ctx context.Context, eventType models.AppointmentEventType, apt *models.Appointment, actorID, previousID string) {
	if s.events == nil {
		return
	}
	s.events.Emit(ctx, models.AppointmentEvent{
		ID:                    uuid.NewString(),
		Type:                  eventType,
		AppointmentID:         apt.ID,
		PreviousAppointmentID: previousID,
		ActorID:               actorID,
		OccurredAt:            s.now().UTC(),
		Appointment:           apt.Clone(),
	})
}
