package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
)

// AuditReader loads the persisted trail of one appointment.
type AuditReader interface {
	ListByAppointment(ctx context.Context, appointmentID string) ([]models.AuditLog, error)
}

type appointmentLookup interface {
	Get(ctx context.Context, appointmentID string) (*models.Appointment, error)
}

// AuditTrailService serves the appointment audit trail to its tutor and to admins.
type AuditTrailService struct {
	reader       AuditReader
	appointments appointmentLookup
	logger       *zap.Logger
}

// NewAuditTrailService constructs the service.
func NewAuditTrailService(reader AuditReader, appointments appointmentLookup, logger *zap.Logger) *AuditTrailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditTrailService{reader: reader, appointments: appointments, logger: logger}
}

// ListForAppointment returns the trail of appointmentID, oldest first.
func (s *AuditTrailService) ListForAppointment(ctx context.Context, appointmentID string, viewer *models.JWTClaims) ([]dto.AuditEntryResponse, error) {
	apt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeSessionViewer(apt, viewer); err != nil {
		return nil, err
	}

	logs, err := s.reader.ListByAppointment(ctx, appointmentID)
	if err != nil {
		s.logger.Error("failed to load audit trail", zap.String("appointment_id", appointmentID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit trail")
	}

	entries := make([]dto.AuditEntryResponse, 0, len(logs))
	for _, log := range logs {
		payload := json.RawMessage(log.Payload)
		if !json.Valid(payload) {
			payload = json.RawMessage("null")
		}
		entries = append(entries, dto.AuditEntryResponse{
			ID:            log.ID,
			EventType:     log.EventType,
			AppointmentID: log.AppointmentID,
			ActorID:       log.ActorID,
			Payload:       payload,
			OccurredAt:    log.OccurredAt,
		})
	}
	return entries, nil
}
