package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
)

// AuditRepository persists the appointment audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create stores an audit log entry. Replayed events with the same id are ignored.
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.OccurredAt.IsZero() {
		log.OccurredAt = time.Now().UTC()
	}
	const query = `INSERT INTO appointment_audit_logs (id, event_type, appointment_id, actor_id, payload, occurred_at) VALUES (:id, :event_type, :appointment_id, :actor_id, :payload, :occurred_at) ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListByAppointment returns the trail for one appointment, oldest first.
func (r *AuditRepository) ListByAppointment(ctx context.Context, appointmentID string) ([]models.AuditLog, error) {
	const query = `SELECT id, event_type, appointment_id, actor_id, payload, occurred_at FROM appointment_audit_logs WHERE appointment_id = $1 ORDER BY occurred_at ASC`
	var logs []models.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, appointmentID); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
