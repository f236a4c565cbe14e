package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	"github.com/noah-isme/tutor-scheduling-api/pkg/jobs"
)

const appointmentEventJob = "appointment_event"

type auditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type eventPublisher interface {
	Publish(ctx context.Context, event models.AppointmentEvent) error
}

type jobQueue interface {
	TryEnqueue(job jobs.Job) error
}

// EventDispatcher hands appointment events to the background queue and, on the
// worker side, records them in the audit trail and publishes them.
type EventDispatcher struct {
	queue     jobQueue
	audit     auditWriter
	publisher eventPublisher
	logger    *zap.Logger
}

// NewEventDispatcher wires the sinks. audit and publisher are optional.
func NewEventDispatcher(audit auditWriter, publisher eventPublisher, logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{audit: audit, publisher: publisher, logger: logger}
}

// Attach sets the queue Emit pushes to. It must be called before the service starts emitting.
func (d *EventDispatcher) Attach(queue jobQueue) {
	d.queue = queue
}

// Emit enqueues the event without blocking. Failures are logged and never surfaced.
func (d *EventDispatcher) Emit(ctx context.Context, event models.AppointmentEvent) {
	if d == nil || d.queue == nil {
		return
	}
	err := d.queue.TryEnqueue(jobs.Job{ID: event.ID, Type: appointmentEventJob, Payload: event})
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("appointment_id", event.AppointmentID),
		zap.Error(err),
	}
	if errors.Is(err, jobs.ErrQueueFull) {
		d.logger.Warn("appointment event dropped", fields...)
		return
	}
	d.logger.Debug("appointment event not dispatched", fields...)
}

// Handle is the jobs.Handler for appointment events. The audit row id equals the event id,
// so a retried job does not duplicate the row.
func (d *EventDispatcher) Handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.AppointmentEvent)
	if !ok {
		d.logger.Error("unexpected job payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}

	if d.audit != nil {
		payload, err := json.Marshal(event.Appointment)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		entry := &models.AuditLog{
			ID:            event.ID,
			EventType:     string(event.Type),
			AppointmentID: event.AppointmentID,
			ActorID:       event.ActorID,
			Payload:       payload,
			OccurredAt:    event.OccurredAt,
		}
		if err := d.audit.Create(ctx, entry); err != nil {
			return err
		}
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, event); err != nil {
			return err
		}
	}

	d.logger.Debug("appointment event delivered",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int("attempt", job.Attempt),
	)
	return nil
}
