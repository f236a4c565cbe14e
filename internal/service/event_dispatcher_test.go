package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	"github.com/noah-isme/tutor-scheduling-api/internal/repository"
	"github.com/noah-isme/tutor-scheduling-api/pkg/jobs"
)

type auditStub struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	fail    int
}

func (s *auditStub) Create(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail > 0 {
		s.fail--
		return errors.New("database unavailable")
	}
	s.entries = append(s.entries, log)
	return nil
}

func (s *auditStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

type publisherStub struct {
	mu     sync.Mutex
	events []models.AppointmentEvent
}

func (p *publisherStub) Publish(ctx context.Context, event models.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *publisherStub) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fullQueue struct{ calls int }

func (q *fullQueue) TryEnqueue(job jobs.Job) error {
	q.calls++
	return jobs.ErrQueueFull
}

func sampleEvent() models.AppointmentEvent {
	apt := models.NewAppointment("apt-1", "T1", models.AppointmentDraft{
		Name:      "Algebra",
		StartTime: "2025-12-01 09:00:00",
		EndTime:   "2025-12-01 10:00:00",
		Place:     "H6-304",
		MaxSlot:   2,
	})
	return models.AppointmentEvent{
		ID:            "evt-1",
		Type:          models.EventAppointmentBooked,
		AppointmentID: apt.ID,
		ActorID:       "S1",
		OccurredAt:    testNow,
		Appointment:   apt,
	}
}

func TestEventDispatcherHandleWritesAuditAndPublishes(t *testing.T) {
	audit := &auditStub{}
	publisher := &publisherStub{}
	dispatcher := NewEventDispatcher(audit, publisher, nil)

	err := dispatcher.Handle(context.Background(), jobs.Job{ID: "evt-1", Payload: sampleEvent()})
	require.NoError(t, err)

	require.Equal(t, 1, audit.count())
	entry := audit.entries[0]
	assert.Equal(t, "evt-1", entry.ID)
	assert.Equal(t, "APPOINTMENT_BOOKED", entry.EventType)
	assert.Equal(t, "S1", entry.ActorID)
	assert.Equal(t, testNow, entry.OccurredAt)

	var snapshot models.Appointment
	require.NoError(t, json.Unmarshal(entry.Payload, &snapshot))
	assert.Equal(t, "Algebra", snapshot.Name)

	assert.Equal(t, 1, publisher.count())
}

func TestEventDispatcherHandleStopsOnAuditFailure(t *testing.T) {
	audit := &auditStub{fail: 1}
	publisher := &publisherStub{}
	dispatcher := NewEventDispatcher(audit, publisher, nil)

	err := dispatcher.Handle(context.Background(), jobs.Job{ID: "evt-1", Payload: sampleEvent()})
	require.Error(t, err)
	assert.Zero(t, publisher.count())
}

func TestEventDispatcherIgnoresForeignPayload(t *testing.T) {
	dispatcher := NewEventDispatcher(&auditStub{}, &publisherStub{}, nil)
	assert.NoError(t, dispatcher.Handle(context.Background(), jobs.Job{ID: "x", Payload: "nope"}))
}

func TestEventDispatcherEmitNeverFails(t *testing.T) {
	var unattached *EventDispatcher
	assert.NotPanics(t, func() { unattached.Emit(context.Background(), sampleEvent()) })

	dispatcher := NewEventDispatcher(nil, nil, nil)
	queue := &fullQueue{}
	dispatcher.Attach(queue)
	assert.NotPanics(t, func() { dispatcher.Emit(context.Background(), sampleEvent()) })
	assert.Equal(t, 1, queue.calls)
}

func TestEventDispatcherDeliversThroughQueueWithRetry(t *testing.T) {
	audit := &auditStub{fail: 1}
	publisher := &publisherStub{}
	dispatcher := NewEventDispatcher(audit, publisher, nil)

	queue := jobs.NewQueue("appointment-events", dispatcher.Handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 4,
		MaxRetries: 2,
		RetryDelay: 10 * time.Millisecond,
	})
	dispatcher.Attach(queue)
	queue.Start(context.Background())
	defer queue.Stop()

	svc := NewAppointmentService(repository.NewAppointmentStore(), nil,
		WithEvents(dispatcher),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return testNow }),
	)
	_, err := svc.Create(context.Background(), "T1", createReq("Algebra", "2025-12-01 09:00:00", "2025-12-01 10:00:00", "1"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return audit.count() == 1 && publisher.count() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "APPOINTMENT_CREATED", audit.entries[0].EventType)
}
