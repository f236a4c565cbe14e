package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-scheduling-api/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestAuditRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	occurred := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO appointment_audit_logs (id, event_type, appointment_id, actor_id, payload, occurred_at) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`)).
		WithArgs("evt-1", "APPOINTMENT_BOOKED", "apt-1", "student-1", []byte(`{"id":"apt-1"}`), occurred).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.AuditLog{
		ID:            "evt-1",
		EventType:     "APPOINTMENT_BOOKED",
		AppointmentID: "apt-1",
		ActorID:       "student-1",
		Payload:       []byte(`{"id":"apt-1"}`),
		OccurredAt:    occurred,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO appointment_audit_logs`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AuditLog{EventType: "APPOINTMENT_CREATED", AppointmentID: "apt-1", ActorID: "tutor-1", Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.False(t, log.OccurredAt.IsZero())
}

func TestAuditRepositoryCreateError(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO appointment_audit_logs`)).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.AuditLog{ID: "evt-1", Payload: []byte(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create audit log")
}

func TestAuditRepositoryListByAppointment(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	occurred := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "event_type", "appointment_id", "actor_id", "payload", "occurred_at"}).
		AddRow("evt-1", "APPOINTMENT_CREATED", "apt-1", "tutor-1", []byte(`{}`), occurred).
		AddRow("evt-2", "APPOINTMENT_BOOKED", "apt-1", "student-1", []byte(`{}`), occurred.Add(time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, event_type, appointment_id, actor_id, payload, occurred_at FROM appointment_audit_logs WHERE appointment_id = $1`)).
		WithArgs("apt-1").
		WillReturnRows(rows)

	logs, err := repo.ListByAppointment(context.Background(), "apt-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "APPOINTMENT_BOOKED", logs[1].EventType)
	require.NoError(t, mock.ExpectationsWereMet())
}
