package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
)

type auditTrailStub struct {
	entries []dto.AuditEntryResponse
	err     error
	lastID  string
	viewer  *models.JWTClaims
}

func (s *auditTrailStub) ListForAppointment(ctx context.Context, appointmentID string, viewer *models.JWTClaims) ([]dto.AuditEntryResponse, error) {
	s.lastID = appointmentID
	s.viewer = viewer
	return s.entries, s.err
}

func TestAuditHandlerList(t *testing.T) {
	stub := &auditTrailStub{entries: []dto.AuditEntryResponse{{
		ID:            "evt-1",
		EventType:     "APPOINTMENT_CREATED",
		AppointmentID: "apt-1",
		ActorID:       "T1",
		Payload:       []byte(`{"id":"apt-1"}`),
		OccurredAt:    time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC),
	}}}
	handler := NewAuditHandler(stub)

	c, w := newTestContext(http.MethodGet, "/appointments/apt-1/audit", "", &models.JWTClaims{UserID: "T1", Role: models.RoleTutor})
	c.Params = gin.Params{{Key: "id", Value: "apt-1"}}
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apt-1", stub.lastID)
	assert.Equal(t, "T1", stub.viewer.UserID)
	envelope := decodeEnvelope(t, w)
	assert.JSONEq(t, `{"count":1}`, string(envelope["meta"]))
	assert.Contains(t, string(envelope["data"]), `"payload":{"id":"apt-1"}`)
}

func TestAuditHandlerRejections(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/appointments/apt-1/audit", "", &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	NewAuditHandler(nil).List(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "FEATURE_DISABLED")

	c, w = newTestContext(http.MethodGet, "/appointments/apt-1/audit", "", nil)
	NewAuditHandler(&auditTrailStub{}).List(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	stub := &auditTrailStub{err: appErrors.Clone(appErrors.ErrForbidden, "not yours")}
	c, w = newTestContext(http.MethodGet, "/appointments/apt-1/audit", "", &models.JWTClaims{UserID: "T2", Role: models.RoleTutor})
	NewAuditHandler(stub).List(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
