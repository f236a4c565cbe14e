package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	"github.com/noah-isme/tutor-scheduling-api/internal/service"
)

type exporterStub struct {
	lastReq dto.ExportScheduleRequest
	called  bool
}

func (e *exporterStub) Schedule(ctx context.Context, req dto.ExportScheduleRequest) (*service.ExportResult, error) {
	e.called = true
	e.lastReq = req
	return &service.ExportResult{Filename: "schedule_T1.csv", ContentType: "text/csv", Body: []byte("id\n")}, nil
}

func TestExportHandlerScopesTutorToSelf(t *testing.T) {
	stub := &exporterStub{}
	handler := NewExportHandler(stub, nil, true)

	c, w := newTestContext(http.MethodGet, "/appointments/export?format=csv&tutor_id=T2", "", &models.JWTClaims{UserID: "T1", Role: models.RoleTutor})
	handler.Schedule(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T1", stub.lastReq.TutorID)
	assert.Equal(t, dto.ExportFormatCSV, stub.lastReq.Format)
	assert.Equal(t, `attachment; filename="schedule_T1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "id\n", w.Body.String())
}

func TestExportHandlerAdminKeepsFilter(t *testing.T) {
	stub := &exporterStub{}
	handler := NewExportHandler(stub, nil, true)

	c, w := newTestContext(http.MethodGet, "/appointments/export?tutor_id=T2&format=pdf", "", &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	handler.Schedule(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T2", stub.lastReq.TutorID)
	assert.Equal(t, dto.ExportFormatPDF, stub.lastReq.Format)
}

func TestExportHandlerRejections(t *testing.T) {
	stub := &exporterStub{}

	c, w := newTestContext(http.MethodGet, "/appointments/export?format=xlsx", "", &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	NewExportHandler(stub, nil, true).Schedule(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(http.MethodGet, "/appointments/export", "", &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	NewExportHandler(stub, nil, false).Schedule(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "FEATURE_DISABLED")

	assert.False(t, stub.called)
}
