package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
)

type listerStub struct {
	items  []models.Appointment
	err    error
	filter models.AppointmentFilter
}

func (l *listerStub) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	l.filter = filter
	return l.items, l.err
}

func TestExportScheduleCSVSortedByStart(t *testing.T) {
	svc, _, _ := newTestAppointmentService(t)
	ctx := context.Background()
	late := mustCreate(t, svc, "T1", "2025-12-02 09:00:00", "2025-12-02 10:00:00", "3")
	early := mustCreate(t, svc, "T1", "2025-12-01 09:00:00", "2025-12-01 10:00:00", "2")
	mustCreate(t, svc, "T2", "2025-11-30 09:00:00", "2025-11-30 10:00:00", "1")
	_, err := svc.Book(ctx, late.ID, "S1")
	require.NoError(t, err)

	exporter := NewExportService(svc, nil)
	exporter.now = func() time.Time { return testNow }

	result, err := exporter.Schedule(ctx, dto.ExportScheduleRequest{TutorID: "T1"})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "schedule_T1_20251120_080000.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,tutor_id,start_time,end_time,place,status,booked,max_slot", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], early.ID+","))
	assert.True(t, strings.HasPrefix(lines[2], late.ID+","))
	assert.True(t, strings.HasSuffix(lines[2], ",OPEN,1,3"))
}

func TestExportSchedulePDF(t *testing.T) {
	svc, _, _ := newTestAppointmentService(t)
	mustCreate(t, svc, "T1", "2025-12-01 09:00:00", "2025-12-01 10:00:00", "2")

	result, err := NewExportService(svc, nil).Schedule(context.Background(), dto.ExportScheduleRequest{Format: dto.ExportFormatPDF})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.True(t, strings.HasPrefix(result.Filename, "schedule_all_"))
	assert.True(t, bytes.HasPrefix(result.Body, []byte("%PDF")))
}

func TestExportScheduleErrors(t *testing.T) {
	lister := &listerStub{}
	exporter := NewExportService(lister, nil)

	_, err := exporter.Schedule(context.Background(), dto.ExportScheduleRequest{Format: "xlsx"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	lister.err = errors.New("boom")
	_, err = exporter.Schedule(context.Background(), dto.ExportScheduleRequest{TutorID: "T9"})
	require.Error(t, err)
	assert.Equal(t, "T9", lister.filter.TutorID)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "all", sanitizeFilename(""))
	assert.Equal(t, "a-b_c-d", sanitizeFilename("a/b c:d"))
	assert.Len(t, sanitizeFilename(strings.Repeat("x", 150)), 100)
}
