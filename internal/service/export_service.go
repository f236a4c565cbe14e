package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
	"github.com/noah-isme/tutor-scheduling-api/pkg/export"
)

var scheduleHeaders = []string{"id", "name", "tutor_id", "start_time", "end_time", "place", "status", "booked", "max_slot"}

type appointmentLister interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
}

// ExportResult is a rendered schedule ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders schedule sheets from the appointment listing.
type ExportService struct {
	appointments appointmentLister
	renderers    map[dto.ExportFormat]export.Renderer
	logger       *zap.Logger
	now          func() time.Time
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(appointments appointmentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		appointments: appointments,
		renderers: map[dto.ExportFormat]export.Renderer{
			dto.ExportFormatCSV: export.NewCSVExporter(),
			dto.ExportFormatPDF: export.NewPDFExporter(2.2, 3, 1.6, 1.5, 1.5, 1.2, 1.1, 0.8, 0.8),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Schedule renders the appointments matching req sorted by start time. CSV is the default format.
func (s *ExportService) Schedule(ctx context.Context, req dto.ExportScheduleRequest) (*ExportResult, error) {
	format := req.Format
	if format == "" {
		format = dto.ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	items, err := s.appointments.List(ctx, models.AppointmentFilter{TutorID: req.TutorID})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Interval().Start.Before(items[j].Interval().Start)
	})

	dataset := export.Dataset{
		Title:   scheduleTitle(req.TutorID),
		Headers: scheduleHeaders,
		Rows:    make([][]string, 0, len(items)),
	}
	for _, apt := range items {
		dataset.Rows = append(dataset.Rows, []string{
			apt.ID,
			apt.Name,
			apt.TutorID,
			apt.StartTime,
			apt.EndTime,
			apt.Place,
			string(apt.Status),
			strconv.Itoa(len(apt.CurrentSlots)),
			strconv.Itoa(apt.MaxSlot),
		})
	}

	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule")
	}

	filename := fmt.Sprintf("schedule_%s_%s.%s", sanitizeFilename(req.TutorID), s.now().UTC().Format("20060102_150405"), renderer.Extension())
	s.logger.Info("schedule exported",
		zap.String("tutor_id", req.TutorID),
		zap.String("format", string(format)),
		zap.Int("rows", len(dataset.Rows)),
	)
	return &ExportResult{Filename: filename, ContentType: renderer.ContentType(), Body: body}, nil
}

func scheduleTitle(tutorID string) string {
	if tutorID == "" {
		return "Appointment schedule"
	}
	return "Appointment schedule: " + tutorID
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
