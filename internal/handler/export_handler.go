package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	"github.com/noah-isme/tutor-scheduling-api/internal/service"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
	"github.com/noah-isme/tutor-scheduling-api/pkg/response"
)

type scheduleExporter interface {
	Schedule(ctx context.Context, req dto.ExportScheduleRequest) (*service.ExportResult, error)
}

// ExportHandler streams schedule sheets.
type ExportHandler struct {
	exporter  scheduleExporter
	validator *validator.Validate
	enabled   bool
}

// NewExportHandler builds a new handler. A disabled handler answers FEATURE_DISABLED.
func NewExportHandler(exporter scheduleExporter, validate *validator.Validate, enabled bool) *ExportHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &ExportHandler{exporter: exporter, validator: validate, enabled: enabled}
}

// Schedule godoc
// @Summary Download a schedule sheet
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param tutor_id query string false "Tutor ID filter, forced to the caller for tutors"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /appointments/export [get]
func (h *ExportHandler) Schedule(c *gin.Context) {
	if !h.enabled {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "schedule exports are disabled"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ExportScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "format must be csv or pdf"))
		return
	}
	if claims.Role == models.RoleTutor {
		req.TutorID = claims.UserID
	}

	result, err := h.exporter.Schedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}
