package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
	"github.com/noah-isme/tutor-scheduling-api/pkg/response"
)

type appointmentService interface {
	Create(ctx context.Context, tutorID string, req dto.CreateAppointmentRequest) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID, userID string) (*models.Appointment, error)
	Book(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error)
	Unbook(ctx context.Context, appointmentID, studentID string) (*models.Appointment, error)
	Switch(ctx context.Context, fromID, toID, studentID string) (*models.Appointment, error)
	Get(ctx context.Context, appointmentID string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Appointment, error)
	SubmitFeedback(ctx context.Context, appointmentID, studentID string, req dto.SubmitFeedbackRequest) (*models.Feedback, error)
	ListFeedback(ctx context.Context, appointmentID string, viewer *models.JWTClaims) ([]models.Feedback, error)
}

// AppointmentHandler exposes the scheduling endpoints.
type AppointmentHandler struct {
	service   appointmentService
	validator *validator.Validate
}

// NewAppointmentHandler builds a new handler.
func NewAppointmentHandler(service appointmentService, validate *validator.Validate) *AppointmentHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AppointmentHandler{service: service, validator: validate}
}

// Create godoc
// @Summary Open a tutoring session
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateAppointmentRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid appointment payload"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Place = strings.TrimSpace(req.Place)
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "name, start_time, end_time and place are required"))
		return
	}

	apt, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, apt)
}

// Cancel godoc
// @Summary Cancel a session owned by the calling tutor
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	apt, err := h.service.Cancel(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, apt)
}

// Book godoc
// @Summary Book a slot in a session
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments/{id}/book [post]
func (h *AppointmentHandler) Book(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	apt, err := h.service.Book(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, apt)
}

// Unbook godoc
// @Summary Release the caller's slot before the session starts
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /appointments/{id}/book [delete]
func (h *AppointmentHandler) Unbook(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	apt, err := h.service.Unbook(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, apt)
}

// Switch godoc
// @Summary Move the caller's booking to another session
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Currently booked appointment ID"
// @Param payload body dto.SwitchBookingRequest true "Target session"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /appointments/{id}/book [put]
func (h *AppointmentHandler) Switch(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SwitchBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid switch payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "target_id is required"))
		return
	}
	apt, err := h.service.Switch(c.Request.Context(), c.Param("id"), req.TargetID, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, apt)
}

// List godoc
// @Summary List sessions, optionally for one tutor
// @Tags Appointments
// @Produce json
// @Param tutor_id query string false "Tutor ID filter"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	filter := models.AppointmentFilter{TutorID: strings.TrimSpace(c.Query("tutor_id"))}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, len(items))
}

// Get godoc
// @Summary Get one session
// @Tags Appointments
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	apt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, apt)
}

// Mine godoc
// @Summary List the sessions the caller has booked
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /appointments/mine [get]
func (h *AppointmentHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	items, err := h.service.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, len(items))
}

// SubmitFeedback godoc
// @Summary Rate a booked session
// @Tags Feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param payload body dto.SubmitFeedbackRequest true "Rating between 1 and 5 and an optional comment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /appointments/{id}/feedback [post]
func (h *AppointmentHandler) SubmitFeedback(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "comment is too long"))
		return
	}
	entry, err := h.service.SubmitFeedback(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ListFeedback godoc
// @Summary List the feedback left on a session
// @Tags Feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id}/feedback [get]
func (h *AppointmentHandler) ListFeedback(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	items, err := h.service.ListFeedback(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, len(items))
}
