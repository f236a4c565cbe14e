package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-scheduling-api/internal/dto"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
	"github.com/noah-isme/tutor-scheduling-api/pkg/response"
)

type auditTrail interface {
	ListForAppointment(ctx context.Context, appointmentID string, viewer *models.JWTClaims) ([]dto.AuditEntryResponse, error)
}

// AuditHandler exposes the persisted appointment audit trail.
type AuditHandler struct {
	trail auditTrail
}

// NewAuditHandler builds a new handler. A nil trail answers FEATURE_DISABLED.
func NewAuditHandler(trail auditTrail) *AuditHandler {
	return &AuditHandler{trail: trail}
}

// List godoc
// @Summary List the audit trail of a session
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /appointments/{id}/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	if h.trail == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "audit trail is disabled"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	items, err := h.trail.ListForAppointment(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, len(items))
}
