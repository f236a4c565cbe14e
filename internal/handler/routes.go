package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-scheduling-api/internal/middleware"
	"github.com/noah-isme/tutor-scheduling-api/internal/models"
)

// RouteAuth carries the authentication middleware for the scheduling routes.
// Required rejects anonymous callers; Optional attaches claims when a valid token is sent.
type RouteAuth struct {
	Required gin.HandlerFunc
	Optional gin.HandlerFunc
}

// RegisterAppointmentRoutes mounts the scheduling endpoints on group. The public listing
// and lookup go through auth.Optional, every other route through auth.Required.
func RegisterAppointmentRoutes(group *gin.RouterGroup, appointments *AppointmentHandler, exports *ExportHandler, audits *AuditHandler, auth RouteAuth) {
	required := auth.Required
	optional := auth.Optional
	if optional == nil {
		optional = func(c *gin.Context) { c.Next() }
	}
	tutor := middleware.RequireRoles(models.RoleTutor)
	student := middleware.RequireRoles(models.RoleStudent)
	tutorOrAdmin := middleware.RequireRoles(models.RoleTutor, models.RoleAdmin)

	routes := group.Group("/appointments")
	routes.GET("", optional, appointments.List)
	routes.GET("/mine", required, student, appointments.Mine)
	routes.GET("/export", required, tutorOrAdmin, exports.Schedule)
	routes.GET("/:id", optional, appointments.Get)

	routes.POST("", required, tutor, appointments.Create)
	routes.DELETE("/:id", required, tutor, appointments.Cancel)

	routes.POST("/:id/book", required, student, appointments.Book)
	routes.DELETE("/:id/book", required, student, appointments.Unbook)
	routes.PUT("/:id/book", required, student, appointments.Switch)

	routes.POST("/:id/feedback", required, student, appointments.SubmitFeedback)
	routes.GET("/:id/feedback", required, tutorOrAdmin, appointments.ListFeedback)
	routes.GET("/:id/audit", required, tutorOrAdmin, audits.List)
}
