package handler

import (
	"github.com/gin-gonic/gin"
	appaudit "github.com/school/backend/internal/application/audit"
	"github.com/school/backend/internal/domain/audit"
)

// AuditHandler exposes the audit trail to super admins
type AuditHandler struct {
	BaseHandler
	logs *appaudit.Service
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(base BaseHandler, logs *appaudit.Service) *AuditHandler {
	return &AuditHandler{BaseHandler: base, logs: logs}
}

// List godoc
// @ID           listAuditLogs
// @Summary      List audit logs, newest first
// @Tags         audit
// @Produce      json
// @Param        entity query string false "Entity, e.g. Student"
// @Param        action query string false "CREATE, UPDATE or DELETE"
// @Param        actorId query string false "Acting user" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} APIResponse[[]audit.LogDetail]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	actorID, err := queryID(c, "actorId")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.logs.List(c.Request.Context(), appaudit.ListInput{
		Entity:  c.Query("entity"),
		Action:  c.Query("action"),
		ActorID: actorID,
		Page:    page(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	List(c, result)
}

// Get godoc
// @ID           getAuditLog
// @Summary      Get one audit log with its before and after values
// @Tags         audit
// @Produce      json
// @Param        id path string true "Log ID" format(uuid)
// @Success      200 {object} APIResponse[audit.LogDetail]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit-logs/{id} [get]
func (h *AuditHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id", audit.ErrLogNotFound)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	entry, err := h.logs.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
