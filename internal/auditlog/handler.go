package auditlog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// GetAuditLogs returns a paginated, filterable audit log listing (Admin only).
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := AuditLogFilter{
		Action: c.Query("action"),
		Status: c.Query("status"),
	}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.ParseUint(c.Query("user_id"), 10, 32); err == nil {
		id := uint(v)
		filter.UserID = &id
	}
	if v, err := strconv.ParseUint(c.Query("place_id"), 10, 32); err == nil {
		id := uint(v)
		filter.PlaceID = &id
	}

	logs, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": logs})
}

func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid audit log id"})
		return
	}

	entry, err := h.service.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "audit log not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": entry})
}
