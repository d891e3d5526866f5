package reports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/temple-directory-backend/internal/place"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// Export handles GET /reports/places/export?format=xlsx|pdf. Filters mirror
// the directory listing; access is restricted at the route level.
func (h *Handler) Export(c *gin.Context) {
	f := place.Filter{
		Deity:        c.Query("deity"),
		State:        c.Query("state"),
		City:         c.Query("city"),
		Architecture: c.Query("architecture"),
		Status:       c.Query("status"),
	}
	if raw := c.Query("region"); raw != "" {
		region, ok := place.NormalizeRegion(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid region; valid regions are: North, South, East, West"})
			return
		}
		f.Region = region
	}

	stamp := time.Now().Format("20060102-150405")

	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		data, err := h.Service.ExportXLSX(c.Request.Context(), f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate report"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="places-%s.xlsx"`, stamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)

	case "pdf":
		data, err := h.Service.ExportPDF(c.Request.Context(), f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to generate report"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="places-%s.pdf"`, stamp))
		c.Data(http.StatusOK, "application/pdf", data)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "format must be xlsx or pdf"})
	}
}
