package place

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/temple-directory-backend/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// respondErr maps service errors onto the uniform envelope.
func respondErr(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ve.Msg})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "place not found"})
	case errors.Is(err, ErrDuplicatePlace):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, ErrAlreadyModerated):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "place has already been moderated"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient permissions"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

// Create handles POST /places.
func (h *Handler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var in PlaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	p, err := h.Service.Create(c.Request.Context(), in, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
}

// GetBySlug handles GET /places/:slug. Anonymous callers only see active
// approved records; signed-in moderators see everything.
func (h *Handler) GetBySlug(c *gin.Context) {
	p, err := h.Service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondErr(c, err)
		return
	}

	if _, privileged := middleware.CurrentUser(c); !privileged {
		if !p.IsActive || p.ApprovalStatus != StatusApproved {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "place not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// Update handles PUT /places/:slug.
func (h *Handler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var in PlaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	p, err := h.Service.Update(c.Request.Context(), c.Param("slug"), in, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

// Delete handles DELETE /places/:slug. The default is a soft deactivate;
// ?hard=true removes the row and is Admin only.
func (h *Handler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	hard, _ := strconv.ParseBool(c.Query("hard"))
	ip := middleware.GetIPFromContext(c)

	var err error
	if hard {
		err = h.Service.HardDelete(c.Request.Context(), c.Param("slug"), user, ip)
	} else {
		err = h.Service.Deactivate(c.Request.Context(), c.Param("slug"), user, ip)
	}
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "place deleted"})
}

type moderateRequest struct {
	PlaceID uint   `json:"placeId"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// Moderate handles POST /places/approve: a plain approve or reject of a
// pending record.
func (h *Handler) Moderate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlaceID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "placeId and action are required"})
		return
	}

	p, err := h.Service.Moderate(c.Request.Context(), req.PlaceID, req.Action, req.Reason, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

type editModerateRequest struct {
	PlaceID uint        `json:"placeId"`
	Action  string      `json:"action"`
	Reason  string      `json:"reason"`
	Updates *PlaceInput `json:"updates"`
}

// EditModerate handles POST /places/edit-approve: edit the content and decide
// in one step, or just save with action "save".
func (h *Handler) EditModerate(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var req editModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlaceID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "placeId and action are required"})
		return
	}

	p, err := h.Service.EditModerate(c.Request.Context(), req.PlaceID, req.Action, req.Updates, req.Reason, user, middleware.GetIPFromContext(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}
