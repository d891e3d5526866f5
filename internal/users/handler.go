package users

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

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrSelfDelete),
		errors.Is(err, ErrWeakPassword), errors.Is(err, ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}

// List handles GET /users with optional role filter and pagination.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	res, err := h.Service.List(c.Request.Context(), c.Query("role"), limit, (page-1)*limit)
	if err != nil {
		writeErr(c, err)
		return
	}

	totalPages := int((res.TotalCount + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    res.Users,
		"pagination": gin.H{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalCount":  res.TotalCount,
			"limit":       limit,
			"hasNextPage": page < totalPages,
			"hasPrevPage": page > 1,
		},
	})
}

// Get handles GET /users/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user id"})
		return
	}

	u, err := h.Service.Get(c.Request.Context(), uint(id))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": u})
}

// Create handles POST /users.
func (h *Handler) Create(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	u, err := h.Service.Create(c.Request.Context(), in, actor, middleware.GetIPFromContext(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": u})
}

// Update handles PUT /users/:id.
func (h *Handler) Update(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user id"})
		return
	}

	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	u, err := h.Service.Update(c.Request.Context(), uint(id), in, actor, middleware.GetIPFromContext(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": u})
}

// Delete handles DELETE /users/:id.
func (h *Handler) Delete(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid user id"})
		return
	}

	if err := h.Service.Delete(c.Request.Context(), uint(id), actor, middleware.GetIPFromContext(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
}
