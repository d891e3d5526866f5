package upload

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxImageSize caps uploads at 2.5 MB.
const MaxImageSize = int64(2.5 * 1024 * 1024)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

type Handler struct {
	Storage Storage
}

func NewHandler(storage Storage) *Handler {
	return &Handler{Storage: storage}
}

// UploadImage handles POST /places/images. The stored name is a fresh UUID;
// the original filename only contributes its extension.
func (h *Handler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image file is required"})
		return
	}

	if header.Size > MaxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "image must be 2.5MB or smaller"})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] || !allowedContentTypes[header.Header.Get("Content-Type")] {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "only JPEG, PNG, and WebP images are allowed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	name := uuid.NewString()
	url, err := h.Storage.Put(c.Request.Context(), name, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to store image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"url": url, "name": name},
	})
}
