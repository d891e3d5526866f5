package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuditRecorder is the slice of the audit log service the auth handlers use.
type AuditRecorder interface {
	LogAction(ctx context.Context, userID *uint, placeID *uint, action string, details map[string]interface{}, ip string, status string) error
}

type Handler struct {
	service Service
	audit   AuditRecorder
}

func NewHandler(s Service, audit AuditRecorder) *Handler {
	return &Handler{service: s, audit: audit}
}

func (h *Handler) recordLogin(c *gin.Context, userID *uint, email, status string) {
	if h.audit == nil {
		return
	}
	action := "LOGIN_SUCCESS"
	if status != "success" {
		action = "LOGIN_FAILED"
	}
	_ = h.audit.LogAction(c.Request.Context(), userID, nil, action,
		map[string]interface{}{"email": email}, c.ClientIP(), status)
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password are required"})
		return
	}

	tokens, user, err := h.service.Login(LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.recordLogin(c, nil, req.Email, "failure")
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}

	h.recordLogin(c, &user.ID, user.Email, "success")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tokens": tokens,
			"user":   user,
		},
	})
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "refreshToken is required"})
		return
	}

	accessToken, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"accessToken": accessToken}})
}

type forgotPasswordReq struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "a valid email is required"})
		return
	}

	// Do not reveal whether the email exists.
	_ = h.service.RequestPasswordReset(req.Email)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "if the account exists, a reset token has been issued"})
}

type resetPasswordReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "token and a password of at least 6 characters are required"})
		return
	}

	if err := h.service.ResetPassword(req.Token, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "password updated"})
}

func (h *Handler) Logout(c *gin.Context) {
	_ = h.service.Logout()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}
