package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/config"
	"github.com/sharath018/temple-directory-backend/utils"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type Service interface {
	Login(input LoginInput) (*TokenPair, *User, error)
	Refresh(refreshToken string) (string, error)
	GetUserByID(userID uint) (User, error)

	RequestPasswordReset(email string) error
	ResetPassword(token string, newPassword string) error
	Logout() error
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:          r,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, user, nil
}

func (s *service) generateAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

func (s *service) generateRefreshToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.refreshTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}

// =============================
// Refresh
// =============================

func (s *service) Refresh(refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		return "", errors.New("invalid token claims")
	}

	userID := uint(claims["user_id"].(float64))
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return "", ErrUserNotFound
	}

	return s.generateAccessToken(&user)
}

// =============================
// Forgot / Reset Password
// =============================

func (s *service) RequestPasswordReset(email string) error {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	resetToken := generateSecureToken()
	ttl := 15 * time.Minute
	key := fmt.Sprintf("reset_token:%s", resetToken)

	if err := utils.SetToken(key, fmt.Sprint(user.ID), ttl); err != nil {
		return errors.New("could not save reset token")
	}

	// Token delivery is the deployment's concern (ops hand it out); the API
	// only mints and stores it.
	return nil
}

func (s *service) ResetPassword(token string, newPassword string) error {
	key := fmt.Sprintf("reset_token:%s", token)
	val, err := utils.GetToken(key)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	var userID uint
	if _, err := fmt.Sscan(val, &userID); err != nil {
		return errors.New("invalid token data")
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.Update(&user); err != nil {
		return errors.New("failed to update password")
	}

	_ = utils.DeleteToken(key)

	return nil
}

// =============================
// Logout
// =============================

func (s *service) Logout() error {
	// JWT is stateless; the client just drops the token.
	return nil
}

func (s *service) GetUserByID(userID uint) (User, error) {
	return s.repo.FindByID(userID)
}

func generateSecureToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// SeedAdminUser creates the bootstrap Admin account when no Admin exists yet.
func SeedAdminUser(db *gorm.DB, cfg *config.Config) error {
	repo := NewRepository(db)

	count, err := repo.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return errors.New("no admin user exists and ADMIN_EMAIL/ADMIN_PASSWORD are not set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return repo.Create(&User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         RoleAdmin,
	})
}
