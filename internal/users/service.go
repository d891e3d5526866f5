package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/internal/auditlog"
	"github.com/sharath018/temple-directory-backend/internal/auth"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	ErrInvalidRole    = errors.New("invalid role")
	ErrSelfDelete     = errors.New("you cannot delete your own account")
	ErrWeakPassword   = errors.New("password must be at least 8 characters")
	ErrMissingFields  = errors.New("name, email, password, and role are required")
)

type CreateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
}

type UpdateInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Mobile   *string `json:"mobile"`
	Address  *string `json:"address"`
}

type ListResult struct {
	Users      []auth.User
	TotalCount int64
}

type Service struct {
	Repo         Repository
	AuditService auditlog.Service
}

func NewService(r Repository, as auditlog.Service) *Service {
	return &Service{Repo: r, AuditService: as}
}

func (s *Service) List(ctx context.Context, role string, limit, offset int) (*ListResult, error) {
	if role != "" && !auth.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	total, err := s.Repo.Count(ctx, role)
	if err != nil {
		return nil, err
	}
	list, err := s.Repo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListResult{Users: list, TotalCount: total}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*auth.User, error) {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput, actor auth.User, ip string) (*auth.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, ErrMissingFields
	}
	if !auth.IsValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if len(in.Password) < 8 {
		return nil, ErrWeakPassword
	}

	if _, err := s.Repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &auth.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Mobile:       strings.TrimSpace(in.Mobile),
		Address:      strings.TrimSpace(in.Address),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.audit(ctx, actor.ID, "USER_CREATED", map[string]interface{}{
		"target_user_id": u.ID, "email": u.Email, "role": u.Role,
	}, ip)
	return u, nil
}

func (s *Service) Update(ctx context.Context, id uint, in UpdateInput, actor auth.User, ip string) (*auth.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != u.Email {
			if _, err := s.Repo.FindByEmail(ctx, email); err == nil {
				return nil, ErrDuplicateEmail
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			u.Email = email
		}
	}
	if in.Role != nil {
		if !auth.IsValidRole(*in.Role) {
			return nil, ErrInvalidRole
		}
		u.Role = *in.Role
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if in.Mobile != nil {
		u.Mobile = strings.TrimSpace(*in.Mobile)
	}
	if in.Address != nil {
		u.Address = strings.TrimSpace(*in.Address)
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.audit(ctx, actor.ID, "USER_UPDATED", map[string]interface{}{
		"target_user_id": u.ID,
	}, ip)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id uint, actor auth.User, ip string) error {
	if id == actor.ID {
		return ErrSelfDelete
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit(ctx, actor.ID, "USER_DELETED", map[string]interface{}{
		"target_user_id": id,
	}, ip)
	return nil
}

func (s *Service) audit(ctx context.Context, actorID uint, action string, details map[string]interface{}, ip string) {
	if s.AuditService == nil {
		return
	}
	_ = s.AuditService.LogAction(ctx, &actorID, nil, action, details, ip, "success")
}
