package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/internal/auth"
)

type mockRepo struct {
	nextID  uint
	byID    map[uint]*auth.User
	byEmail map[string]*auth.User
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[uint]*auth.User{}, byEmail: map[string]*auth.User{}}
}

func (m *mockRepo) List(ctx context.Context, role string, limit, offset int) ([]auth.User, error) {
	var out []auth.User
	for _, u := range m.byID {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockRepo) Count(ctx context.Context, role string) (int64, error) {
	list, _ := m.List(ctx, role, 0, 0)
	return int64(len(list)), nil
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*auth.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if u, ok := m.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) Create(ctx context.Context, u *auth.User) error {
	m.nextID++
	u.ID = m.nextID
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockRepo) Update(ctx context.Context, u *auth.User) error {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uint) error {
	if u, ok := m.byID[id]; ok {
		delete(m.byEmail, u.Email)
		delete(m.byID, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

var admin = auth.User{ID: 99, Role: auth.RoleAdmin}

func validCreate() CreateInput {
	return CreateInput{
		Name:     "Eva Rao",
		Email:    "Eva@Example.Com",
		Password: "correct horse",
		Role:     auth.RoleEvaluator,
	}
}

func TestCreateUser(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	u, err := svc.Create(context.Background(), validCreate(), admin, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Email != "eva@example.com" {
		t.Errorf("email must be lowercased, got %q", u.Email)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("correct horse")) != nil {
		t.Error("stored hash must verify against the password")
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
		want   error
	}{
		{"missing email", func(in *CreateInput) { in.Email = "" }, ErrMissingFields},
		{"bad role", func(in *CreateInput) { in.Role = "Root" }, ErrInvalidRole},
		{"short password", func(in *CreateInput) { in.Password = "short" }, ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreate()
			tt.mutate(&in)
			if _, err := svc.Create(context.Background(), in, admin, ""); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	if _, err := svc.Create(context.Background(), validCreate(), admin, ""); err != nil {
		t.Fatalf("setup create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), validCreate(), admin, ""); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestDeleteSelfRejected(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)

	u, err := svc.Create(context.Background(), validCreate(), admin, "")
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	actor := auth.User{ID: u.ID, Role: auth.RoleAdmin}
	if err := svc.Delete(context.Background(), u.ID, actor, ""); !errors.Is(err, ErrSelfDelete) {
		t.Errorf("expected ErrSelfDelete, got %v", err)
	}
	if err := svc.Delete(context.Background(), u.ID, admin, ""); err != nil {
		t.Errorf("delete by another admin should pass, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	svc := NewService(newMockRepo(), nil)

	u, err := svc.Create(context.Background(), validCreate(), admin, "")
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}

	role := auth.RoleSupportAdmin
	got, err := svc.Update(context.Background(), u.ID, UpdateInput{Role: &role}, admin, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Role != auth.RoleSupportAdmin {
		t.Errorf("role = %q, want %q", got.Role, auth.RoleSupportAdmin)
	}

	bad := "Root"
	if _, err := svc.Update(context.Background(), u.ID, UpdateInput{Role: &bad}, admin, ""); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}
