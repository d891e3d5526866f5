package place

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/internal/auth"
)

type mockRepo struct {
	nextID uint
	byID   map[uint]*Place
	bySlug map[string]*Place
	dup    bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[uint]*Place{}, bySlug: map[string]*Place{}}
}

func (m *mockRepo) Create(ctx context.Context, p *Place) error {
	m.nextID++
	p.ID = m.nextID
	m.byID[p.ID] = p
	m.bySlug[p.Slug] = p
	return nil
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*Place, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) FindBySlug(ctx context.Context, slug string) (*Place, error) {
	if p, ok := m.bySlug[slug]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRepo) Update(ctx context.Context, p *Place) error {
	m.byID[p.ID] = p
	m.bySlug[p.Slug] = p
	return nil
}

func (m *mockRepo) SetActive(ctx context.Context, id uint, active bool) error {
	if p, ok := m.byID[id]; ok {
		p.IsActive = active
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRepo) Delete(ctx context.Context, id uint) error {
	if p, ok := m.byID[id]; ok {
		delete(m.bySlug, p.Slug)
		delete(m.byID, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, ok := m.bySlug[slug]
	return ok, nil
}

func (m *mockRepo) DuplicateExists(ctx context.Context, name, city, state string, excludeID uint) (bool, error) {
	return m.dup, nil
}

func (m *mockRepo) Find(ctx context.Context, f Filter, limit, offset int) ([]Place, error) {
	return nil, nil
}

func (m *mockRepo) Count(ctx context.Context, f Filter) (int64, error) { return 0, nil }

func (m *mockRepo) TextSearch(ctx context.Context, f Filter, query string, limit int) ([]Place, error) {
	return nil, nil
}

func (m *mockRepo) Distinct(ctx context.Context, column string) ([]string, error) {
	return nil, nil
}

var (
	adminUser     = auth.User{ID: 1, Name: "Root", Role: auth.RoleAdmin}
	evaluatorUser = auth.User{ID: 2, Name: "Eva", Role: auth.RoleEvaluator}
	supportUser   = auth.User{ID: 3, Name: "Sam", Role: auth.RoleSupportAdmin}
)

func validInput() PlaceInput {
	return PlaceInput{
		Name:         "Sri Meenakshi Temple",
		Deity:        "Parvati",
		State:        "Tamil Nadu",
		City:         "Madurai",
		Pincode:      "625001",
		Architecture: "Dravidian",
		About:        "Historic temple on the Vaigai river.",
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, nil, nil)
}

func TestCreateStartsPending(t *testing.T) {
	svc := newTestService(newMockRepo())

	p, err := svc.Create(context.Background(), validInput(), supportUser, "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ApprovalStatus != StatusPending {
		t.Errorf("status = %q, want pending", p.ApprovalStatus)
	}
	if p.ApprovedByID != nil || p.ApprovedAt != nil {
		t.Error("non-admin creation must not carry approval stamps")
	}
	if p.CreatedByID != supportUser.ID {
		t.Errorf("createdBy = %d, want %d", p.CreatedByID, supportUser.ID)
	}
	if p.Slug != "sri-meenakshi-temple" {
		t.Errorf("slug = %q", p.Slug)
	}
	if !p.IsActive {
		t.Error("new places start active")
	}
}

func TestCreateAdminAutoApproves(t *testing.T) {
	svc := newTestService(newMockRepo())

	p, err := svc.Create(context.Background(), validInput(), adminUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ApprovalStatus != StatusApproved {
		t.Errorf("status = %q, want approved", p.ApprovalStatus)
	}
	if p.ApprovedByID == nil || *p.ApprovedByID != adminUser.ID {
		t.Error("auto-approval must stamp the approver")
	}
	if p.ApprovedAt == nil {
		t.Error("auto-approval must stamp the time")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(newMockRepo())

	tests := []struct {
		name   string
		mutate func(*PlaceInput)
	}{
		{"missing name", func(in *PlaceInput) { in.Name = "" }},
		{"missing deity", func(in *PlaceInput) { in.Deity = "  " }},
		{"short pincode", func(in *PlaceInput) { in.Pincode = "56001" }},
		{"alpha pincode", func(in *PlaceInput) { in.Pincode = "56000a" }},
		{"long pincode", func(in *PlaceInput) { in.Pincode = "5600011" }},
		{"bad region", func(in *PlaceInput) { in.Region = "Central" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in, adminUser, "")
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateNormalizesRegion(t *testing.T) {
	svc := newTestService(newMockRepo())

	in := validInput()
	in.Region = "south"
	p, err := svc.Create(context.Background(), in, adminUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Region != "South" {
		t.Errorf("region = %q, want South", p.Region)
	}
}

func TestCreateDropsIncompleteFestivals(t *testing.T) {
	svc := newTestService(newMockRepo())

	in := validInput()
	in.Festivals = []Festival{
		{Name: "Chithirai", Period: "April", Description: "Annual festival."},
		{Name: "Nameless", Period: "", Description: "Missing period."},
	}

	p, err := svc.Create(context.Background(), in, adminUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var kept []Festival
	if err := json.Unmarshal(p.Festivals, &kept); err != nil {
		t.Fatalf("festivals should be valid JSON: %v", err)
	}
	if len(kept) != 1 || kept[0].Name != "Chithirai" {
		t.Errorf("expected only the complete festival, got %v", kept)
	}
}

func TestCreateFestivalFilterLeavesInputIntact(t *testing.T) {
	svc := newTestService(newMockRepo())

	// Incomplete entry first, so compacting in place would overwrite it
	// with the kept one in the caller's slice.
	festivals := []Festival{
		{Name: "Nameless", Period: "", Description: "Missing period."},
		{Name: "Chithirai", Period: "April", Description: "Annual festival."},
	}
	in := validInput()
	in.Festivals = festivals

	if _, err := svc.Create(context.Background(), in, adminUser, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if festivals[0].Name != "Nameless" || festivals[1].Name != "Chithirai" {
		t.Errorf("caller's festivals slice was mutated: %v", festivals)
	}
}

func TestCreateDuplicate(t *testing.T) {
	repo := newMockRepo()
	repo.dup = true
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), validInput(), adminUser, ""); !errors.Is(err, ErrDuplicatePlace) {
		t.Errorf("expected ErrDuplicatePlace, got %v", err)
	}
}

func TestCreateSlugCollision(t *testing.T) {
	svc := newTestService(newMockRepo())

	first, err := svc.Create(context.Background(), validInput(), adminUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := validInput()
	in.City = "Chennai"
	second, err := svc.Create(context.Background(), in, adminUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Slug != "sri-meenakshi-temple" || second.Slug != "sri-meenakshi-temple-1" {
		t.Errorf("slugs = %q, %q", first.Slug, second.Slug)
	}
}

func createPending(t *testing.T, svc *Service) *Place {
	t.Helper()
	p, err := svc.Create(context.Background(), validInput(), supportUser, "")
	if err != nil {
		t.Fatalf("setup create failed: %v", err)
	}
	return p
}

func TestModerateApprove(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	got, err := svc.Moderate(context.Background(), p.ID, "approve", "", evaluatorUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ApprovalStatus != StatusApproved {
		t.Errorf("status = %q, want approved", got.ApprovalStatus)
	}
	if got.ApprovedByID == nil || *got.ApprovedByID != evaluatorUser.ID {
		t.Error("approver must be stamped")
	}
}

func TestModerateRejectRequiresReason(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	_, err := svc.Moderate(context.Background(), p.ID, "reject", "  ", evaluatorUser, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got, err := svc.Moderate(context.Background(), p.ID, "reject", "duplicate listing", evaluatorUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ApprovalStatus != StatusRejected || got.RejectionReason != "duplicate listing" {
		t.Errorf("got status %q reason %q", got.ApprovalStatus, got.RejectionReason)
	}
}

func TestModerateOnlyOnPending(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	if _, err := svc.Moderate(context.Background(), p.ID, "approve", "", evaluatorUser, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Moderate(context.Background(), p.ID, "approve", "", evaluatorUser, ""); !errors.Is(err, ErrAlreadyModerated) {
		t.Errorf("expected ErrAlreadyModerated, got %v", err)
	}
}

func TestModerateForbiddenForSupportAdmin(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	if _, err := svc.Moderate(context.Background(), p.ID, "approve", "", supportUser, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestModerateUnknownPlace(t *testing.T) {
	svc := newTestService(newMockRepo())

	if _, err := svc.Moderate(context.Background(), 999, "approve", "", adminUser, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEditModerateFlipsTerminalStates(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	if _, err := svc.Moderate(context.Background(), p.ID, "reject", "incomplete data", evaluatorUser, ""); err != nil {
		t.Fatalf("setup reject failed: %v", err)
	}

	// Rejected -> approved through the edit path, reason cleared.
	got, err := svc.EditModerate(context.Background(), p.ID, "approve", nil, "", adminUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ApprovalStatus != StatusApproved {
		t.Errorf("status = %q, want approved", got.ApprovalStatus)
	}
	if got.RejectionReason != "" {
		t.Errorf("rejection reason should be cleared, got %q", got.RejectionReason)
	}

	// Approved -> rejected is also allowed.
	got, err = svc.EditModerate(context.Background(), p.ID, "reject", nil, "stale content", adminUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ApprovalStatus != StatusRejected || got.RejectionReason != "stale content" {
		t.Errorf("got status %q reason %q", got.ApprovalStatus, got.RejectionReason)
	}
}

func TestEditModerateSaveKeepsStatus(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	in := validInput()
	in.About = "Updated description."
	got, err := svc.EditModerate(context.Background(), p.ID, "save", &in, "", evaluatorUser, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ApprovalStatus != StatusPending {
		t.Errorf("save must not change status, got %q", got.ApprovalStatus)
	}
	if got.About != "Updated description." {
		t.Errorf("edit not applied: %q", got.About)
	}
}

func TestEditModerateInvalidAction(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	_, err := svc.EditModerate(context.Background(), p.ID, "revert", nil, "", adminUser, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected validation error, got %v", err)
	}
}

type captureNotifier struct {
	events []ModerationEvent
}

func (c *captureNotifier) PublishDecision(ctx context.Context, ev ModerationEvent) error {
	c.events = append(c.events, ev)
	return nil
}

func TestModerationPublishesDecision(t *testing.T) {
	notifier := &captureNotifier{}
	svc := NewService(newMockRepo(), nil, notifier)
	p := createPending(t, svc)

	if _, err := svc.Moderate(context.Background(), p.ID, "approve", "", evaluatorUser, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(notifier.events))
	}
	ev := notifier.events[0]
	if ev.Decision != StatusApproved || ev.CreatorID != supportUser.ID || ev.ModeratorID != evaluatorUser.ID {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestDeactivateAndHardDelete(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	p := createPending(t, svc)

	// Support Admin created it, so they may deactivate it.
	if err := svc.Deactivate(context.Background(), p.Slug, supportUser, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.byID[p.ID].IsActive {
		t.Error("deactivate should clear is_active")
	}

	// Hard delete is admin only.
	if err := svc.HardDelete(context.Background(), p.Slug, evaluatorUser, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := svc.HardDelete(context.Background(), p.Slug, adminUser, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byID[p.ID]; ok {
		t.Error("hard delete should remove the record")
	}
}

func TestUpdateForbiddenForNonCreator(t *testing.T) {
	svc := newTestService(newMockRepo())
	p := createPending(t, svc)

	in := validInput()
	if _, err := svc.Update(context.Background(), p.Slug, in, evaluatorUser, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(context.Background(), p.Slug, in, adminUser, ""); err != nil {
		t.Errorf("admin update should pass, got %v", err)
	}
}
