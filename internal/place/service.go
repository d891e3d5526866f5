package place

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/internal/auditlog"
	"github.com/sharath018/temple-directory-backend/internal/auth"
	"github.com/sharath018/temple-directory-backend/utils"
)

var (
	ErrNotFound         = errors.New("place not found")
	ErrDuplicatePlace   = errors.New("a place with this name already exists in the same city and state")
	ErrAlreadyModerated = errors.New("place is not pending")
	ErrForbidden        = errors.New("insufficient permissions")
)

// ValidationError carries a caller-facing message for a 400 response.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }

var pincodeRe = regexp.MustCompile(`^\d{6}$`)

// ValidPincode reports whether p is exactly 6 digits.
func ValidPincode(p string) bool {
	return pincodeRe.MatchString(p)
}

// Tag cache keys invalidated whenever the places collection changes.
const (
	TagCacheDeities       = "tags:deities"
	TagCacheArchitectures = "tags:architectures"
)

// Notifier publishes moderation decisions; the kafka pipeline implements it.
type Notifier interface {
	PublishDecision(ctx context.Context, ev ModerationEvent) error
}

type ModerationEvent struct {
	PlaceID     uint      `json:"place_id"`
	PlaceName   string    `json:"place_name"`
	Slug        string    `json:"slug"`
	Decision    string    `json:"decision"` // approved / rejected
	Reason      string    `json:"reason,omitempty"`
	CreatorID   uint      `json:"creator_id"`
	ModeratorID uint      `json:"moderator_id"`
	DecidedAt   time.Time `json:"decided_at"`
}

type Service struct {
	Repo         Repository
	AuditService auditlog.Service
	Notifier     Notifier
}

func NewService(r Repository, as auditlog.Service, n Notifier) *Service {
	return &Service{Repo: r, AuditService: as, Notifier: n}
}

// normalizeInput trims everything, validates required fields and drops
// incomplete festival entries.
func normalizeInput(in PlaceInput) (PlaceInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Deity = strings.TrimSpace(in.Deity)
	in.State = strings.TrimSpace(in.State)
	in.City = strings.TrimSpace(in.City)
	in.District = strings.TrimSpace(in.District)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Architecture = strings.TrimSpace(in.Architecture)
	in.About = strings.TrimSpace(in.About)
	in.BuiltBy = strings.TrimSpace(in.BuiltBy)
	in.ConstructionPeriod = strings.TrimSpace(in.ConstructionPeriod)
	in.Significance = strings.TrimSpace(in.Significance)
	in.Region = strings.TrimSpace(in.Region)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Website = strings.TrimSpace(in.Website)
	in.MapsLink = strings.TrimSpace(in.MapsLink)
	in.Image = strings.TrimSpace(in.Image)

	if in.Name == "" || in.Deity == "" || in.State == "" || in.City == "" ||
		in.Pincode == "" || in.Architecture == "" || in.About == "" {
		return in, validationErr("name, deity, state, city, pincode, architecture, and about are required fields")
	}
	if len(in.Name) > 100 {
		return in, validationErr("name cannot exceed 100 characters")
	}
	if len(in.About) > 500 {
		return in, validationErr("about cannot exceed 500 characters")
	}
	if len(in.Significance) > 1000 {
		return in, validationErr("significance cannot exceed 1000 characters")
	}
	if !ValidPincode(in.Pincode) {
		return in, validationErr("pincode must be exactly 6 digits")
	}

	if in.Region != "" {
		region, ok := NormalizeRegion(in.Region)
		if !ok {
			return in, validationErr("invalid region; valid regions are: North, South, East, West")
		}
		in.Region = region
	}

	// Fresh slice so dropping entries never writes through to the caller's
	// backing array (the edit-moderate path reuses the request's festivals).
	kept := make([]Festival, 0, len(in.Festivals))
	for _, f := range in.Festivals {
		if f.Name == "" || f.Period == "" || f.Description == "" {
			continue
		}
		if len(f.Description) > 200 {
			return in, validationErr("festival description cannot exceed 200 characters")
		}
		kept = append(kept, f)
	}
	in.Festivals = kept

	return in, nil
}

// NormalizeRegion title-cases the value and checks it against the fixed set.
func NormalizeRegion(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	normalized := strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:])
	for _, r := range ValidRegions {
		if r == normalized {
			return normalized, true
		}
	}
	return "", false
}

func (in PlaceInput) apply(p *Place) {
	p.Name = in.Name
	p.Deity = in.Deity
	p.State = in.State
	p.City = in.City
	p.District = in.District
	p.Pincode = in.Pincode
	p.Architecture = in.Architecture
	p.About = in.About
	p.BuiltBy = in.BuiltBy
	p.ConstructionPeriod = in.ConstructionPeriod
	p.Significance = in.Significance
	p.Region = in.Region
	p.Phone = in.Phone
	p.Website = in.Website
	p.MapsLink = in.MapsLink
	p.Image = in.Image

	festivalsJSON, err := json.Marshal(in.Festivals)
	if err != nil {
		festivalsJSON = []byte("[]")
	}
	p.Festivals = festivalsJSON
}

// ========== CREATE ==========

// Create validates and stores a new place. Admin submissions are approved on
// the spot; everything else starts pending.
func (s *Service) Create(ctx context.Context, in PlaceInput, actor auth.User, ip string) (*Place, error) {
	in, err := normalizeInput(in)
	if err != nil {
		s.audit(ctx, &actor.ID, nil, "PLACE_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	dup, err := s.Repo.DuplicateExists(ctx, in.Name, in.City, in.State, 0)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicatePlace
	}

	baseSlug := Slugify(in.Name)
	slug, err := EnsureUniqueSlug(ctx, s.Repo, baseSlug)
	if err != nil {
		return nil, err
	}

	p := &Place{
		Slug:           slug,
		ApprovalStatus: StatusPending,
		CreatedByID:    actor.ID,
		IsActive:       true,
	}
	in.apply(p)

	if actor.Role == auth.RoleAdmin {
		now := time.Now()
		p.ApprovalStatus = StatusApproved
		p.ApprovedByID = &actor.ID
		p.ApprovedAt = &now
		log.Printf("⚡ Place auto-approved: created by Admin (user_id: %d)", actor.ID)
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		// The partial unique index is the authoritative duplicate check; the
		// pre-check above can lose the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePlace
		}
		s.audit(ctx, &actor.ID, nil, "PLACE_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.invalidateTagCache(ctx)

	action := "PLACE_CREATED"
	if p.ApprovalStatus == StatusApproved {
		action = "PLACE_CREATED_AUTO_APPROVED"
	}
	s.audit(ctx, &actor.ID, &p.ID, action, map[string]interface{}{
		"name": p.Name, "slug": p.Slug, "city": p.City, "state": p.State, "status": p.ApprovalStatus,
	}, ip, "success")

	return p, nil
}

// ========== READ ==========

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Place, error) {
	p, err := s.Repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ========== UPDATE ==========

// Update replaces the content of a place. Only the creator or an Admin may
// edit through this path; moderation status is untouched.
func (s *Service) Update(ctx context.Context, slug string, in PlaceInput, actor auth.User, ip string) (*Place, error) {
	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if actor.Role != auth.RoleAdmin && p.CreatedByID != actor.ID {
		return nil, ErrForbidden
	}

	in, err = normalizeInput(in)
	if err != nil {
		return nil, err
	}

	dup, err := s.Repo.DuplicateExists(ctx, in.Name, in.City, in.State, p.ID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicatePlace
	}

	in.apply(p)
	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePlace
		}
		return nil, err
	}

	s.invalidateTagCache(ctx)
	s.audit(ctx, &actor.ID, &p.ID, "PLACE_UPDATED", map[string]interface{}{
		"name": p.Name, "slug": p.Slug,
	}, ip, "success")

	return p, nil
}

// ========== MODERATION ==========

// Moderate approves or rejects a pending place. Rejection requires a reason.
func (s *Service) Moderate(ctx context.Context, placeID uint, action, reason string, actor auth.User, ip string) (*Place, error) {
	if actor.Role != auth.RoleAdmin && actor.Role != auth.RoleEvaluator {
		return nil, ErrForbidden
	}
	if action != "approve" && action != "reject" {
		return nil, validationErr("action must be either 'approve' or 'reject'")
	}
	if action == "reject" && strings.TrimSpace(reason) == "" {
		return nil, validationErr("rejection reason is required when rejecting a place")
	}

	p, err := s.Repo.FindByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if p.ApprovalStatus != StatusPending {
		return nil, ErrAlreadyModerated
	}

	s.applyDecision(p, action, reason, actor)

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.afterDecision(ctx, p, actor, ip)
	return p, nil
}

// EditModerate bundles a content edit with a moderation decision. It may move
// approved/rejected records between those two states but never back to
// pending; action "save" edits without touching the status.
func (s *Service) EditModerate(ctx context.Context, placeID uint, action string, in *PlaceInput, reason string, actor auth.User, ip string) (*Place, error) {
	if actor.Role != auth.RoleAdmin && actor.Role != auth.RoleEvaluator {
		return nil, ErrForbidden
	}
	if action != "save" && action != "approve" && action != "reject" {
		return nil, validationErr("valid action is required (save, approve, or reject)")
	}

	p, err := s.Repo.FindByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in != nil {
		normalized, err := normalizeInput(*in)
		if err != nil {
			return nil, err
		}
		dup, err := s.Repo.DuplicateExists(ctx, normalized.Name, normalized.City, normalized.State, p.ID)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, ErrDuplicatePlace
		}
		normalized.apply(p)
	}

	if action != "save" {
		if action == "reject" && strings.TrimSpace(reason) == "" {
			return nil, validationErr("rejection reason is required")
		}
		s.applyDecision(p, action, reason, actor)
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePlace
		}
		return nil, err
	}

	s.invalidateTagCache(ctx)
	if action == "save" {
		s.audit(ctx, &actor.ID, &p.ID, "PLACE_EDITED", map[string]interface{}{
			"slug": p.Slug,
		}, ip, "success")
	} else {
		s.afterDecision(ctx, p, actor, ip)
	}

	return p, nil
}

func (s *Service) applyDecision(p *Place, action, reason string, actor auth.User) {
	now := time.Now()
	p.ApprovedByID = &actor.ID
	p.ApprovedAt = &now
	if action == "approve" {
		p.ApprovalStatus = StatusApproved
		p.RejectionReason = ""
	} else {
		p.ApprovalStatus = StatusRejected
		p.RejectionReason = strings.TrimSpace(reason)
	}
}

func (s *Service) afterDecision(ctx context.Context, p *Place, actor auth.User, ip string) {
	decision := "PLACE_APPROVED"
	if p.ApprovalStatus == StatusRejected {
		decision = "PLACE_REJECTED"
	}

	s.invalidateTagCache(ctx)
	s.audit(ctx, &actor.ID, &p.ID, decision, map[string]interface{}{
		"slug": p.Slug, "reason": p.RejectionReason,
	}, ip, "success")

	if s.Notifier != nil {
		ev := ModerationEvent{
			PlaceID:     p.ID,
			PlaceName:   p.Name,
			Slug:        p.Slug,
			Decision:    p.ApprovalStatus,
			Reason:      p.RejectionReason,
			CreatorID:   p.CreatedByID,
			ModeratorID: actor.ID,
			DecidedAt:   time.Now(),
		}
		if err := s.Notifier.PublishDecision(ctx, ev); err != nil {
			log.Printf("⚠️ Failed to publish moderation event for place %d: %v", p.ID, err)
		}
	}
}

// ========== DELETE ==========

// Deactivate is the soft delete used by the moderation path.
func (s *Service) Deactivate(ctx context.Context, slug string, actor auth.User, ip string) error {
	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if actor.Role != auth.RoleAdmin && p.CreatedByID != actor.ID {
		return ErrForbidden
	}

	if err := s.Repo.SetActive(ctx, p.ID, false); err != nil {
		return err
	}

	s.invalidateTagCache(ctx)
	s.audit(ctx, &actor.ID, &p.ID, "PLACE_DEACTIVATED", map[string]interface{}{"slug": p.Slug}, ip, "success")
	return nil
}

// HardDelete permanently removes a record. Admin only; destructive.
func (s *Service) HardDelete(ctx context.Context, slug string, actor auth.User, ip string) error {
	if actor.Role != auth.RoleAdmin {
		return ErrForbidden
	}

	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, p.ID); err != nil {
		return err
	}

	s.invalidateTagCache(ctx)
	s.audit(ctx, &actor.ID, &p.ID, "PLACE_DELETED", map[string]interface{}{"slug": p.Slug}, ip, "success")
	return nil
}

// ========== helpers ==========

func (s *Service) audit(ctx context.Context, userID *uint, placeID *uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditService == nil {
		return
	}
	if err := s.AuditService.LogAction(ctx, userID, placeID, action, details, ip, status); err != nil {
		log.Printf("⚠️ Audit log write failed (%s): %v", action, err)
	}
}

func (s *Service) invalidateTagCache(ctx context.Context) {
	if err := utils.CacheInvalidate(ctx, TagCacheDeities, TagCacheArchitectures); err != nil {
		log.Printf("⚠️ Tag cache invalidation failed: %v", err)
	}
}
