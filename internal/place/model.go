package place

import (
	"time"

	"gorm.io/datatypes"

	"github.com/sharath018/temple-directory-backend/internal/auth"
)

// Moderation states of a place record.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidRegions is the fixed region vocabulary.
var ValidRegions = []string{"North", "South", "East", "West"}

// Festival entries live inside the place row as JSONB. An entry with any
// empty field is dropped at write time.
type Festival struct {
	Name        string `json:"name"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// Place represents the places table: one temple listing.
type Place struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Deity        string `gorm:"not null" json:"deity"`
	Architecture string `gorm:"not null" json:"architecture"`
	About        string `gorm:"size:500;not null" json:"about"`
	BuiltBy      string `json:"built_by,omitempty"`

	ConstructionPeriod string `json:"construction_period,omitempty"`
	Significance       string `gorm:"size:1000" json:"significance,omitempty"`
	Region             string `gorm:"size:10;index" json:"region,omitempty"`
	Image              string `json:"image,omitempty"`
	MapsLink           string `json:"maps_link,omitempty"`

	City     string `gorm:"not null;index" json:"city"`
	State    string `gorm:"not null;index" json:"state"`
	District string `json:"district,omitempty"`
	Pincode  string `gorm:"size:6;not null" json:"pincode"`

	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`

	Festivals datatypes.JSON `gorm:"type:jsonb" json:"festivals,omitempty"`

	ApprovalStatus  string     `gorm:"size:10;not null;default:'pending';index" json:"approval_status"`
	CreatedByID     uint       `gorm:"not null;index" json:"created_by_id"`
	CreatedBy       *auth.User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ApprovedByID    *uint      `json:"approved_by_id,omitempty"`
	ApprovedBy      *auth.User `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	IsActive        bool       `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Place) TableName() string {
	return "places"
}

// Filter is the store-level query shape shared by the CRUD and search paths.
// Deity, state, city and architecture match as case-insensitive substrings;
// region and status match exactly.
type Filter struct {
	Region       string
	Deity        string
	State        string
	City         string
	Architecture string
	Status       string
	ActiveOnly   bool

	// PopulateUsers preloads creator and approver identities. Only the
	// privileged search path sets it.
	PopulateUsers bool
}

// PlaceInput carries the writable fields of a place through create and
// edit-approve. Festivals are filtered, not rejected, when incomplete.
type PlaceInput struct {
	Name               string     `json:"name"`
	Deity              string     `json:"deity"`
	State              string     `json:"state"`
	City               string     `json:"city"`
	District           string     `json:"district"`
	Pincode            string     `json:"pincode"`
	Architecture       string     `json:"architecture"`
	About              string     `json:"about"`
	BuiltBy            string     `json:"builtBy"`
	ConstructionPeriod string     `json:"constructionPeriod"`
	Significance       string     `json:"significance"`
	Region             string     `json:"region"`
	Phone              string     `json:"phone"`
	Website            string     `json:"website"`
	MapsLink           string     `json:"mapsLink"`
	Image              string     `json:"image"`
	Festivals          []Festival `json:"festivals"`
}
