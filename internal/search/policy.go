package search

import (
	"github.com/sharath018/temple-directory-backend/internal/auth"
	"github.com/sharath018/temple-directory-backend/internal/place"
)

// ApplyVisibility hardens a filter according to who is asking. Anonymous
// callers are pinned to active approved records no matter what they request;
// moderators keep their status filter and get creator/approver identities
// populated.
func ApplyVisibility(f place.Filter, user *auth.User, requestedStatus string) place.Filter {
	if user == nil || !auth.IsValidRole(user.Role) {
		f.ActiveOnly = true
		f.Status = place.StatusApproved
		f.PopulateUsers = false
		return f
	}

	f.Status = requestedStatus
	f.PopulateUsers = true
	return f
}

// Pagination is the metadata block attached to every list response.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination computes the metadata for a page over total records.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// SlicePage pages an in-memory result set. Pages past the end are empty,
// never an error.
func SlicePage(items []place.Place, page, limit int) []place.Place {
	start := (page - 1) * limit
	if start >= len(items) {
		return []place.Place{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
