package search

import (
	"context"

	"github.com/sharath018/temple-directory-backend/internal/place"
)

// Store is the read surface the search layer needs from the place repository.
// place.Repository satisfies it.
type Store interface {
	Find(ctx context.Context, f place.Filter, limit, offset int) ([]place.Place, error)
	Count(ctx context.Context, f place.Filter) (int64, error)
	TextSearch(ctx context.Context, f place.Filter, query string, limit int) ([]place.Place, error)
	Distinct(ctx context.Context, column string) ([]string, error)
}
