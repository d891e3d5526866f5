package search

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/sharath018/temple-directory-backend/internal/place"
)

// ErrNoiseOnlyQuery is returned when a query reduces to nothing after noise
// stripping and the orchestrator is configured to reject that instead of
// silently listing everything.
var ErrNoiseOnlyQuery = errors.New("search query contains only generic words; add a name, deity, or city")

// Source labels where a result set came from.
const (
	SourceNone  = "none"
	SourceExact = "exact"
	SourceFuzzy = "fuzzy"
)

type Config struct {
	// MinSufficient is how many exact hits make the fuzzy pass unnecessary.
	MinSufficient int
	// TextSearchCap bounds the exact candidate pull. 0 means unbounded,
	// which the privileged path uses.
	TextSearchCap int
	// RejectNoiseOnlyQuery turns an all-noise query into an error instead
	// of an unfiltered listing.
	RejectNoiseOnlyQuery bool
}

func DefaultConfig() Config {
	return Config{MinSufficient: 5, TextSearchCap: 20}
}

// Result is an unpaginated, ordered result set.
type Result struct {
	Places []place.Place
	Source string
}

// Orchestrator runs the two-stage search: native text search first, fuzzy
// only when the exact pass comes back thin.
type Orchestrator struct {
	Store  Store
	Fuzzy  *Matcher
	Config Config
}

func NewOrchestrator(store Store, cfg Config) *Orchestrator {
	return &Orchestrator{Store: store, Fuzzy: NewMatcher(), Config: cfg}
}

// Search resolves rawQuery under the given filter. Store failures abort the
// whole search; there is no partial-result degradation.
func (o *Orchestrator) Search(ctx context.Context, rawQuery string, f place.Filter) (*Result, error) {
	stripped := StripNoise(rawQuery)
	if stripped == "" {
		if o.Config.RejectNoiseOnlyQuery {
			return nil, ErrNoiseOnlyQuery
		}
		// All noise: same as no search text at all, a plain filtered listing.
		places, err := o.Store.Find(ctx, f, 0, 0)
		if err != nil {
			return nil, err
		}
		return &Result{Places: places, Source: SourceNone}, nil
	}

	exact, err := o.Store.TextSearch(ctx, f, stripped, o.Config.TextSearchCap)
	if err != nil {
		return nil, err
	}
	if len(exact) >= o.Config.MinSufficient {
		return &Result{Places: exact, Source: SourceExact}, nil
	}

	// Thin exact results: rank the whole filtered corpus fuzzily.
	candidates, err := o.Store.Find(ctx, f, 0, 0)
	if err != nil {
		return nil, err
	}

	matches := o.Fuzzy.Rank(stripped, candidates)
	if len(matches) > 0 {
		// Fuzzy rank decides membership; presentation order is recency.
		places := make([]place.Place, len(matches))
		for i, m := range matches {
			places[i] = m.Place
		}
		sort.SliceStable(places, func(i, j int) bool {
			return places[i].CreatedAt.After(places[j].CreatedAt)
		})
		log.Printf("🔍 Fuzzy search matched %d of %d candidates for %q", len(matches), len(candidates), stripped)
		return &Result{Places: places, Source: SourceFuzzy}, nil
	}

	// Fuzzy found nothing at all; hand back whatever exact hits exist even
	// though they fell short of the sufficiency bar.
	if len(exact) > 0 {
		return &Result{Places: exact, Source: SourceExact}, nil
	}
	return &Result{Source: SourceNone}, nil
}
