package place

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphens  = regexp.MustCompile(`-+`)
)

// Slugify turns a free-text name into a URL-safe [a-z0-9-] slug.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "place"
	}
	return s
}

// slugChecker is the single repository method slug assignment needs.
type slugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// EnsureUniqueSlug returns the first free variant of baseSlug, trying
// baseSlug, then baseSlug-1, baseSlug-2, and so on. Assigned slugs are
// immutable, so the suffix counter only ever grows.
func EnsureUniqueSlug(ctx context.Context, repo slugChecker, baseSlug string) (string, error) {
	slug := baseSlug
	for i := 0; ; i++ {
		taken, err := repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", baseSlug, i+1)
	}
}
