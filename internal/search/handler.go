package search

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sharath018/temple-directory-backend/internal/auth"
	"github.com/sharath018/temple-directory-backend/internal/place"
	"github.com/sharath018/temple-directory-backend/middleware"
	"github.com/sharath018/temple-directory-backend/utils"
)

const (
	defaultQueryLimit = 10
	defaultTagLimit   = 15
	tagCacheTTL       = 10 * time.Minute
)

type Handler struct {
	Store Store
	Cfg   Config
}

func NewHandler(store Store, cfg Config) *Handler {
	return &Handler{Store: store, Cfg: cfg}
}

func requestUser(c *gin.Context) *auth.User {
	if u, ok := middleware.CurrentUser(c); ok {
		return &u
	}
	return nil
}

// buildFilter assembles the request filter and applies the visibility policy.
func buildFilter(c *gin.Context, user *auth.User) (place.Filter, error) {
	f := place.Filter{
		Deity:        c.Query("deity"),
		State:        c.Query("state"),
		City:         c.Query("city"),
		Architecture: c.Query("architecture"),
	}

	if raw := c.Query("region"); raw != "" {
		region, ok := place.NormalizeRegion(raw)
		if !ok {
			return f, ErrInvalidRegion
		}
		f.Region = region
	}

	return ApplyVisibility(f, user, c.Query("status")), nil
}

// Query handles GET /places/query: the filtered, paginated directory listing
// used by both the public directory and the moderation console.
func (h *Handler) Query(c *gin.Context) {
	user := requestUser(c)

	f, err := buildFilter(c, user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	page := ParsePage(c.Query("page"))
	limit := ParseLimit(c.Query("limit"), defaultQueryLimit, 0)

	total, err := h.Store.Count(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	places, err := h.Store.Find(c.Request.Context(), f, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       places,
		"pagination": NewPagination(total, page, limit),
		"filters": gin.H{
			"region":       f.Region,
			"deity":        f.Deity,
			"state":        f.State,
			"city":         f.City,
			"architecture": f.Architecture,
			"status":       f.Status,
		},
	})
}

// Search handles GET /places: filtered listing when q is absent, the hybrid
// exact-then-fuzzy search when present.
func (h *Handler) Search(c *gin.Context) {
	user := requestUser(c)

	f, err := buildFilter(c, user)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	page := ParsePage(c.Query("page"))
	limit := ParseLimit(c.Query("limit"), defaultQueryLimit, 0)

	query := c.Query("q")
	if query == "" {
		h.listPlain(c, f, page, limit)
		return
	}

	cfg := h.Cfg
	if user != nil && auth.IsValidRole(user.Role) {
		// Moderators get the uncapped candidate pull. Same gate as
		// ApplyVisibility, so an unknown role stays on the public cap.
		cfg.TextSearchCap = 0
	}

	result, err := NewOrchestrator(h.Store, cfg).Search(c.Request.Context(), query, f)
	if err != nil {
		if errors.Is(err, ErrNoiseOnlyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		log.Printf("❌ Search failed for %q: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	total := int64(len(result.Places))
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       SlicePage(result.Places, page, limit),
		"pagination": NewPagination(total, page, limit),
		"searchInfo": gin.H{"query": query, "source": result.Source},
	})
}

func (h *Handler) listPlain(c *gin.Context, f place.Filter, page, limit int) {
	total, err := h.Store.Count(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	places, err := h.Store.Find(c.Request.Context(), f, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       places,
		"pagination": NewPagination(total, page, limit),
	})
}

// BrowseByTag handles GET /temples/tags: public browsing by exactly one of
// deity or architecture.
func (h *Handler) BrowseByTag(c *gin.Context) {
	deity := c.Query("deity")
	architecture := c.Query("architecture")

	if (deity == "") == (architecture == "") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "provide exactly one of deity or architecture",
		})
		return
	}

	f := ApplyVisibility(place.Filter{Deity: deity, Architecture: architecture}, nil, "")

	page := ParsePage(c.Query("page"))
	limit := ParseLimit(c.Query("limit"), defaultTagLimit, 0)

	total, err := h.Store.Count(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	places, err := h.Store.Find(c.Request.Context(), f, limit, (page-1)*limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	tag := gin.H{"type": "deity", "value": deity}
	if architecture != "" {
		tag = gin.H{"type": "architecture", "value": architecture}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       places,
		"pagination": NewPagination(total, page, limit),
		"tag":        tag,
	})
}

// TagOptions handles GET /temples/tags/options: the distinct tag vocabulary
// over live approved records, cached for a few minutes.
func (h *Handler) TagOptions(c *gin.Context) {
	deities, dErr := cachedDistinct(c, h, place.TagCacheDeities, "deity")
	architectures, aErr := cachedDistinct(c, h, place.TagCacheArchitectures, "architecture")
	if dErr != nil || aErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"deities":       deities,
			"architectures": architectures,
		},
	})
}

func cachedDistinct(c *gin.Context, h *Handler, key, column string) ([]string, error) {
	ctx := c.Request.Context()

	if raw, err := utils.CacheGet(ctx, key); err == nil {
		var values []string
		if json.Unmarshal([]byte(raw), &values) == nil {
			return values, nil
		}
	}

	values, err := h.Store.Distinct(ctx, column)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}

	if encoded, err := json.Marshal(values); err == nil {
		if err := utils.CacheSet(ctx, key, string(encoded), tagCacheTTL); err != nil {
			log.Printf("⚠️ Tag cache write failed for %s: %v", key, err)
		}
	}
	return values, nil
}
