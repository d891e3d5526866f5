package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sharath018/temple-directory-backend/config"
)

var DB *gorm.DB

// Connect opens the postgres connection and stores the handle in database.DB.
func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	DB = db
	log.Println("✅ Connected to Postgres")
	return db
}

// EnsureSearchIndexes creates the full-text search index over place records
// and the partial unique index that backs the duplicate-place conflict check.
// Both are idempotent so they run on every boot.
func EnsureSearchIndexes(db *gorm.DB) error {
	stmts := []string{
		// Native text search over name, city and state. Mirrors the fields the
		// text path scores on; the fuzzy fallback covers deity/architecture.
		`CREATE INDEX IF NOT EXISTS idx_places_fts ON places
			USING GIN (to_tsvector('english',
				coalesce(name, '') || ' ' || coalesce(city, '') || ' ' || coalesce(state, '')))`,

		// No two active places may share (name, city, state). The service does a
		// pre-check too, but this index is the authoritative conflict source.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_places_name_city_state_active ON places
			(lower(name), lower(city), lower(state)) WHERE is_active`,

		`CREATE INDEX IF NOT EXISTS idx_places_status ON places (approval_status)`,
		`CREATE INDEX IF NOT EXISTS idx_places_deity ON places (deity)`,
		`CREATE INDEX IF NOT EXISTS idx_places_architecture ON places (architecture)`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("search index bootstrap failed: %w", err)
		}
	}
	return nil
}
