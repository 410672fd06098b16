package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// pgUniqueViolation is the Postgres SQLSTATE for a duplicate key.
const pgUniqueViolation = "23505"

type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
	GetStats(ctx context.Context, userID string) models.ProfileStats
	Ping(ctx context.Context) error
}

type profileRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewProfileRepository(db *sqlx.DB, logger *zap.Logger) ProfileRepository {
	return &profileRepository{db: db, logger: logger}
}

const profileColumns = `id, full_name, phone, role, location, farm_size, created_at, updated_at`

func (r *profileRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	query := r.db.Rebind(`SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`)
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpsertProfile creates the profile or updates the supplied fields. The role
// is always reset to farmer.
func (r *profileRepository) UpsertProfile(ctx context.Context, u models.ProfileUpdate) (*models.Profile, error) {
	now := time.Now().UTC()
	query := r.db.Rebind(`
		INSERT INTO profiles (id, full_name, phone, role, location, farm_size, created_at, updated_at)
		VALUES (?, ?, ?, 'farmer', ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = COALESCE(excluded.full_name, profiles.full_name),
			phone = COALESCE(excluded.phone, profiles.phone),
			location = COALESCE(excluded.location, profiles.location),
			farm_size = COALESCE(excluded.farm_size, profiles.farm_size),
			role = 'farmer',
			updated_at = excluded.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, u.UserID, u.FullName, u.Phone, u.Location, u.FarmSize, now, now); err != nil {
		return nil, err
	}
	return r.GetProfile(ctx, u.UserID)
}

// GetStats counts the user's scans, posts and records. A failing count is
// logged and reported as zero.
func (r *profileRepository) GetStats(ctx context.Context, userID string) models.ProfileStats {
	count := func(table, column string) int {
		var n int
		query := r.db.Rebind(`SELECT COUNT(*) FROM ` + table + ` WHERE ` + column + ` = ?`)
		if err := r.db.GetContext(ctx, &n, query, userID); err != nil {
			r.logger.Warn("Failed to count rows", zap.String("table", table), zap.Error(err))
			return 0
		}
		return n
	}
	return models.ProfileStats{
		Scans:   count("plant_diagnoses", "user_id"),
		Posts:   count("community_posts", "author_id"),
		Records: count("farm_records", "user_id"),
	}
}

func (r *profileRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a duplicate key error from
// either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
