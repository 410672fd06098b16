package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type MarketRepository interface {
	CreateRate(ctx context.Context, rate *models.MarketRate) error
	GetRates(ctx context.Context, filter models.MarketFilter) ([]models.MarketRate, error)
	GetPriceHistory(ctx context.Context, cropName, since string) ([]models.MarketRate, error)
}

type marketRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewMarketRepository(db *sqlx.DB, logger *zap.Logger) MarketRepository {
	return &marketRepository{db: db, logger: logger}
}

const marketColumns = `id, crop_name, variety, market_location, state, price_per_quintal, price_change,
	min_price, max_price, CAST(date AS TEXT) AS date, source, created_at, updated_at`

func (r *marketRepository) CreateRate(ctx context.Context, m *models.MarketRate) error {
	now := time.Now().UTC()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = now, now
	if m.Date == "" {
		m.Date = now.Format("2006-01-02")
	}
	if m.Source == "" {
		m.Source = "manual"
	}

	query := r.db.Rebind(`INSERT INTO market_rates
		(id, crop_name, variety, market_location, state, price_per_quintal, price_change, min_price, max_price, date, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, m.ID, m.CropName, m.Variety, m.MarketLocation, m.State, m.PricePerQuintal,
		m.PriceChange, m.MinPrice, m.MaxPrice, m.Date, m.Source, m.CreatedAt, m.UpdatedAt)
	return err
}

// GetRates returns the newest rates first. Crop and market filters match
// case-insensitive substrings; state must match exactly.
func (r *marketRepository) GetRates(ctx context.Context, f models.MarketFilter) ([]models.MarketRate, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.CropName != "" {
		where = append(where, `LOWER(crop_name) LIKE ?`)
		args = append(args, containsPattern(f.CropName))
	}
	if f.MarketLocation != "" {
		where = append(where, `LOWER(market_location) LIKE ?`)
		args = append(args, containsPattern(f.MarketLocation))
	}
	if f.State != "" {
		where = append(where, `state = ?`)
		args = append(args, f.State)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + marketColumns + ` FROM market_rates`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC LIMIT ?`
	args = append(args, limit)

	rates := []models.MarketRate{}
	if err := r.db.SelectContext(ctx, &rates, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rates, nil
}

// GetPriceHistory returns a crop's rates on or after since, oldest first.
func (r *marketRepository) GetPriceHistory(ctx context.Context, cropName, since string) ([]models.MarketRate, error) {
	rates := []models.MarketRate{}
	query := r.db.Rebind(`SELECT ` + marketColumns + ` FROM market_rates
		WHERE crop_name = ? AND date >= ? ORDER BY date ASC`)
	if err := r.db.SelectContext(ctx, &rates, query, cropName, since); err != nil {
		return nil, err
	}
	return rates, nil
}

func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
