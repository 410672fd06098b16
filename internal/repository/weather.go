package repository

import (
	"context"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type WeatherRepository interface {
	CreateAlert(ctx context.Context, alert *models.WeatherAlert) error
	GetActiveAlerts(ctx context.Context, location string) ([]models.WeatherAlert, error)
}

type weatherRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewWeatherRepository(db *sqlx.DB, logger *zap.Logger) WeatherRepository {
	return &weatherRepository{db: db, logger: logger}
}

func (r *weatherRepository) CreateAlert(ctx context.Context, a *models.WeatherAlert) error {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	query := r.db.Rebind(`INSERT INTO weather_alerts
		(id, location, alert_type, severity, title, description, start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Location, a.AlertType, a.Severity, a.Title, a.Description,
		a.StartDate, a.EndDate, a.IsActive, a.CreatedAt)
	return err
}

// GetActiveAlerts returns active alerts, most severe and most recent first.
// A non-empty location matches as a case-insensitive substring.
func (r *weatherRepository) GetActiveAlerts(ctx context.Context, location string) ([]models.WeatherAlert, error) {
	query := `SELECT id, location, alert_type, severity, title, description,
			CAST(start_date AS TEXT) AS start_date, CAST(end_date AS TEXT) AS end_date, is_active, created_at
		FROM weather_alerts WHERE is_active = ?`
	args := []interface{}{true}
	if location != "" {
		query += ` AND LOWER(location) LIKE ?`
		args = append(args, containsPattern(location))
	}
	query += ` ORDER BY severity DESC, start_date DESC`

	alerts := []models.WeatherAlert{}
	if err := r.db.SelectContext(ctx, &alerts, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return alerts, nil
}
