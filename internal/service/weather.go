package service

import (
	"context"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"

	"go.uber.org/zap"
)

const DefaultWeatherLocation = "Mumbai"

type WeatherService struct {
	repo   repository.WeatherRepository
	logger *zap.Logger
}

func NewWeatherService(repo repository.WeatherRepository, logger *zap.Logger) *WeatherService {
	return &WeatherService{repo: repo, logger: logger}
}

// Current returns conditions for location. No weather provider is wired yet,
// so the payload is a fixed sample.
func (s *WeatherService) Current(location string) models.Weather {
	if strings.TrimSpace(location) == "" {
		location = DefaultWeatherLocation
	}
	return models.Weather{
		Location:      location,
		Temperature:   28,
		Humidity:      65,
		Condition:     "Partly Cloudy",
		WindSpeed:     12,
		Precipitation: 10,
		Forecast: []models.ForecastItem{
			{Day: "Mon", Temp: 29, Condition: "Sunny", Rain: 0},
			{Day: "Tue", Temp: 27, Condition: "Cloudy", Rain: 20},
			{Day: "Wed", Temp: 26, Condition: "Rainy", Rain: 80},
			{Day: "Thu", Temp: 28, Condition: "Partly Cloudy", Rain: 30},
			{Day: "Fri", Temp: 30, Condition: "Sunny", Rain: 0},
		},
	}
}

func (s *WeatherService) Alerts(ctx context.Context, location string) ([]models.WeatherAlert, error) {
	return s.repo.GetActiveAlerts(ctx, location)
}

func (s *WeatherService) AddAlert(ctx context.Context, a *models.WeatherAlert) error {
	if a.Location == "" {
		return apperr.Invalid("location", "location is required")
	}
	if a.Title == "" {
		return apperr.Invalid("title", "title is required")
	}
	if a.AlertType == "" {
		return apperr.Invalid("alert_type", "alert_type is required")
	}
	if a.Severity < 1 || a.Severity > 5 {
		return apperr.Invalid("severity", "severity must be between 1 and 5")
	}
	if a.StartDate == "" {
		a.StartDate = time.Now().UTC().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, a.StartDate); err != nil {
		return apperr.Invalid("start_date", "start_date must be YYYY-MM-DD")
	}
	if a.EndDate != nil {
		if _, err := time.Parse(dateLayout, *a.EndDate); err != nil {
			return apperr.Invalid("end_date", "end_date must be YYYY-MM-DD")
		}
	}
	a.IsActive = true
	return s.repo.CreateAlert(ctx, a)
}
