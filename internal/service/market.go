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

const defaultHistoryDays = 30

type MarketService struct {
	repo   repository.MarketRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewMarketService(repo repository.MarketRepository, logger *zap.Logger) *MarketService {
	return &MarketService{repo: repo, now: time.Now, logger: logger}
}

func (s *MarketService) Rates(ctx context.Context, f models.MarketFilter) ([]models.MarketRate, error) {
	return s.repo.GetRates(ctx, f)
}

// PriceHistory returns the crop's rates for the last days days, oldest
// first. days <= 0 selects 30.
func (s *MarketService) PriceHistory(ctx context.Context, crop string, days int) ([]models.MarketRate, error) {
	if strings.TrimSpace(crop) == "" {
		return nil, apperr.Invalid("crop", "crop is required")
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	since := s.now().AddDate(0, 0, -days).Format(dateLayout)
	return s.repo.GetPriceHistory(ctx, crop, since)
}

func (s *MarketService) AddRate(ctx context.Context, rate *models.MarketRate) error {
	if rate.CropName == "" {
		return apperr.Invalid("crop_name", "crop_name is required")
	}
	if rate.MarketLocation == "" {
		return apperr.Invalid("market_location", "market_location is required")
	}
	if rate.PricePerQuintal < 0 {
		return apperr.Invalid("price_per_quintal", "price_per_quintal cannot be negative")
	}
	if rate.Date != "" {
		if _, err := time.Parse(dateLayout, rate.Date); err != nil {
			return apperr.Invalid("date", "date must be YYYY-MM-DD")
		}
	}
	return s.repo.CreateRate(ctx, rate)
}
