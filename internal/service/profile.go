package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"

	"go.uber.org/zap"
)

type ProfileService struct {
	repo   repository.ProfileRepository
	logger *zap.Logger
}

func NewProfileService(repo repository.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// GetProfile returns nil without error when the profile is missing or
// cannot be read.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Invalid("userId", "User ID required")
	}
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.logger.Warn("Profile fetch error", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, nil
	}
	return p, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.Profile, error) {
	if strings.TrimSpace(u.UserID) == "" {
		return nil, apperr.Invalid("userId", "User ID required")
	}
	if u.FarmSize != nil && *u.FarmSize < 0 {
		return nil, apperr.Invalid("farm_size", "farm_size cannot be negative")
	}
	p, err := s.repo.UpsertProfile(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) Stats(ctx context.Context, userID string) (models.ProfileStats, error) {
	if strings.TrimSpace(userID) == "" {
		return models.ProfileStats{}, apperr.Invalid("userId", "User ID required")
	}
	return s.repo.GetStats(ctx, userID), nil
}
