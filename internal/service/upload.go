package service

import (
	"context"
	"fmt"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"go.uber.org/zap"
)

// FileStore persists named uploads.
type FileStore interface {
	Save(ctx context.Context, kind, name string, data []byte) (models.Upload, error)
}

type UploadService struct {
	store  FileStore
	logger *zap.Logger
}

func NewUploadService(store FileStore, logger *zap.Logger) *UploadService {
	return &UploadService{store: store, logger: logger}
}

func (s *UploadService) Upload(ctx context.Context, kind, name string, data []byte) (models.Upload, error) {
	if len(data) == 0 {
		return models.Upload{}, apperr.Invalid("file", "No file provided")
	}
	up, err := s.store.Save(ctx, kind, name, data)
	if err != nil {
		return models.Upload{}, fmt.Errorf("failed to upload file: %w", err)
	}
	s.logger.Info("File uploaded", zap.String("path", up.Path), zap.Int("size", len(data)))
	return up, nil
}
