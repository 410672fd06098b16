// Package storage keeps uploaded plant images on the local filesystem and
// serves them under a public URL prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	unsafeKind = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// Store writes files below dir; publicPath is the URL prefix they are
// served from.
type Store struct {
	dir        string
	publicPath string
	now        func() time.Time
	logger     *zap.Logger
}

// NewStore creates dir if needed.
func NewStore(dir, publicPath string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	if publicPath == "" {
		publicPath = "/uploads"
	}
	logger.Info("Upload storage initialized", zap.String("dir", dir), zap.String("public_path", publicPath))
	return &Store{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		now:        time.Now,
		logger:     logger,
	}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// PublicPath returns the URL prefix.
func (s *Store) PublicPath() string { return s.publicPath }

// SanitizeName replaces every character outside [a-zA-Z0-9.-] with '_'.
func SanitizeName(name string) string {
	return unsafeName.ReplaceAllString(name, "_")
}

// Save stores data as <kind>/<unix ms>-<sanitized name>.
func (s *Store) Save(ctx context.Context, kind, name string, data []byte) (models.Upload, error) {
	if err := ctx.Err(); err != nil {
		return models.Upload{}, err
	}
	if kind = unsafeKind.ReplaceAllString(strings.TrimSpace(kind), "_"); kind == "" {
		kind = "general"
	}
	name = SanitizeName(filepath.Base(name))
	if name == "" || name == "." || name == ".." {
		return models.Upload{}, errors.New("invalid file name")
	}

	rel := path.Join(kind, strconv.FormatInt(s.now().UnixMilli(), 10)+"-"+name)
	if err := s.write(rel, data); err != nil {
		return models.Upload{}, err
	}

	s.logger.Debug("File stored", zap.String("path", rel), zap.Int("bytes", len(data)))
	return models.Upload{URL: s.URL(rel), Path: rel}, nil
}

// SaveImage stores a decoded image under kind with a generated name whose
// extension follows the detected type.
func (s *Store) SaveImage(ctx context.Context, kind string, data []byte) (models.Upload, error) {
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		ext = ".bin"
	}
	return s.Save(ctx, kind, uuid.NewString()+ext, data)
}

// URL returns the public URL of a stored path.
func (s *Store) URL(rel string) string {
	return s.publicPath + "/" + rel
}

func (s *Store) write(rel string, data []byte) error {
	full := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}
