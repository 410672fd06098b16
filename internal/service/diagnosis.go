package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/diagnosis"
	"github.com/Vidhi35/Kisan-Mitra/internal/language"
	"github.com/Vidhi35/Kisan-Mitra/internal/llm"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/normalizer"
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"

	"go.uber.org/zap"
)

// DiagnosisFailedMessage is returned when no vision model produced output.
const DiagnosisFailedMessage = "AI analysis failed. Please try again."

// ImageStore persists uploaded images.
type ImageStore interface {
	SaveImage(ctx context.Context, kind string, data []byte) (models.Upload, error)
}

// DiagnosisService diagnoses plant images and keeps the diagnosis history.
type DiagnosisService struct {
	primary         VisionProvider
	secondary       VisionProvider
	primaryLimits   Limits
	secondaryLimits Limits
	repo            repository.DiagnosisRepository
	images          ImageStore
	now             func() time.Time
	logger          *zap.Logger
}

// DiagnosisConfig wires the vision providers and storage. Images may be nil.
type DiagnosisConfig struct {
	Primary         VisionProvider
	Secondary       VisionProvider
	PrimaryLimits   Limits
	SecondaryLimits Limits
	Repo            repository.DiagnosisRepository
	Images          ImageStore
}

func NewDiagnosisService(cfg DiagnosisConfig, logger *zap.Logger) *DiagnosisService {
	return &DiagnosisService{
		primary:         cfg.Primary,
		secondary:       cfg.Secondary,
		primaryLimits:   cfg.PrimaryLimits,
		secondaryLimits: cfg.SecondaryLimits,
		repo:            cfg.Repo,
		images:          cfg.Images,
		now:             time.Now,
		logger:          logger,
	}
}

// Diagnose asks the vision models about the image, turns the answer into a
// record and stores it. Storage failures are logged and the result carries
// a temporary ID instead.
func (s *DiagnosisService) Diagnose(ctx context.Context, userID string, req models.DiagnoseRequest) (*models.DiagnosisResult, error) {
	in, err := normalizer.Diagnosis(req)
	if err != nil {
		return nil, err
	}

	chain := llm.Fallback[string]{
		Primary: s.visionStep("gemini", s.primary, s.primaryLimits, in),
		Logger:  s.logger,
	}
	if s.secondary != nil {
		step := s.visionStep("openrouter", s.secondary, s.secondaryLimits, in)
		chain.Secondary = &step
	}

	out := chain.Run(ctx)
	if !out.OK() {
		msg := DiagnosisFailedMessage
		if in.Language != "" {
			msg = language.ExhaustionMessage(in.Language)
		}
		return nil, out.Exhausted(msg)
	}

	rec, degraded := diagnosis.Process(out.Value)
	if degraded {
		s.logger.Warn("Failed to parse AI response, using fallback record", zap.String("provider", out.Provider))
	}

	now := s.now()
	result := &models.DiagnosisResult{
		DiagnosisRecord: rec,
		ImageURL:        req.Image,
		Provider:        out.Provider,
		Degraded:        degraded,
		Timestamp:       now.UTC(),
	}

	storedURL := previewURL(req.Image)
	if s.images != nil {
		if up, err := s.images.SaveImage(ctx, "diagnoses", in.Image.Data); err != nil {
			s.logger.Warn("Failed to store diagnosis image", zap.Error(err))
		} else {
			storedURL = up.URL
			result.ImageURL = up.URL
		}
	}

	result.ID = s.persist(ctx, userID, storedURL, rec, now)
	return result, nil
}

func (s *DiagnosisService) persist(ctx context.Context, userID, imageURL string, rec models.DiagnosisRecord, now time.Time) string {
	temp := fmt.Sprintf("temp-%d", now.UnixMilli())
	if s.repo == nil {
		return temp
	}
	confidence := diagnosis.StoredConfidence(rec.Confidence)
	row := &models.PlantDiagnosis{
		UserID:                  userID,
		ImageURL:                imageURL,
		DiseaseName:             &rec.DiseaseName,
		Confidence:              &confidence,
		Symptoms:                &rec.Symptoms,
		TreatmentRecommendation: &rec.TreatmentRecommendation,
		Severity:                &rec.Severity,
		CropType:                &rec.CropType,
		DiagnosedAt:             now.UTC(),
	}
	if err := s.repo.CreateDiagnosis(ctx, row); err != nil {
		s.logger.Error("Database error while saving diagnosis", zap.Error(err))
		return temp
	}
	return row.ID
}

func (s *DiagnosisService) visionStep(name string, p VisionProvider, lim Limits, in normalizer.DiagnosisInput) llm.Step[string] {
	if p == nil {
		return textStep(name, lim, nil)
	}
	return textStep(name, lim, func(ctx context.Context) models.ProviderResult {
		return p.AnalyzeImage(ctx, in.Image, in.Prompt)
	})
}

// ListDiagnoses returns the user's latest diagnoses.
func (s *DiagnosisService) ListDiagnoses(ctx context.Context, userID string, limit int) ([]models.PlantDiagnosis, error) {
	return s.repo.GetDiagnoses(ctx, userID, limit)
}

// GetDiagnosis returns one stored diagnosis.
func (s *DiagnosisService) GetDiagnosis(ctx context.Context, id string) (*models.PlantDiagnosis, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repo.GetDiagnosisByID(ctx, id)
}

// CreateDiagnosis stores a diagnosis produced elsewhere, e.g. by the client.
func (s *DiagnosisService) CreateDiagnosis(ctx context.Context, userID string, req models.CreateDiagnosisRequest) (*models.PlantDiagnosis, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, apperr.Invalid("image_url", "image_url is required")
	}
	if req.Severity != nil {
		switch *req.Severity {
		case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		default:
			return nil, apperr.Invalid("severity", "severity must be one of low, medium, high, critical")
		}
	}
	row := &models.PlantDiagnosis{
		UserID:                  userID,
		ImageURL:                req.ImageURL,
		DiseaseName:             req.DiseaseName,
		Confidence:              req.Confidence,
		Symptoms:                req.Symptoms,
		TreatmentRecommendation: req.TreatmentRecommendation,
		Severity:                req.Severity,
		CropType:                req.CropType,
	}
	if err := s.repo.CreateDiagnosis(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create diagnosis: %w", err)
	}
	return row, nil
}

// previewURL keeps the first 100 bytes of an inline image for storage.
func previewURL(image string) string {
	if len(image) <= 100 {
		return image
	}
	return image[:100] + "..."
}
