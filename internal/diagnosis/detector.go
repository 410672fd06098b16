package diagnosis

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/huggingface"
	"github.com/Vidhi35/Kisan-Mitra/internal/llm"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"go.uber.org/zap"
)

// Classifier labels raw image bytes with a hosted model.
type Classifier interface {
	Classify(ctx context.Context, modelURL string, data []byte) ([]huggingface.Prediction, error)
}

// DetectorConfig selects the models and bounds each attempt.
type DetectorConfig struct {
	PrimaryModel     string
	AlternativeModel string
	Timeout          time.Duration
	Limiter          *llm.RateLimiter
}

// Detector runs the primary classifier, then the alternative one, and
// finally settles on a generic result so callers always get a label.
type Detector struct {
	classifier Classifier
	cfg        DetectorConfig
	logger     *zap.Logger
}

// NewDetector creates a detector over classifier.
func NewDetector(classifier Classifier, cfg DetectorConfig, logger *zap.Logger) *Detector {
	if cfg.PrimaryModel == "" {
		cfg.PrimaryModel = huggingface.PlantDiseaseModel
	}
	if cfg.AlternativeModel == "" {
		cfg.AlternativeModel = huggingface.BeansModel
	}
	return &Detector{classifier: classifier, cfg: cfg, logger: logger}
}

// Fallback is the result reported when neither model produced a label.
func Fallback() models.ClassificationResult {
	return models.ClassificationResult{
		Success:    true,
		Disease:    "Potential Plant Issue",
		Confidence: "Low (Detection Failed)",
		Severity:   "Unknown",
		RawLabel:   "fallback_issue",
		Note:       "Automatic detection failed, switching to manual analysis mode.",
	}
}

// Detect classifies image. It never fails.
func (d *Detector) Detect(ctx context.Context, image []byte) models.ClassificationResult {
	chain := llm.Fallback[models.ClassificationResult]{
		Primary: llm.Step[models.ClassificationResult]{
			Name:    "mobilenet",
			Timeout: d.cfg.Timeout,
			Limiter: d.cfg.Limiter,
			Call: func(ctx context.Context) (models.ClassificationResult, error) {
				top, err := d.top(ctx, d.cfg.PrimaryModel, image)
				if err != nil {
					return models.ClassificationResult{}, err
				}
				info := LookupLabel(top.Label)
				return models.ClassificationResult{
					Success:    true,
					Disease:    info.Name,
					Score:      top.Score,
					Confidence: FormatConfidence(top.Score),
					Severity:   info.Severity,
					RawLabel:   top.Label,
				}, nil
			},
		},
		Secondary: &llm.Step[models.ClassificationResult]{
			Name:    "vit-beans",
			Timeout: d.cfg.Timeout,
			Limiter: d.cfg.Limiter,
			Call: func(ctx context.Context) (models.ClassificationResult, error) {
				top, err := d.top(ctx, d.cfg.AlternativeModel, image)
				if err != nil {
					return models.ClassificationResult{}, err
				}
				return models.ClassificationResult{
					Success:    true,
					Disease:    top.Label,
					Score:      top.Score,
					Confidence: FormatConfidence(top.Score),
					Severity:   "Unknown",
					RawLabel:   top.Label,
					Note:       "Using alternative detection model",
				}, nil
			},
		},
		Logger: d.logger,
	}

	out := chain.Run(ctx)
	if !out.OK() {
		d.logger.Info("Returning generic fallback detection")
		return Fallback()
	}
	d.logger.Debug("Disease detected",
		zap.String("model", out.Provider),
		zap.String("label", out.Value.RawLabel),
		zap.String("confidence", out.Value.Confidence))
	return out.Value
}

func (d *Detector) top(ctx context.Context, model string, image []byte) (huggingface.Prediction, error) {
	preds, err := d.classifier.Classify(ctx, model, image)
	if err != nil {
		return huggingface.Prediction{}, err
	}
	if len(preds) == 0 {
		return huggingface.Prediction{}, huggingface.ErrNoPredictions
	}
	return preds[0], nil
}

// FormatConfidence renders a 0-1 score as a percentage with two decimals.
func FormatConfidence(score float64) string {
	return strconv.FormatFloat(math.Round(score*10000)/100, 'f', 2, 64)
}
