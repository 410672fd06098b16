package service

import (
	"context"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/llm"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
)

// ChatProvider answers a conversation under a system instruction.
type ChatProvider interface {
	Chat(ctx context.Context, messages []models.ChatMessage, system string) models.ProviderResult
}

// VisionProvider answers a prompt about an image.
type VisionProvider interface {
	AnalyzeImage(ctx context.Context, image models.ImagePayload, prompt string) models.ProviderResult
}

// Completer answers a single system and user message pair.
type Completer interface {
	Complete(ctx context.Context, system, user string) models.ProviderResult
	Configured() bool
}

// Searcher answers a query from recent web sources.
type Searcher interface {
	Search(ctx context.Context, system, query string) models.ProviderResult
}

// DiseaseDetector labels a plant image. It never fails.
type DiseaseDetector interface {
	Detect(ctx context.Context, image []byte) models.ClassificationResult
}

// Limits bounds the calls made to one vendor.
type Limits struct {
	Timeout time.Duration
	Limiter *llm.RateLimiter
}

// textStep adapts a provider call to a fallback step.
func textStep(name string, lim Limits, call func(ctx context.Context) models.ProviderResult) llm.Step[string] {
	s := llm.Step[string]{Name: name, Timeout: lim.Timeout, Limiter: lim.Limiter}
	if call != nil {
		s.Call = func(ctx context.Context) (string, error) {
			return call(ctx).Unwrap(name)
		}
	}
	return s
}
