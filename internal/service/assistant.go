package service

import (
	"context"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/language"
	"github.com/Vidhi35/Kisan-Mitra/internal/llm"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/normalizer"

	"go.uber.org/zap"
)

// AssistantService answers farmer conversations in the requested language.
type AssistantService struct {
	primary         ChatProvider
	secondary       ChatProvider
	primaryLimits   Limits
	secondaryLimits Limits
	defaultLang     string
	logger          *zap.Logger
}

// AssistantConfig wires the chat providers. Secondary may be nil.
type AssistantConfig struct {
	Primary         ChatProvider
	Secondary       ChatProvider
	PrimaryLimits   Limits
	SecondaryLimits Limits
	DefaultLanguage string
}

func NewAssistantService(cfg AssistantConfig, logger *zap.Logger) *AssistantService {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "hi"
	}
	return &AssistantService{
		primary:         cfg.Primary,
		secondary:       cfg.Secondary,
		primaryLimits:   cfg.PrimaryLimits,
		secondaryLimits: cfg.SecondaryLimits,
		defaultLang:     cfg.DefaultLanguage,
		logger:          logger,
	}
}

// Chat runs the conversation through the primary model, then the fallback.
// When both fail the error is an *apperr.ExhaustionError carrying the
// localized apology.
func (s *AssistantService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatReply, error) {
	prompt, err := normalizer.Chat(req, s.defaultLang)
	if err != nil {
		return nil, err
	}
	code := req.Language
	if code == "" {
		code = s.defaultLang
	}

	chain := llm.Fallback[string]{
		Primary: s.chatStep("gemini", s.primary, s.primaryLimits, prompt),
		Logger:  s.logger,
	}
	if s.secondary != nil {
		step := s.chatStep("openrouter", s.secondary, s.secondaryLimits, prompt)
		chain.Secondary = &step
	}

	out := chain.Run(ctx)
	if !out.OK() {
		return nil, out.Exhausted(language.ExhaustionMessage(code))
	}

	s.logger.Info("Assistant replied",
		zap.String("provider", out.Provider),
		zap.String("language", prompt.Language.Code),
		zap.Int("history", len(prompt.Messages)))

	return &models.ChatReply{
		Success:   true,
		Message:   out.Value,
		Language:  code,
		Provider:  out.Provider,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *AssistantService) chatStep(name string, p ChatProvider, lim Limits, prompt normalizer.ChatPrompt) llm.Step[string] {
	if p == nil {
		return textStep(name, lim, nil)
	}
	return textStep(name, lim, func(ctx context.Context) models.ProviderResult {
		return p.Chat(ctx, prompt.Messages, prompt.System)
	})
}
