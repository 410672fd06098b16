package cli

import (
	"context"
	"fmt"

	"github.com/Vidhi35/Kisan-Mitra/internal/config"
	"github.com/Vidhi35/Kisan-Mitra/internal/diagnosis"
	"github.com/Vidhi35/Kisan-Mitra/internal/gemini"
	"github.com/Vidhi35/Kisan-Mitra/internal/groq"
	"github.com/Vidhi35/Kisan-Mitra/internal/handler"
	"github.com/Vidhi35/Kisan-Mitra/internal/huggingface"
	"github.com/Vidhi35/Kisan-Mitra/internal/llm"
	"github.com/Vidhi35/Kisan-Mitra/internal/middleware"
	"github.com/Vidhi35/Kisan-Mitra/internal/openrouter"
	"github.com/Vidhi35/Kisan-Mitra/internal/perplexity"
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"
	"github.com/Vidhi35/Kisan-Mitra/internal/service"
	"github.com/Vidhi35/Kisan-Mitra/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// clients holds one adapter per model vendor.
type clients struct {
	gemini      *gemini.Client
	openrouter  *openrouter.Client
	groq        *groq.Client
	perplexity  *perplexity.Client
	huggingface *huggingface.Client
}

func newClients(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*clients, error) {
	p := cfg.Providers

	gem, err := gemini.NewClient(ctx, gemini.Config{APIKey: p.Gemini.APIKey, ModelName: p.Gemini.Model}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	if !gem.Configured() {
		logger.Warn("GEMINI_API_KEY is not set, chat and diagnosis will use the fallback provider only")
	}

	return &clients{
		gemini: gem,
		openrouter: openrouter.NewClient(openrouter.Config{
			APIKey:      p.OpenRouter.APIKey,
			BaseURL:     p.OpenRouter.BaseURL,
			ChatModel:   p.OpenRouter.Model,
			VisionModel: p.OpenRouter.VisionModel,
			Referer:     cfg.OpenRouter.Referer,
			Title:       cfg.OpenRouter.Title,
			Timeout:     p.OpenRouter.Timeout,
		}, logger),
		groq: groq.NewClient(groq.Config{
			APIKey:    p.Groq.APIKey,
			BaseURL:   p.Groq.BaseURL,
			ModelName: p.Groq.Model,
			Timeout:   p.Groq.Timeout,
		}, logger),
		perplexity: perplexity.NewClient(perplexity.Config{
			APIKey:    p.Perplexity.APIKey,
			BaseURL:   p.Perplexity.BaseURL,
			ModelName: p.Perplexity.Model,
			Timeout:   p.Perplexity.Timeout,
		}, logger),
		huggingface: huggingface.NewClient(huggingface.Config{
			Token:   p.HuggingFace.APIKey,
			Timeout: p.HuggingFace.Timeout,
		}, logger),
	}, nil
}

func (c *clients) Close() {
	c.gemini.Close()
}

func limitsFor(p config.Provider) service.Limits {
	return service.Limits{Timeout: p.Timeout, Limiter: llm.NewRateLimiter(p.RequestsPerMinute)}
}

// newRouter wires repositories, services and handlers into a gin engine.
func newRouter(cfg *config.Config, db *sqlx.DB, c *clients, logger *zap.Logger) (*gin.Engine, error) {
	store, err := storage.NewStore(cfg.Storage.Dir, cfg.Storage.PublicPath, logger)
	if err != nil {
		return nil, err
	}

	profiles := repository.NewProfileRepository(db, logger)

	// One limiter per vendor, shared by every feature calling it.
	geminiLimits := limitsFor(cfg.Providers.Gemini)
	openrouterLimits := limitsFor(cfg.Providers.OpenRouter)
	hfLimits := limitsFor(cfg.Providers.HuggingFace)

	detector := diagnosis.NewDetector(c.huggingface, diagnosis.DetectorConfig{
		PrimaryModel:     huggingface.PlantDiseaseModel,
		AlternativeModel: huggingface.BeansModel,
		Timeout:          hfLimits.Timeout,
		Limiter:          hfLimits.Limiter,
	}, logger)

	svc := handler.Services{
		Assistant: service.NewAssistantService(service.AssistantConfig{
			Primary:         c.gemini,
			Secondary:       c.openrouter,
			PrimaryLimits:   geminiLimits,
			SecondaryLimits: openrouterLimits,
			DefaultLanguage: cfg.Language.Chat,
		}, logger),
		Diagnosis: service.NewDiagnosisService(service.DiagnosisConfig{
			Primary:         c.gemini,
			Secondary:       c.openrouter,
			PrimaryLimits:   geminiLimits,
			SecondaryLimits: openrouterLimits,
			Repo:            repository.NewDiagnosisRepository(db, logger),
			Images:          store,
		}, logger),
		Analysis:  service.NewAnalysisService(detector, c.groq, limitsFor(cfg.Providers.Groq), cfg.Language.Analysis, logger),
		Advisory:  service.NewAdvisoryService(c.perplexity, limitsFor(cfg.Providers.Perplexity), logger),
		Community: service.NewCommunityService(repository.NewCommunityRepository(db, logger), logger),
		Records:   service.NewRecordService(repository.NewRecordRepository(db, logger), logger),
		Profile:   service.NewProfileService(profiles, logger),
		Market:    service.NewMarketService(repository.NewMarketRepository(db, logger), logger),
		Weather:   service.NewWeatherService(repository.NewWeatherRepository(db, logger), logger),
		Health: service.NewHealthService(
			map[string]service.Credential{"gemini": c.gemini},
			map[string]service.Credential{
				"openrouter":  c.openrouter,
				"groq":        c.groq,
				"perplexity":  c.perplexity,
				"huggingface": c.huggingface,
			},
			profiles,
		),
		Upload: service.NewUploadService(store, logger),
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.Logger(logger),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)
	router.Static(store.PublicPath(), store.Dir())

	handler.NewHandler(svc, logger).RegisterRoutes(router, cfg.User.DefaultID)
	return router, nil
}
