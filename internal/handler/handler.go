package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/middleware"
	"github.com/Vidhi35/Kisan-Mitra/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services groups the business logic the handlers delegate to.
type Services struct {
	Assistant *service.AssistantService
	Diagnosis *service.DiagnosisService
	Analysis  *service.AnalysisService
	Advisory  *service.AdvisoryService
	Community *service.CommunityService
	Records   *service.RecordService
	Profile   *service.ProfileService
	Market    *service.MarketService
	Weather   *service.WeatherService
	Health    *service.HealthService
	Upload    *service.UploadService
}

// Handler handles HTTP requests
type Handler struct {
	svc    Services
	logger *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(svc Services, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine, defaultUserID string) {
	api := r.Group("/api")
	api.Use(middleware.User(defaultUserID))
	{
		// AI features
		api.POST("/assistant", h.Assistant)
		api.POST("/diagnose", h.Diagnose)
		api.POST("/analyze-image", h.AnalyzeImage)
		api.POST("/schemes/query", h.QueryScheme)
		api.GET("/schemes/list", h.ListSchemes)
		api.GET("/news", h.News)
		api.GET("/market/insight", h.MarketInsight)

		// Diagnosis history
		api.GET("/diagnoses", h.ListDiagnoses)
		api.POST("/diagnoses", h.CreateDiagnosis)
		api.GET("/diagnoses/:id", h.GetDiagnosis)

		// Community
		api.GET("/community/posts", h.ListPosts)
		api.POST("/community/posts", h.CreatePost)
		api.GET("/community/posts/:id", h.GetPost)
		api.POST("/community/posts/:id/like", h.LikePost)
		api.DELETE("/community/posts/:id/like", h.UnlikePost)
		api.GET("/community/posts/:id/comments", h.ListComments)
		api.POST("/community/posts/:id/comments", h.AddComment)

		// Market
		api.GET("/market/rates", h.MarketRates)
		api.GET("/market/rates/:crop/history", h.PriceHistory)

		// Farm records
		api.GET("/records", h.ListRecords)
		api.POST("/records", h.CreateRecord)
		api.GET("/records/summary", h.RecordSummary)
		api.PATCH("/records/:id", h.UpdateRecord)
		api.DELETE("/records/:id", h.DeleteRecord)

		// Profile
		api.GET("/profile", h.GetProfile)
		api.PATCH("/profile", h.UpdateProfile)
		api.GET("/profile/stats", h.ProfileStats)

		// Weather
		api.GET("/weather", h.Weather)
		api.GET("/weather/alerts", h.WeatherAlerts)
		api.POST("/weather/alerts", h.CreateWeatherAlert)

		api.POST("/upload", h.Upload)
		api.GET("/health", h.HealthCheck)
	}
}

// fail maps a service error to a status code and writes {"error": ...}
// merged with extra.
func (h *Handler) fail(c *gin.Context, err error, extra gin.H) {
	status, msg := http.StatusInternalServerError, "Internal server error"

	var (
		verr *apperr.ValidationError
		cerr *apperr.ConflictError
		eerr *apperr.ExhaustionError
	)
	switch {
	case errors.As(err, &verr):
		status, msg = http.StatusBadRequest, verr.Error()
	case errors.Is(err, apperr.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.As(err, &cerr):
		status, msg = http.StatusConflict, cerr.Message
	case errors.Is(err, apperr.ErrConflict):
		status, msg = http.StatusConflict, "Conflict"
	case errors.As(err, &eerr):
		msg = eerr.Message
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	body := gin.H{"error": msg}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// queryInt reads a non-negative integer query parameter, returning def when
// it is absent or malformed.
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
