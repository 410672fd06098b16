// Package legacy serves the agent query endpoint of the standalone backend
// process.
package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/normalizer"

	"go.uber.org/zap"
)

// GeminiEmptyReply is sent when Gemini answers without text.
const GeminiEmptyReply = "Sorry, I could not generate a response. (Gemini Error)"

// Generator answers a flat prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) models.ProviderResult
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) models.ProviderResult

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) models.ProviderResult {
	return f(ctx, prompt)
}

type Handler struct {
	models map[string]Generator
	logger *zap.Logger
}

// NewHandler takes the generators by model name. "gemini" is the default
// model and should be present.
func NewHandler(generators map[string]Generator, logger *zap.Logger) *Handler {
	return &Handler{models: generators, logger: logger}
}

// HandleAgentQuery answers {message, model, language} with {response}.
func (h *Handler) HandleAgentQuery(w http.ResponseWriter, r *http.Request) {
	var q models.AgentQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	q.Model = strings.ToLower(strings.TrimSpace(q.Model))
	if q.Model == "" {
		q.Model = "gemini"
	}

	prompt, err := normalizer.AgentQuery(q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	gen, ok := h.models[q.Model]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unsupported model: " + q.Model})
		return
	}

	res := gen.Generate(r.Context(), prompt)
	text, err := res.Unwrap(q.Model)
	if err != nil {
		if q.Model == "gemini" && strings.HasPrefix(res.Error, "No response from") {
			writeJSON(w, http.StatusOK, map[string]string{"response": GeminiEmptyReply})
			return
		}
		h.logger.Error("Agent query error", zap.String("model", q.Model), zap.Error(err))
		msg := "Internal Server Error"
		var perr *apperr.ProviderError
		if errors.As(err, &perr) {
			msg = perr.Message
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": text})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
