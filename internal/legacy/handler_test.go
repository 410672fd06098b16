package legacy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"go.uber.org/zap"
)

func echo(vendor string, prompts *[]string) Generator {
	return GeneratorFunc(func(_ context.Context, prompt string) models.ProviderResult {
		*prompts = append(*prompts, prompt)
		return models.Succeeded(vendor, vendor+" says hi")
	})
}

func TestAgentQuery(t *testing.T) {
	var prompts []string
	router := NewRouter(NewHandler(map[string]Generator{
		"gemini": echo("Gemini", &prompts),
		"groq":   echo("Groq", &prompts),
		"openrouter": GeneratorFunc(func(context.Context, string) models.ProviderResult {
			return models.Failed("OpenRouter API key not configured")
		}),
	}, zap.NewNop()), nil)

	tests := []struct {
		name   string
		body   string
		status int
		key    string
		want   string
	}{
		{"default model", `{"message":"Which fertilizer for rice?"}`, http.StatusOK, "response", "Gemini says hi"},
		{"groq", `{"message":"hi","model":"groq","language":"en"}`, http.StatusOK, "response", "Groq says hi"},
		{"vendor failure", `{"message":"hi","model":"openrouter"}`, http.StatusInternalServerError, "error", "OpenRouter API key not configured"},
		{"unknown model", `{"message":"hi","model":"bedrock"}`, http.StatusBadRequest, "error", "Unsupported model: bedrock"},
		{"missing message", `{"model":"gemini"}`, http.StatusBadRequest, "error", "Message is required"},
		{"bad json", `{`, http.StatusBadRequest, "error", "invalid json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/agent/query", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var out map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if w.Code != tt.status || out[tt.key] != tt.want {
				t.Errorf("got %d %v, want %d %s=%q", w.Code, out, tt.status, tt.key, tt.want)
			}
		})
	}

	want := "You are Kisaan Mitra, an expert farming assistant. Respond helpfully and accurately to farmers. Respond in hi. User asks: Which fertilizer for rice?"
	if len(prompts) == 0 || prompts[0] != want {
		t.Errorf("unexpected prompt %q", prompts)
	}
}

func TestAgentQueryGeminiEmpty(t *testing.T) {
	h := NewHandler(map[string]Generator{
		"gemini": GeneratorFunc(func(context.Context, string) models.ProviderResult {
			return models.Succeeded("Gemini", "")
		}),
	}, zap.NewNop())

	for _, body := range []string{`{"message":"hi"}`, `{"message":"hi","model":"Gemini"}`, `{"message":"hi","model":" GEMINI "}`} {
		w := httptest.NewRecorder()
		h.HandleAgentQuery(w, httptest.NewRequest(http.MethodPost, "/api/agent/query", strings.NewReader(body)))

		var out map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if w.Code != http.StatusOK || out["response"] != GeminiEmptyReply {
			t.Errorf("%s: got %d %v", body, w.Code, out)
		}
	}
}
