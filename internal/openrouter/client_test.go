package openrouter

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

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, captured *capturedRequest, headers *http.Header, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
}

func TestChatPrependsSystemAndSetsAttribution(t *testing.T) {
	var req capturedRequest
	var hdr http.Header
	srv := newServer(t, &req, &hdr, `{"choices":[{"message":{"role":"assistant","content":"Namaste"}}]}`)
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Referer: "https://plantdoctor.app", Title: "PlantDoctor Kisaan Mitra"}, zap.NewNop())
	res := c.Chat(context.Background(), []models.ChatMessage{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi"},
		{Role: models.RoleUser, Content: "rice tips?"},
	}, "persona")

	if !res.Success || res.Text != "Namaste" {
		t.Fatalf("unexpected result %+v", res)
	}
	if req.Model != "amazon/nova-2-lite-v1:free" {
		t.Errorf("unexpected model %q", req.Model)
	}
	if len(req.Messages) != 4 || req.Messages[0].Role != "system" || req.Messages[2].Role != "assistant" {
		t.Errorf("unexpected messages %+v", req.Messages)
	}
	if hdr.Get("HTTP-Referer") != "https://plantdoctor.app" || hdr.Get("X-Title") != "PlantDoctor Kisaan Mitra" {
		t.Errorf("attribution headers missing: %v", hdr)
	}
}

func TestAnalyzeImageSendsDataURI(t *testing.T) {
	var req capturedRequest
	var hdr http.Header
	srv := newServer(t, &req, &hdr, `{"choices":[{"message":{"content":""}}]}`)
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, zap.NewNop())
	res := c.AnalyzeImage(context.Background(), models.ImagePayload{MIMEType: "image/png", Data: []byte{1, 2, 3}}, "describe")

	if res.Success || res.Error != "No response from vision model" {
		t.Fatalf("unexpected result %+v", res)
	}
	if req.Model != "google/gemini-2.0-flash-exp:free" {
		t.Errorf("unexpected model %q", req.Model)
	}
	if len(req.Messages) != 1 || !strings.Contains(string(req.Messages[0].Content), "data:image/png;base64,AQID") {
		t.Errorf("image part missing: %+v", req.Messages)
	}
}

func TestVendorErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"Insufficient credits","code":402}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, zap.NewNop())
	res := c.Chat(context.Background(), []models.ChatMessage{{Role: models.RoleUser, Content: "x"}}, "")
	if res.Success || res.Error != "Insufficient credits" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestUnconfigured(t *testing.T) {
	c := NewClient(Config{}, zap.NewNop())
	if c.Configured() {
		t.Fatal("expected unconfigured client")
	}
	res := c.Generate(context.Background(), "x")
	if res.Error != "OpenRouter API key not configured" {
		t.Fatalf("unexpected result %+v", res)
	}
}
