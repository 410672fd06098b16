package normalizer

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return verr.Field
}

func TestChatRequiresMessages(t *testing.T) {
	for name, msgs := range map[string][]models.ChatMessage{
		"nil":   nil,
		"empty": {},
	} {
		_, err := Chat(models.ChatRequest{Messages: msgs, Language: "hi"}, "hi")
		if got := fieldOf(t, err); got != "messages" {
			t.Errorf("%s: field = %q, want messages", name, got)
		}
	}
}

func TestChatRequiresTrailingUserTurn(t *testing.T) {
	_, err := Chat(models.ChatRequest{Messages: []models.ChatMessage{
		{Role: models.RoleUser, Content: "When to sow wheat?"},
		{Role: models.RoleAssistant, Content: "November."},
	}}, "en")
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) || verr.Message != "Last message must be from the user" {
		t.Fatalf("expected trailing assistant turn to be rejected, got %v", err)
	}
}

func TestChatBuildsLanguageInstruction(t *testing.T) {
	p, err := Chat(models.ChatRequest{
		Messages: []models.ChatMessage{{Role: "user", Content: "मेरी फसल में कीड़े हैं"}},
	}, "hi")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if p.Language.Code != "hi" {
		t.Errorf("language = %q, want hi", p.Language.Code)
	}
	if !strings.HasPrefix(p.System, PersonaPrompt) {
		t.Error("system prompt does not start with the persona")
	}
	if !strings.Contains(p.System, "You MUST respond ENTIRELY in Hindi (हिंदी)") {
		t.Errorf("system prompt missing language directive: %q", p.System[len(PersonaPrompt):])
	}
}

func TestChatUnknownLanguageUsesEnglish(t *testing.T) {
	p, err := Chat(models.ChatRequest{
		Messages: []models.ChatMessage{{Role: models.RoleUser, Content: "hello"}},
		Language: "de",
	}, "hi")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if p.Language.Name != "English" {
		t.Errorf("language = %q, want English", p.Language.Name)
	}
}

func TestParseDataURI(t *testing.T) {
	img, err := ParseDataURI(pngDataURI())
	if err != nil {
		t.Fatalf("ParseDataURI: %v", err)
	}
	if img.MIMEType != "image/png" || len(img.Data) != len(pngBytes) {
		t.Errorf("got %s with %d bytes", img.MIMEType, len(img.Data))
	}
}

func TestParseDataURIRejects(t *testing.T) {
	cases := map[string]string{
		"bare base64":  base64.StdEncoding.EncodeToString(pngBytes),
		"bad base64":   "data:image/png;base64,@@@@",
		"not an image": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world, plain text")),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseDataURI(in); fieldOf(t, err) != "image" {
				t.Errorf("unexpected field for %s", name)
			}
		})
	}
}

func TestParseImageAcceptsBareBase64(t *testing.T) {
	img, err := ParseImage(base64.StdEncoding.EncodeToString(pngBytes))
	if err != nil {
		t.Fatalf("ParseImage: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("mime = %q", img.MIMEType)
	}
	if !strings.HasPrefix(img.DataURL(), "data:image/png;base64,") {
		t.Errorf("DataURL = %q", img.DataURL())
	}
}

func TestImageAnalysisValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   models.AnalyzeImageRequest
		field string
	}{
		{"missing image", models.AnalyzeImageRequest{Query: "q"}, "image"},
		{"missing query", models.AnalyzeImageRequest{Image: pngDataURI()}, "query"},
		{"bad format", models.AnalyzeImageRequest{Image: "not-a-uri", Query: "q"}, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImageAnalysis(tt.req, "en")
			if got := fieldOf(t, err); got != tt.field {
				t.Errorf("field = %q, want %q", got, tt.field)
			}
		})
	}
}

func TestAdvicePrompt(t *testing.T) {
	in, err := ImageAnalysis(models.AnalyzeImageRequest{Image: pngDataURI(), Query: "what is this?", Language: "ta"}, "en")
	if err != nil {
		t.Fatalf("ImageAnalysis: %v", err)
	}

	specific := models.ClassificationResult{Success: true, Disease: "Tomato Late Blight", Confidence: "91.20"}
	sys, user := AdvicePrompt(specific, in)
	if !strings.Contains(sys, `"Tomato Late Blight" (Confidence: 91.20%)`) {
		t.Errorf("specific system prompt = %q", sys)
	}
	if !strings.Contains(user, "Language: Tamil (தமிழ்)") {
		t.Errorf("user prompt = %q", user)
	}

	generic := models.ClassificationResult{Success: true, Disease: "Potential Plant Issue"}
	sys, _ = AdvicePrompt(generic, in)
	if !strings.Contains(sys, "inconclusive") {
		t.Errorf("generic system prompt = %q", sys)
	}
}

func TestSearchPrompts(t *testing.T) {
	now := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

	if _, err := SchemeDetails(" ", "hi", now); fieldOf(t, err) != "schemeName" {
		t.Error("blank scheme name accepted")
	}
	p, err := SchemeDetails("PM-KISAN", "hi", now)
	if err != nil {
		t.Fatalf("SchemeDetails: %v", err)
	}
	if !strings.Contains(p.Query, `"PM-KISAN" government scheme for Indian farmers in 2026-2027`) {
		t.Errorf("query = %q", p.Query)
	}
	if !strings.HasSuffix(p.System, "Respond in Hindi.") {
		t.Errorf("system = %q", p.System)
	}

	if n := News("xx", now); !strings.Contains(n.Query, "March 2026") || !strings.Contains(n.System, "Respond in English language") {
		t.Errorf("news prompt = %+v", n)
	}

	m, err := MarketPrices("Wheat", "", "hi", now)
	if err != nil {
		t.Fatalf("MarketPrices: %v", err)
	}
	if !strings.Contains(m.Query, "Wheat in India, India") {
		t.Errorf("market query = %q", m.Query)
	}
}

func TestAgentQuery(t *testing.T) {
	got, err := AgentQuery(models.AgentQuery{Message: "When to sow wheat?"})
	if err != nil {
		t.Fatalf("AgentQuery: %v", err)
	}
	want := "You are Kisaan Mitra, an expert farming assistant. Respond helpfully and accurately to farmers. Respond in hi. User asks: When to sow wheat?"
	if got != want {
		t.Errorf("got %q", got)
	}
	if _, err := AgentQuery(models.AgentQuery{}); fieldOf(t, err) != "message" {
		t.Error("empty message accepted")
	}
}
