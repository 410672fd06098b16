package gemini

import (
	"context"
	"testing"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

func TestUnconfiguredClientFailsWithoutNetwork(t *testing.T) {
	c, err := NewClient(context.Background(), Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.Configured() {
		t.Fatal("client without key reports configured")
	}
	if info := c.GetModelInfo(); info["model"] != "gemini-1.5-flash" || info["provider"] != "gemini" {
		t.Errorf("unexpected model info %v", info)
	}

	res := c.Chat(context.Background(), []models.ChatMessage{{Role: "user", Content: "hi"}}, "")
	if res.Success || res.Error != "Gemini API key not configured" {
		t.Errorf("Chat = %+v", res)
	}
	res = c.AnalyzeImage(context.Background(), models.ImagePayload{}, "prompt")
	if res.Success || res.Error != "Gemini API key not configured" {
		t.Errorf("AnalyzeImage = %+v", res)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestGeminiRole(t *testing.T) {
	if geminiRole("assistant") != "model" || geminiRole("user") != "user" || geminiRole("other") != "user" {
		t.Error("unexpected role mapping")
	}
}

func TestFirstText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Leaf "), genai.Text("blight")}},
		}},
	}
	if got := firstText(resp); got != "Leaf blight" {
		t.Errorf("firstText = %q", got)
	}
	if firstText(&genai.GenerateContentResponse{}) != "" || firstText(nil) != "" {
		t.Error("empty responses should yield no text")
	}
	if res := models.Succeeded(vendor, firstText(nil)); res.Success || res.Error != "No response from Gemini" {
		t.Errorf("empty text result = %+v", res)
	}
}
