package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const vendor = "Gemini"

// Client wraps the Gemini API client
type Client struct {
	client    *genai.Client
	logger    *zap.Logger
	modelName string
}

// Config for Gemini client
type Config struct {
	APIKey    string
	ModelName string // Default: "gemini-1.5-flash"
}

// NewClient creates a new Gemini client. An empty API key yields a client
// whose calls fail without touching the network.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.ModelName == "" {
		cfg.ModelName = "gemini-1.5-flash"
	}

	c := &Client{logger: logger, modelName: cfg.ModelName}
	if cfg.APIKey == "" {
		logger.Warn("Gemini API key not configured, adapter disabled")
		return c, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.client = client

	logger.Info("Gemini client initialized", zap.String("model", cfg.ModelName))
	return c, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.client != nil }

// Chat continues a conversation. Assistant turns are sent with the "model"
// role; the last turn is the user message being answered, which
// normalizer.Chat guarantees.
func (c *Client) Chat(ctx context.Context, messages []models.ChatMessage, system string) models.ProviderResult {
	if c.client == nil {
		return models.Failed("Gemini API key not configured")
	}
	if len(messages) == 0 {
		return models.Failed("no messages to send to Gemini")
	}

	model := c.client.GenerativeModel(c.modelName)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.7),
		TopK:            genai.Ptr[int32](40),
		TopP:            genai.Ptr[float32](0.95),
		MaxOutputTokens: genai.Ptr[int32](1024),
	}

	session := model.StartChat()
	history := messages[:len(messages)-1]
	session.History = make([]*genai.Content, 0, len(history))
	for _, m := range history {
		session.History = append(session.History, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	last := messages[len(messages)-1]
	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		c.logger.Error("Gemini chat error", zap.Error(err))
		return models.Failed(vendorMessage(err, "Gemini chat failed"))
	}
	return models.Succeeded(vendor, firstText(resp))
}

// AnalyzeImage sends the prompt with an inline image.
func (c *Client) AnalyzeImage(ctx context.Context, image models.ImagePayload, prompt string) models.ProviderResult {
	if c.client == nil {
		return models.Failed("Gemini API key not configured")
	}

	model := c.client.GenerativeModel(c.modelName)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.4),
		TopK:            genai.Ptr[int32](32),
		TopP:            genai.Ptr[float32](1),
		MaxOutputTokens: genai.Ptr[int32](2048),
	}

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.Blob{MIMEType: image.MIMEType, Data: image.Data},
	)
	if err != nil {
		c.logger.Error("Gemini vision error", zap.Error(err))
		return models.Failed(vendorMessage(err, "Gemini API failed"))
	}
	return models.Succeeded(vendor, firstText(resp))
}

// Generate answers a single flat prompt with the given model, or the
// client's default model when modelName is empty.
func (c *Client) Generate(ctx context.Context, modelName, prompt string) models.ProviderResult {
	if c.client == nil {
		return models.Failed("Gemini API key not configured")
	}
	if modelName == "" {
		modelName = c.modelName
	}
	resp, err := c.client.GenerativeModel(modelName).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error("Gemini API error", zap.Error(err), zap.String("model", modelName))
		return models.Failed(vendorMessage(err, "Gemini API failed"))
	}
	return models.Succeeded(vendor, firstText(resp))
}

// GetModelInfo describes the model for the health report.
func (c *Client) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":   "gemini",
		"model":      c.modelName,
		"configured": c.Configured(),
	}
}

func geminiRole(role string) string {
	if role == models.RoleAssistant {
		return "model"
	}
	return "user"
}

// firstText returns the text of the first candidate's parts.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

func vendorMessage(err error, fallback string) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
