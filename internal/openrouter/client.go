package openrouter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client represents an OpenRouter API client.
type Client struct {
	api         *openai.Client
	chatModel   string
	visionModel string
	logger      *zap.Logger
}

// Config holds configuration for OpenRouter client.
type Config struct {
	APIKey      string
	BaseURL     string
	ChatModel   string // e.g. "amazon/nova-2-lite-v1:free"
	VisionModel string // e.g. "google/gemini-2.0-flash-exp:free"
	Referer     string
	Title       string
	Timeout     time.Duration
}

// attribution adds the headers OpenRouter uses to identify the calling app.
type attribution struct {
	referer, title string
	next           http.RoundTripper
}

func (a attribution) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if a.referer != "" {
		req.Header.Set("HTTP-Referer", a.referer)
	}
	if a.title != "" {
		req.Header.Set("X-Title", a.title)
	}
	return a.next.RoundTrip(req)
}

// NewClient creates a new OpenRouter client. Without an API key every call
// fails immediately.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.ChatModel == "" {
		cfg.ChatModel = "amazon/nova-2-lite-v1:free"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = "google/gemini-2.0-flash-exp:free"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{chatModel: cfg.ChatModel, visionModel: cfg.VisionModel, logger: logger}
	if cfg.APIKey == "" {
		logger.Warn("OpenRouter API key not configured, adapter disabled")
		return c
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: attribution{referer: cfg.Referer, title: cfg.Title, next: http.DefaultTransport},
	}
	c.api = openai.NewClientWithConfig(apiCfg)

	logger.Info("OpenRouter client initialized",
		zap.String("chat_model", cfg.ChatModel),
		zap.String("vision_model", cfg.VisionModel))
	return c
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.api != nil }

// Chat sends the conversation with the system prompt prepended.
func (c *Client) Chat(ctx context.Context, messages []models.ChatMessage, system string) models.ProviderResult {
	if c.api == nil {
		return models.Failed("OpenRouter API key not configured")
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	text, err := c.complete(ctx, openai.ChatCompletionRequest{Model: c.chatModel, Messages: msgs})
	if err != nil {
		c.logger.Error("OpenRouter API error", zap.String("model", c.chatModel), zap.Error(err))
		return models.Failed(vendorMessage(err, "OpenRouter API failed"))
	}
	return models.Succeeded("Amazon Nova", text)
}

// AnalyzeImage sends the prompt and the image as a data URI.
func (c *Client) AnalyzeImage(ctx context.Context, image models.ImagePayload, prompt string) models.ProviderResult {
	if c.api == nil {
		return models.Failed("OpenRouter API key not configured")
	}

	req := openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: prompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: image.DataURL()}},
			},
		}},
	}

	text, err := c.complete(ctx, req)
	if err != nil {
		c.logger.Error("OpenRouter vision error", zap.String("model", c.visionModel), zap.Error(err))
		return models.Failed(vendorMessage(err, "OpenRouter vision failed"))
	}
	return models.Succeeded("vision model", text)
}

// Generate answers a single user prompt with the chat model.
func (c *Client) Generate(ctx context.Context, prompt string) models.ProviderResult {
	return c.Chat(ctx, []models.ChatMessage{{Role: models.RoleUser, Content: prompt}}, "")
}

func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// GetModelInfo describes the chat and vision models for the health report.
func (c *Client) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":     "openrouter",
		"model":        c.chatModel,
		"vision_model": c.visionModel,
		"configured":   c.Configured(),
	}
}

func vendorMessage(err error, fallback string) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fallback
	}
	if err != nil {
		return err.Error()
	}
	return fallback
}
