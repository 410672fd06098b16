package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Client wraps the Groq API client
type Client struct {
	apiKey      string
	baseURL     string
	modelName   string
	temperature float32
	maxTokens   int
	httpClient  *http.Client
	logger      *zap.Logger
}

// Config for Groq client
type Config struct {
	APIKey      string
	BaseURL     string
	ModelName   string // Default: "llama-3.3-70b-versatile"
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// groqRequest represents the request to Groq API
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqResponse represents the response from Groq API
type groqResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a new Groq client. Without an API key every call fails
// immediately.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.ModelName == "" {
		cfg.ModelName = "llama-3.3-70b-versatile"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.APIKey == "" {
		logger.Warn("Groq API key not configured, adapter disabled")
	} else {
		logger.Info("Groq client initialized", zap.String("model", cfg.ModelName))
	}

	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Complete sends a system and a user message and returns the reply text.
func (c *Client) Complete(ctx context.Context, system, user string) models.ProviderResult {
	msgs := make([]groqMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, groqMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, groqMessage{Role: "user", Content: user})
	return c.send(ctx, msgs)
}

// Chat sends a whole conversation with the system prompt prepended.
func (c *Client) Chat(ctx context.Context, messages []models.ChatMessage, system string) models.ProviderResult {
	msgs := make([]groqMessage, 0, len(messages)+1)
	if system != "" {
		msgs = append(msgs, groqMessage{Role: "system", Content: system})
	}
	for _, m := range messages {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "assistant"
		}
		msgs = append(msgs, groqMessage{Role: role, Content: m.Content})
	}
	return c.send(ctx, msgs)
}

func (c *Client) send(ctx context.Context, msgs []groqMessage) models.ProviderResult {
	if c.apiKey == "" {
		return models.Failed("Groq API key not configured")
	}

	reqBody := groqRequest{
		Model:       c.modelName,
		Messages:    msgs,
		Stream:      false,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return models.Failed(fmt.Sprintf("failed to marshal request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return models.Failed(fmt.Sprintf("failed to create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Groq API error", zap.Error(err))
		return models.Failed(fmt.Sprintf("groq API error: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Failed(fmt.Sprintf("failed to read response: %v", err))
	}

	var groqResp groqResponse
	decodeErr := json.Unmarshal(body, &groqResp)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Groq API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		if decodeErr == nil && groqResp.Error != nil && groqResp.Error.Message != "" {
			return models.Failed(groqResp.Error.Message)
		}
		return models.Failed(fmt.Sprintf("groq API returned status %d", resp.StatusCode))
	}

	if decodeErr != nil {
		c.logger.Error("Failed to parse JSON response", zap.Error(decodeErr), zap.String("body", string(body)))
		return models.Failed(fmt.Sprintf("failed to parse response: %v", decodeErr))
	}
	if len(groqResp.Choices) == 0 {
		return models.Failed("No response from Groq")
	}

	return models.Succeeded("Groq", groqResp.Choices[0].Message.Content)
}

// GetModelInfo describes the model for the health report.
func (c *Client) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider":   "groq",
		"model":      c.modelName,
		"configured": c.Configured(),
	}
}
