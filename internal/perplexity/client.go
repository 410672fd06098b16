// Package perplexity calls the search-augmented chat completions API.
package perplexity

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

const defaultBaseURL = "https://api.perplexity.ai"

// Client wraps the Perplexity API.
type Client struct {
	apiKey     string
	baseURL    string
	modelName  string
	domains    []string
	recency    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config for Perplexity client
type Config struct {
	APIKey    string
	BaseURL   string
	ModelName string   // Default: "llama-3.1-sonar-large-128k-online"
	Domains   []string // Default: gov.in, nic.in
	Recency   string   // Default: "month"
	Timeout   time.Duration
}

type searchRequest struct {
	Model               string          `json:"model"`
	Messages            []searchMessage `json:"messages"`
	MaxTokens           int             `json:"max_tokens"`
	Temperature         float32         `json:"temperature"`
	TopP                float32         `json:"top_p"`
	SearchDomainFilter  []string        `json:"search_domain_filter,omitempty"`
	ReturnCitations     bool            `json:"return_citations"`
	SearchRecencyFilter string          `json:"search_recency_filter,omitempty"`
}

type searchMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Citations []string `json:"citations"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Detail interface{} `json:"detail,omitempty"`
}

// NewClient creates a new Perplexity client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.ModelName == "" {
		cfg.ModelName = "llama-3.1-sonar-large-128k-online"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Domains == nil {
		cfg.Domains = []string{"gov.in", "nic.in"}
	}
	if cfg.Recency == "" {
		cfg.Recency = "month"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.APIKey == "" {
		logger.Warn("Perplexity API key not configured, adapter disabled")
	} else {
		logger.Info("Perplexity client initialized", zap.String("model", cfg.ModelName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		modelName:  cfg.ModelName,
		domains:    cfg.Domains,
		recency:    cfg.Recency,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Configured reports whether an API key was supplied.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Search answers query using recent web sources, restricted to the
// configured domains.
func (c *Client) Search(ctx context.Context, system, query string) models.ProviderResult {
	if c.apiKey == "" {
		return models.Failed("Perplexity API key not configured")
	}

	reqBody := searchRequest{
		Model: c.modelName,
		Messages: []searchMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: query},
		},
		MaxTokens:           1500,
		Temperature:         0.2,
		TopP:                0.9,
		SearchDomainFilter:  c.domains,
		ReturnCitations:     true,
		SearchRecencyFilter: c.recency,
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
		c.logger.Error("Perplexity API error", zap.Error(err))
		return models.Failed(fmt.Sprintf("perplexity API error: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Failed(fmt.Sprintf("failed to read response: %v", err))
	}

	var out searchResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Perplexity API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			return models.Failed(out.Error.Message)
		}
		return models.Failed(fmt.Sprintf("Perplexity API error: %d - %s", resp.StatusCode, string(body)))
	}
	if decodeErr != nil {
		return models.Failed(fmt.Sprintf("failed to parse response: %v", decodeErr))
	}
	if len(out.Choices) == 0 {
		return models.Failed("No response from Perplexity")
	}

	c.logger.Debug("Perplexity search completed", zap.Int("citations", len(out.Citations)))
	return models.Succeeded("Perplexity", out.Choices[0].Message.Content)
}
