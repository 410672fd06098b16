// Package huggingface calls hosted image-classification models.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// PlantDiseaseModel is trained on the PlantVillage label set.
	PlantDiseaseModel = "https://router.huggingface.co/hf-inference/models/linkanjarad/mobilenet_v2_1.0_224-plant-disease-identification"
	// BeansModel is the alternative when the primary model is unavailable.
	BeansModel = "https://router.huggingface.co/hf-inference/models/nateraw/vit-base-beans"
)

// ErrNoPredictions is returned when the model answers with an empty list.
var ErrNoPredictions = errors.New("no predictions returned")

// Prediction is one label of a classification, highest score first.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Client posts raw image bytes to the inference router.
type Client struct {
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config for the inference client. Token is optional.
type Config struct {
	Token   string
	Timeout time.Duration
}

// NewClient creates a new inference client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	logger.Info("Hugging Face client initialized", zap.Bool("authenticated", cfg.Token != ""))
	return &Client{
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Configured reports whether an access token was supplied. The inference
// router also accepts anonymous requests at a lower quota.
func (c *Client) Configured() bool { return c.token != "" }

// Classify sends data to modelURL and returns its predictions.
func (c *Client) Classify(ctx context.Context, modelURL string, data []byte) ([]Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", modelURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Classifier returned error status",
			zap.String("model", modelURL),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		if msg := errorMessage(body); msg != "" {
			return nil, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("inference API returned status %d", resp.StatusCode)
	}

	var preds []Prediction
	if err := json.Unmarshal(body, &preds); err != nil {
		if msg := errorMessage(body); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, fmt.Errorf("failed to parse predictions: %w", err)
	}
	if len(preds) == 0 {
		return nil, ErrNoPredictions
	}
	return preds, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}
