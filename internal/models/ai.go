package models

import (
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
)

// Chat roles accepted from callers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one turn of a conversation, in chronological order.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/assistant
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
	Language string        `json:"language"`
}

// ChatReply is returned when a provider answered the conversation.
type ChatReply struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Language  string    `json:"language"`
	Provider  string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// ImagePayload is a decoded caller supplied image.
type ImagePayload struct {
	MIMEType string
	Data     []byte
	// Raw is the payload exactly as received (data URI or bare base64).
	Raw string
}

// DataURL re-encodes the image as a data URI.
func (p ImagePayload) DataURL() string {
	return "data:" + p.MIMEType + ";base64," + encodeBase64(p.Data)
}

// ProviderResult is the uniform answer of every provider adapter.
// Success implies Text is non-empty; failure implies Error is set.
type ProviderResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeeded builds a result from vendor text. Blank text is a failure
// reported as "No response from <vendor>".
func Succeeded(vendor, text string) ProviderResult {
	if isBlank(text) {
		return ProviderResult{Error: "No response from " + vendor}
	}
	return ProviderResult{Success: true, Text: text}
}

// Failed builds a failed result.
func Failed(message string) ProviderResult {
	if message == "" {
		message = "Unknown error"
	}
	return ProviderResult{Error: message}
}

// Unwrap converts the result into the (text, error) pair used by the
// fallback orchestrator.
func (r ProviderResult) Unwrap(provider string) (string, error) {
	if r.Success && !isBlank(r.Text) {
		return r.Text, nil
	}
	msg := r.Error
	if msg == "" {
		msg = "No response from " + provider
	}
	return "", &apperr.ProviderError{Provider: provider, Message: msg}
}

// Severity levels a diagnosis may carry.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// DiagnosisRecord is the structured result of an image diagnosis.
// Confidence is on a 0-100 scale.
type DiagnosisRecord struct {
	DiseaseName             string  `json:"disease_name"`
	Confidence              float64 `json:"confidence"`
	Severity                string  `json:"severity"`
	Symptoms                string  `json:"symptoms"`
	TreatmentRecommendation string  `json:"treatment_recommendation"`
	CropType                string  `json:"crop_type"`
	AdditionalNotes         string  `json:"additional_notes"`
}

// DiagnoseRequest is the body of POST /api/diagnose
type DiagnoseRequest struct {
	Image    string `json:"image"`
	Language string `json:"language"`
}

// DiagnosisResult is the record plus its storage identity.
type DiagnosisResult struct {
	ID string `json:"id"`
	DiagnosisRecord
	ImageURL  string    `json:"image_url"`
	Provider  string    `json:"-"`
	Degraded  bool      `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// ClassificationResult is the image classifier's label for a plant image.
type ClassificationResult struct {
	Success bool    `json:"success"`
	Disease string  `json:"disease"`
	Score   float64 `json:"-"`
	// Confidence is the display form: "87.45" or "Low (Detection Failed)".
	Confidence string `json:"confidence"`
	Severity   string `json:"severity"`
	RawLabel   string `json:"rawLabel"`
	Note       string `json:"note,omitempty"`
}

// AnalyzeImageRequest is the body of POST /api/analyze-image
type AnalyzeImageRequest struct {
	Image    string `json:"image"`
	Query    string `json:"query"`
	Language string `json:"language"`
}

// ImageAnalysis is the response of POST /api/analyze-image
type ImageAnalysis struct {
	Success         bool      `json:"success"`
	Analysis        string    `json:"analysis"`
	DetectedDisease string    `json:"detectedDisease"`
	Confidence      string    `json:"confidence"`
	Severity        string    `json:"severity"`
	Query           string    `json:"query"`
	Language        string    `json:"language"`
	LanguageName    string    `json:"languageName"`
	Provider        string    `json:"provider"`
	MLModel         string    `json:"mlModel"`
	Timestamp       time.Time `json:"timestamp"`
}

// AgentQuery is the body of the legacy POST /api/agent/query
type AgentQuery struct {
	Message  string `json:"message"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// SchemeDetails is the answer of POST /api/schemes/query
type SchemeDetails struct {
	SchemeName string    `json:"schemeName"`
	Language   string    `json:"language"`
	Details    string    `json:"details"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewsDigest is the answer of GET /api/news
type NewsDigest struct {
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketInsight is the answer of GET /api/market/insight
type MarketInsight struct {
	Crop      string    `json:"crop"`
	State     string    `json:"state"`
	Language  string    `json:"language"`
	Insight   string    `json:"insight"`
	Timestamp time.Time `json:"timestamp"`
}
