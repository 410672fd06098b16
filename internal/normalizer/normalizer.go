// Package normalizer validates caller input and assembles the single
// outbound prompt each request sends to a model. Nothing here performs I/O.
package normalizer

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/language"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

var dataURIPattern = regexp.MustCompile(`^data:([A-Za-z-+/]+);base64,(.+)$`)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/heic": true,
	"image/heif": true,
}

// ChatPrompt is a validated conversation ready for a chat provider.
type ChatPrompt struct {
	Messages []models.ChatMessage
	Language language.Language
	System   string
}

// Chat validates an assistant request. An empty language code takes
// defaultLang. The conversation must end with a user turn.
func Chat(req models.ChatRequest, defaultLang string) (ChatPrompt, error) {
	if len(req.Messages) == 0 {
		return ChatPrompt{}, apperr.Invalid("messages", "Messages required")
	}
	if req.Messages[len(req.Messages)-1].Role != models.RoleUser {
		return ChatPrompt{}, apperr.Invalid("messages", "Last message must be from the user")
	}
	lang := language.Resolve(orDefault(req.Language, defaultLang))

	msgs := make([]models.ChatMessage, len(req.Messages))
	copy(msgs, req.Messages)

	return ChatPrompt{
		Messages: msgs,
		Language: lang,
		System:   PersonaPrompt + fmt.Sprintf(languageDirective, lang.Name),
	}, nil
}

// DiagnosisInput is a validated image diagnosis request.
type DiagnosisInput struct {
	Image  models.ImagePayload
	Prompt string
	// Language is empty when the caller did not ask for one.
	Language string
}

// Diagnosis validates a diagnosis request and builds the vision prompt.
func Diagnosis(req models.DiagnoseRequest) (DiagnosisInput, error) {
	if strings.TrimSpace(req.Image) == "" {
		return DiagnosisInput{}, apperr.Invalid("image", "No image provided")
	}
	img, err := ParseImage(req.Image)
	if err != nil {
		return DiagnosisInput{}, err
	}

	prompt := DiagnosisPrompt
	code := strings.TrimSpace(req.Language)
	if code != "" && language.Supported(code) && language.Resolve(code).Code != language.Default {
		prompt += fmt.Sprintf(diagnosisLanguageDirective, language.Resolve(code).Name)
	}
	return DiagnosisInput{Image: img, Prompt: prompt, Language: code}, nil
}

// AnalysisInput is a validated image analysis request.
type AnalysisInput struct {
	Image    models.ImagePayload
	Query    string
	Language language.Language
	// LanguageCode echoes the code the caller sent.
	LanguageCode string
}

// ImageAnalysis validates an analyze-image request. The image must be a
// base64 data URI.
func ImageAnalysis(req models.AnalyzeImageRequest, defaultLang string) (AnalysisInput, error) {
	if strings.TrimSpace(req.Image) == "" {
		return AnalysisInput{}, apperr.Invalid("image", "Image is required")
	}
	if strings.TrimSpace(req.Query) == "" {
		return AnalysisInput{}, apperr.Invalid("query", "Query is required")
	}
	img, err := ParseDataURI(req.Image)
	if err != nil {
		return AnalysisInput{}, err
	}
	code := orDefault(req.Language, defaultLang)
	return AnalysisInput{
		Image:        img,
		Query:        req.Query,
		Language:     language.Resolve(code),
		LanguageCode: code,
	}, nil
}

// AdvicePrompt builds the system and user prompts for advice generation.
// A specific detection gets a structured treatment prompt, anything else a
// general plant health prompt.
func AdvicePrompt(cls models.ClassificationResult, in AnalysisInput) (system, user string) {
	if IsSpecific(cls) {
		return fmt.Sprintf(specificAdviceSystem, cls.Disease, cls.Confidence),
			fmt.Sprintf(specificAdviceUser, in.Query, in.Language.Name, cls.Disease)
	}
	return generalAdviceSystem, fmt.Sprintf(generalAdviceUser, in.Query, in.Language.Name)
}

// IsSpecific reports whether a classification names an actual condition.
func IsSpecific(cls models.ClassificationResult) bool {
	return cls.Success && cls.Disease != "" &&
		cls.Disease != "Potential Plant Issue" && cls.Disease != "Unknown"
}

// ParseDataURI decodes a strict data:<mime>;base64,<payload> image.
func ParseDataURI(raw string) (models.ImagePayload, error) {
	m := dataURIPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if len(m) != 3 {
		return models.ImagePayload{}, apperr.Invalid("image", "Invalid image format")
	}
	data, err := decodeBase64(m[2])
	if err != nil {
		return models.ImagePayload{}, apperr.Invalid("image", "Invalid image format")
	}
	return sniff(raw, m[1], data)
}

// ParseImage accepts either a data URI or bare base64.
func ParseImage(raw string) (models.ImagePayload, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "data:") {
		return ParseDataURI(s)
	}
	data, err := decodeBase64(s)
	if err != nil {
		return models.ImagePayload{}, apperr.Invalid("image", "Invalid image format")
	}
	return sniff(raw, "", data)
}

func sniff(raw, declared string, data []byte) (models.ImagePayload, error) {
	if len(data) == 0 {
		return models.ImagePayload{}, apperr.Invalid("image", "Invalid image format")
	}
	detected := mimetype.Detect(data).String()
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	if !imageTypes[detected] {
		return models.ImagePayload{}, apperr.Invalid("image", "Unsupported image type: "+detected)
	}
	mime := detected
	if declared != "" && imageTypes[strings.ToLower(declared)] {
		mime = strings.ToLower(declared)
	}
	return models.ImagePayload{MIMEType: mime, Data: data, Raw: raw}, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// SearchPrompt is a system/user pair for the search-augmented model.
type SearchPrompt struct {
	System string
	Query  string
}

// SchemeDetails asks for a government scheme's details.
func SchemeDetails(name, code string, now time.Time) (SearchPrompt, error) {
	if strings.TrimSpace(name) == "" {
		return SearchPrompt{}, apperr.Invalid("schemeName", "Scheme name is required")
	}
	lang := language.Resolve(code)
	year := now.Year()
	return SearchPrompt{
		System: fmt.Sprintf(schemeSystem, lang.EnglishName),
		Query:  fmt.Sprintf(schemeQuery, name, year, year+1),
	}, nil
}

// News asks for recent agricultural news.
func News(code string, now time.Time) SearchPrompt {
	return SearchPrompt{
		System: fmt.Sprintf(searchSystem, language.Resolve(code).EnglishName),
		Query:  fmt.Sprintf(newsQuery, now.Format("January 2006")),
	}
}

// MarketPrices asks for current mandi prices of a crop.
func MarketPrices(crop, state, code string, now time.Time) (SearchPrompt, error) {
	if strings.TrimSpace(crop) == "" {
		return SearchPrompt{}, apperr.Invalid("crop", "Crop is required")
	}
	return SearchPrompt{
		System: fmt.Sprintf(searchSystem, language.Resolve(code).EnglishName),
		Query:  fmt.Sprintf(marketQuery, crop, orDefault(state, "India"), now.Format("January 2006")),
	}, nil
}

// AgentQuery builds the flat prompt used by the legacy agent endpoint.
func AgentQuery(q models.AgentQuery) (string, error) {
	if strings.TrimSpace(q.Message) == "" {
		return "", apperr.Invalid("message", "Message is required")
	}
	return fmt.Sprintf("%s Respond in %s. User asks: %s", legacyContext, orDefault(q.Language, "hi"), q.Message), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
