// Package diagnosis turns model output into diagnosis records and runs the
// image classifier chain.
package diagnosis

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
)

// Placeholder values used when the model leaves a field out or answers in
// free text.
const (
	AnalysisCompleteName = "Analysis Complete / विश्लेषण पूर्ण"
	UnknownCrop          = "Unknown / अज्ञात"
	ExpertAdvisory       = "Please consult a local agricultural expert for confirmation."
	DefaultConfidence    = 70

	symptomsPreview = 300
)

// jsonSpan is greedy: it runs from the first '{' to the last '}'.
var jsonSpan = regexp.MustCompile(`\{[\s\S]*\}`)

// flexNumber accepts 87, 87.5 or "87.5".
type flexNumber struct {
	set   bool
	value float64
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(unq), "%")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("confidence is not a number")
	}
	n.set, n.value = true, v
	return nil
}

type rawRecord struct {
	DiseaseName             string     `json:"disease_name"`
	Confidence              flexNumber `json:"confidence"`
	Severity                string     `json:"severity"`
	Symptoms                string     `json:"symptoms"`
	TreatmentRecommendation string     `json:"treatment_recommendation"`
	CropType                string     `json:"crop_type"`
	AdditionalNotes         string     `json:"additional_notes"`
}

// ExtractRecord reads the JSON object embedded in text. The error is always
// an *apperr.ParseError.
func ExtractRecord(text string) (models.DiagnosisRecord, error) {
	span := jsonSpan.FindString(text)
	if span == "" {
		return models.DiagnosisRecord{}, &apperr.ParseError{Reason: "no JSON object in response"}
	}

	var raw rawRecord
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return models.DiagnosisRecord{}, &apperr.ParseError{Reason: "invalid JSON object", Err: err}
	}

	return normalize(raw), nil
}

// Degraded wraps free text that could not be parsed.
func Degraded(text string) models.DiagnosisRecord {
	return models.DiagnosisRecord{
		DiseaseName:             AnalysisCompleteName,
		Confidence:              DefaultConfidence,
		Severity:                models.SeverityMedium,
		Symptoms:                truncateRunes(text, symptomsPreview),
		TreatmentRecommendation: text,
		CropType:                UnknownCrop,
		AdditionalNotes:         ExpertAdvisory,
	}
}

// Process extracts a record from text, falling back to the degraded record.
// It never fails.
func Process(text string) (rec models.DiagnosisRecord, degraded bool) {
	rec, err := ExtractRecord(text)
	if err != nil {
		return Degraded(text), true
	}
	return rec, false
}

// StoredConfidence converts a 0-100 confidence into the 0-1 stored form.
func StoredConfidence(c float64) float64 {
	return math.Min(c/100, 1)
}

func normalize(raw rawRecord) models.DiagnosisRecord {
	rec := models.DiagnosisRecord{
		DiseaseName:             strings.TrimSpace(raw.DiseaseName),
		Confidence:              DefaultConfidence,
		Severity:                strings.ToLower(strings.TrimSpace(raw.Severity)),
		Symptoms:                strings.TrimSpace(raw.Symptoms),
		TreatmentRecommendation: strings.TrimSpace(raw.TreatmentRecommendation),
		CropType:                strings.TrimSpace(raw.CropType),
		AdditionalNotes:         strings.TrimSpace(raw.AdditionalNotes),
	}

	if rec.DiseaseName == "" {
		rec.DiseaseName = AnalysisCompleteName
	}
	if rec.CropType == "" {
		rec.CropType = UnknownCrop
	}
	if rec.AdditionalNotes == "" {
		rec.AdditionalNotes = ExpertAdvisory
	}

	switch rec.Severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
	default:
		rec.Severity = models.SeverityMedium
	}

	if raw.Confidence.set && !math.IsNaN(raw.Confidence.value) {
		rec.Confidence = math.Max(0, math.Min(100, raw.Confidence.value))
	}
	return rec
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
