package diagnosis

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
)

func TestExtractRecord(t *testing.T) {
	text := "Here is the diagnosis:\n```json\n" + `{
  "disease_name": "Late Blight / पछेती झुलसा",
  "confidence": 87,
  "severity": "high",
  "symptoms": "Dark lesions",
  "treatment_recommendation": "Copper fungicide",
  "crop_type": "Tomato",
  "additional_notes": "Remove infected leaves"
}` + "\n```"

	rec, err := ExtractRecord(text)
	if err != nil {
		t.Fatalf("ExtractRecord: %v", err)
	}
	want := models.DiagnosisRecord{
		DiseaseName:             "Late Blight / पछेती झुलसा",
		Confidence:              87,
		Severity:                "high",
		Symptoms:                "Dark lesions",
		TreatmentRecommendation: "Copper fungicide",
		CropType:                "Tomato",
		AdditionalNotes:         "Remove infected leaves",
	}
	if rec != want {
		t.Errorf("got %+v\nwant %+v", rec, want)
	}
}

func TestExtractRecordNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, rec models.DiagnosisRecord)
	}{
		{
			name:  "string confidence",
			input: `{"disease_name":"Rust","confidence":"92.5","severity":"low","crop_type":"Wheat"}`,
			check: func(t *testing.T, rec models.DiagnosisRecord) {
				if rec.Confidence != 92.5 {
					t.Errorf("confidence = %v", rec.Confidence)
				}
			},
		},
		{
			name:  "confidence clamped",
			input: `{"disease_name":"Rust","confidence":140}`,
			check: func(t *testing.T, rec models.DiagnosisRecord) {
				if rec.Confidence != 100 {
					t.Errorf("confidence = %v", rec.Confidence)
				}
			},
		},
		{
			name:  "negative confidence",
			input: `{"disease_name":"Rust","confidence":-3}`,
			check: func(t *testing.T, rec models.DiagnosisRecord) {
				if rec.Confidence != 0 {
					t.Errorf("confidence = %v", rec.Confidence)
				}
			},
		},
		{
			name:  "missing confidence",
			input: `{"disease_name":"Rust"}`,
			check: func(t *testing.T, rec models.DiagnosisRecord) {
				if rec.Confidence != DefaultConfidence {
					t.Errorf("confidence = %v", rec.Confidence)
				}
			},
		},
		{
			name:  "severity outside enum",
			input: `{"disease_name":"Rust","severity":"moderate"}`,
			check: func(t *testing.T, rec models.DiagnosisRecord) {
				if rec.Severity != models.SeverityMedium {
					t.Errorf("severity = %q", rec.Severity)
				}
			},
		},
		{
			name:  "severity case folded",
			input: `{"disease_name":"Rust","severity":"Critical"}`,
			check: func(t *testing.T, rec models.DiagnosisRecord) {
				if rec.Severity != models.SeverityCritical {
					t.Errorf("severity = %q", rec.Severity)
				}
			},
		},
		{
			name:  "blank fields filled",
			input: `{"disease_name":"  ","crop_type":""}`,
			check: func(t *testing.T, rec models.DiagnosisRecord) {
				if rec.DiseaseName != AnalysisCompleteName || rec.CropType != UnknownCrop || rec.AdditionalNotes != ExpertAdvisory {
					t.Errorf("sentinels not applied: %+v", rec)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ExtractRecord(tt.input)
			if err != nil {
				t.Fatalf("ExtractRecord: %v", err)
			}
			tt.check(t, rec)
		})
	}
}

func TestExtractRecordIdempotent(t *testing.T) {
	inputs := []string{
		`{"disease_name":"Leaf Curl","confidence":"55","severity":"HIGH","symptoms":"curling","crop_type":" Chilli "}`,
		`noise {"disease_name":"","confidence":250} trailing`,
		`{"disease_name":"Healthy / स्वस्थ","confidence":99.9,"severity":"low","additional_notes":"none"}`,
	}
	for _, in := range inputs {
		first, err := ExtractRecord(in)
		if err != nil {
			t.Fatalf("ExtractRecord(%q): %v", in, err)
		}
		encoded, err := json.Marshal(first)
		if err != nil {
			t.Fatal(err)
		}
		second, err := ExtractRecord(string(encoded))
		if err != nil {
			t.Fatalf("re-extract: %v", err)
		}
		if first != second {
			t.Errorf("not idempotent:\n first %+v\nsecond %+v", first, second)
		}
	}
}

func TestExtractRecordErrors(t *testing.T) {
	for _, in := range []string{
		"The leaf shows early blight symptoms.",
		`{"disease_name": "Rust", "confidence": }`,
		`{"confidence":"very high"}`,
	} {
		_, err := ExtractRecord(in)
		var perr *apperr.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("ExtractRecord(%q) err = %v, want ParseError", in, err)
		}
	}
}

func TestProcessDegraded(t *testing.T) {
	text := strings.Repeat("पत्ती ", 100)
	rec, degraded := Process(text)
	if !degraded {
		t.Fatal("expected degraded record")
	}
	if rec.DiseaseName != AnalysisCompleteName || rec.CropType != UnknownCrop {
		t.Errorf("unexpected sentinels %+v", rec)
	}
	if rec.Confidence != 70 || rec.Severity != models.SeverityMedium {
		t.Errorf("unexpected confidence/severity %+v", rec)
	}
	if got := len([]rune(rec.Symptoms)); got != 300 {
		t.Errorf("symptoms length = %d runes", got)
	}
	if rec.TreatmentRecommendation != text {
		t.Error("treatment should carry the full text")
	}
	if rec.AdditionalNotes != ExpertAdvisory {
		t.Errorf("notes = %q", rec.AdditionalNotes)
	}
}

func TestProcessShortText(t *testing.T) {
	rec, degraded := Process("no json")
	if !degraded || rec.Symptoms != "no json" {
		t.Fatalf("unexpected %+v", rec)
	}
}

func TestStoredConfidence(t *testing.T) {
	if got := StoredConfidence(87); got != 0.87 {
		t.Errorf("StoredConfidence(87) = %v", got)
	}
	if got := StoredConfidence(150); got != 1 {
		t.Errorf("StoredConfidence(150) = %v", got)
	}
}
