package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/llm"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/normalizer"

	"go.uber.org/zap"
)

// Labels reported with every image analysis.
const (
	AnalysisProvider = "groq-llama3"
	AnalysisMLModel  = "MobileNetV2+Router"
)

const missingKeyAnalysis = `
## System Configuration Required

**API Key Missing:**
Please add your Groq API Key to the ` + "`.env`" + ` file as ` + "`GROQ_API_KEY`" + `.

**Detected Condition:** %s
(Confidence: %s%%)

**To Fix:**
1. Get a free API Key from [console.groq.com](https://console.groq.com)
2. Open ` + "`.env`" + ` file in the project root
3. Add: ` + "`GROQ_API_KEY=your_key_here`" + `
4. Restart the server
`

const adviceErrorAnalysis = `
## AI Analysis Error

We encountered an error while generating your advice.

**Error Details:** %s

**Detected Condition:** %s

Please try again in a few moments.
`

// AnalysisService classifies a plant image and asks a text model for advice
// about the detected condition.
type AnalysisService struct {
	detector    DiseaseDetector
	advisor     Completer
	limits      Limits
	defaultLang string
	logger      *zap.Logger
}

func NewAnalysisService(detector DiseaseDetector, advisor Completer, limits Limits, defaultLang string, logger *zap.Logger) *AnalysisService {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &AnalysisService{
		detector:    detector,
		advisor:     advisor,
		limits:      limits,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

// Analyze never fails once the request is valid: a missing key or a failed
// advice call is reported as markdown in the analysis text.
func (s *AnalysisService) Analyze(ctx context.Context, req models.AnalyzeImageRequest) (*models.ImageAnalysis, error) {
	in, err := normalizer.ImageAnalysis(req, s.defaultLang)
	if err != nil {
		return nil, err
	}

	cls := s.detector.Detect(ctx, in.Image.Data)
	s.logger.Info("Disease detected",
		zap.String("disease", cls.Disease),
		zap.String("confidence", cls.Confidence),
		zap.String("label", cls.RawLabel))

	var analysis string
	if !s.advisor.Configured() {
		s.logger.Warn("GROQ_API_KEY is missing, returning configuration guidance")
		analysis = fmt.Sprintf(missingKeyAnalysis, orUnknown(cls.Disease), orZero(cls.Confidence))
	} else {
		system, user := normalizer.AdvicePrompt(cls, in)
		out := llm.Fallback[string]{
			Primary: textStep("groq", s.limits, func(ctx context.Context) models.ProviderResult {
				return s.advisor.Complete(ctx, system, user)
			}),
			Logger: s.logger,
		}.Run(ctx)

		if out.OK() {
			analysis = out.Value
		} else {
			analysis = fmt.Sprintf(adviceErrorAnalysis, failureDetail(out.Failures), orUnknown(cls.Disease))
		}
	}

	return &models.ImageAnalysis{
		Success:         true,
		Analysis:        analysis,
		DetectedDisease: orUnknown(cls.Disease),
		Confidence:      orZero(cls.Confidence),
		Severity:        orDefault(cls.Severity, "Unknown"),
		Query:           in.Query,
		Language:        in.LanguageCode,
		LanguageName:    in.Language.Name,
		Provider:        AnalysisProvider,
		MLModel:         AnalysisMLModel,
		Timestamp:       time.Now().UTC(),
	}, nil
}

func failureDetail(failures []llm.Failure) string {
	if len(failures) == 0 {
		return "unknown error"
	}
	return failures[len(failures)-1].Err.Error()
}

func orUnknown(s string) string { return orDefault(s, "Unknown") }

func orZero(s string) string { return orDefault(s, "0") }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
