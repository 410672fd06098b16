package service

import (
	"context"
	"errors"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/llm"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/normalizer"

	"go.uber.org/zap"
)

var schemes = []models.Scheme{
	{ID: 1, Name: "PM-KISAN", FullName: "Pradhan Mantri Kisan Samman Nidhi", Desc: "Direct income support of ₹6,000 per year to small and marginal farmers", Subsidy: "₹6,000/year", MSP: "N/A", Category: "Income Support", Eligibility: "Small & Marginal Farmers", Website: "pmkisan.gov.in"},
	{ID: 2, Name: "PMFBY", FullName: "Pradhan Mantri Fasal Bima Yojana", Desc: "Comprehensive crop insurance scheme protecting farmers against crop loss", Subsidy: "Premium subsidy up to 90%", MSP: "Varies by crop", Category: "Insurance", Eligibility: "All Farmers", Website: "pmfby.gov.in"},
	{ID: 3, Name: "Copra MSP 2026", FullName: "Copra Minimum Support Price", Desc: "Government procurement of milling copra at minimum support price", Subsidy: "₹445 increase", MSP: "₹12,027/quintal", Category: "MSP", Eligibility: "Coconut Farmers", Website: "agricoop.gov.in"},
	{ID: 4, Name: "PMKSY", FullName: "Pradhan Mantri Krishi Sinchayee Yojana", Desc: "Irrigation subsidy scheme - More crop per drop", Subsidy: "Up to 90% on micro-irrigation", MSP: "N/A", Category: "Irrigation", Eligibility: "All Farmers", Website: "pmksy.gov.in"},
	{ID: 5, Name: "RKVY-RAFTAAR", FullName: "Rashtriya Krishi Vikas Yojana", Desc: "Agriculture infrastructure development and innovation", Subsidy: "Project-based funding", MSP: "N/A", Category: "Infrastructure", Eligibility: "FPOs, Cooperatives", Website: "rkvy.nic.in"},
	{ID: 6, Name: "KCC", FullName: "Kisan Credit Card", Desc: "Credit facility for farmers at subsidized interest rates", Subsidy: "Interest subvention up to 3%", MSP: "N/A", Category: "Credit", Eligibility: "All Farmers", Website: "pmkisan.gov.in/KCC.aspx"},
	{ID: 7, Name: "PM-KUSUM", FullName: "Solar Pump Scheme", Desc: "Solar pump installation with 90% subsidy", Subsidy: "Up to 90% on solar pumps", MSP: "N/A", Category: "Energy", Eligibility: "All Farmers", Website: "mnre.gov.in"},
}

// AdvisoryService answers scheme, news and price questions from the
// search-augmented model. There is no fallback provider.
type AdvisoryService struct {
	searcher Searcher
	limits   Limits
	now      func() time.Time
	logger   *zap.Logger
}

func NewAdvisoryService(searcher Searcher, limits Limits, logger *zap.Logger) *AdvisoryService {
	return &AdvisoryService{searcher: searcher, limits: limits, now: time.Now, logger: logger}
}

// ListSchemes returns the curated scheme catalogue.
func (s *AdvisoryService) ListSchemes() []models.Scheme {
	out := make([]models.Scheme, len(schemes))
	copy(out, schemes)
	return out
}

// SchemeDetails looks up eligibility, benefits and application steps.
func (s *AdvisoryService) SchemeDetails(ctx context.Context, q models.SchemeQuery) (*models.SchemeDetails, error) {
	code := orDefault(q.Language, "hi")
	prompt, err := normalizer.SchemeDetails(q.SchemeName, code, s.now())
	if err != nil {
		return nil, err
	}
	text, err := s.search(ctx, prompt, "Failed to fetch scheme details")
	if err != nil {
		return nil, err
	}
	return &models.SchemeDetails{SchemeName: q.SchemeName, Language: code, Details: text, Timestamp: s.now().UTC()}, nil
}

// News summarises recent agricultural news.
func (s *AdvisoryService) News(ctx context.Context, code string) (*models.NewsDigest, error) {
	code = orDefault(code, "en")
	text, err := s.search(ctx, normalizer.News(code, s.now()), "Failed to fetch news")
	if err != nil {
		return nil, err
	}
	return &models.NewsDigest{Content: text, Language: code, Timestamp: s.now().UTC()}, nil
}

// MarketInsight summarises current mandi prices for a crop.
func (s *AdvisoryService) MarketInsight(ctx context.Context, crop, state, code string) (*models.MarketInsight, error) {
	code = orDefault(code, "hi")
	state = orDefault(state, "India")
	prompt, err := normalizer.MarketPrices(crop, state, code, s.now())
	if err != nil {
		return nil, err
	}
	text, err := s.search(ctx, prompt, "Failed to fetch market prices")
	if err != nil {
		return nil, err
	}
	return &models.MarketInsight{Crop: crop, State: state, Language: code, Insight: text, Timestamp: s.now().UTC()}, nil
}

// search runs the single-provider chain. On failure the exhaustion message
// is the vendor's own error text, or fallback when there is none.
func (s *AdvisoryService) search(ctx context.Context, prompt normalizer.SearchPrompt, fallback string) (string, error) {
	out := llm.Fallback[string]{
		Primary: textStep("perplexity", s.limits, func(ctx context.Context) models.ProviderResult {
			return s.searcher.Search(ctx, prompt.System, prompt.Query)
		}),
		Logger: s.logger,
	}.Run(ctx)
	if out.OK() {
		return out.Value, nil
	}

	msg := fallback
	if len(out.Failures) > 0 {
		var perr *apperr.ProviderError
		if errors.As(out.Failures[0].Err, &perr) && perr.Message != "" {
			msg = perr.Message
		}
	}
	return "", out.Exhausted(msg)
}
