package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"
	"github.com/Vidhi35/Kisan-Mitra/internal/repository"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type RecordService struct {
	repo   repository.RecordRepository
	logger *zap.Logger
}

func NewRecordService(repo repository.RecordRepository, logger *zap.Logger) *RecordService {
	return &RecordService{repo: repo, logger: logger}
}

func (s *RecordService) CreateRecord(ctx context.Context, userID string, in models.RecordInput) (*models.FarmRecord, error) {
	if in.RecordType == nil || *in.RecordType == "" {
		return nil, apperr.Invalid("record_type", "record_type is required")
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		return nil, apperr.Invalid("description", "description is required")
	}
	if err := validateRecord(in); err != nil {
		return nil, err
	}

	rec := &models.FarmRecord{
		UserID:      userID,
		RecordType:  *in.RecordType,
		CropName:    in.CropName,
		Description: *in.Description,
		Quantity:    in.Quantity,
		Unit:        in.Unit,
		Notes:       in.Notes,
	}
	if in.Cost != nil {
		rec.Cost = *in.Cost
	}
	if in.Date != nil {
		rec.Date = *in.Date
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	return rec, nil
}

func (s *RecordService) ListRecords(ctx context.Context, userID string, f models.RecordFilter) ([]models.FarmRecord, error) {
	for field, v := range map[string]string{"start_date": f.StartDate, "end_date": f.EndDate} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, v); err != nil {
			return nil, apperr.Invalid(field, field+" must be YYYY-MM-DD")
		}
	}
	if f.RecordType != "" && !models.RecordTypes[f.RecordType] {
		return nil, apperr.Invalid("record_type", "Invalid record_type")
	}
	return s.repo.GetRecords(ctx, userID, f)
}

func (s *RecordService) UpdateRecord(ctx context.Context, id, userID string, in models.RecordInput) (*models.FarmRecord, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := validateRecord(in); err != nil {
		return nil, err
	}
	return s.repo.UpdateRecord(ctx, id, userID, in)
}

func (s *RecordService) DeleteRecord(ctx context.Context, id, userID string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repo.DeleteRecord(ctx, id, userID)
}

// Summary totals expenses, income and cost per record type. month narrows
// it to one YYYY-MM; read failures yield an empty summary.
func (s *RecordService) Summary(ctx context.Context, userID, month string) models.RecordSummary {
	summary := models.RecordSummary{ByType: map[string]float64{}}
	costs, err := s.repo.GetCosts(ctx, userID, month)
	if err != nil {
		s.logger.Warn("Get records summary error", zap.Error(err))
		return summary
	}
	for _, c := range costs {
		switch c.RecordType {
		case "expense":
			summary.TotalExpenses += c.Cost
		case "income":
			summary.TotalIncome += c.Cost
		}
		summary.ByType[c.RecordType] += c.Cost
	}
	return summary
}

func validateRecord(in models.RecordInput) error {
	if in.RecordType != nil && !models.RecordTypes[*in.RecordType] {
		return apperr.Invalid("record_type", "Invalid record_type")
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return apperr.Invalid("description", "description cannot be empty")
	}
	if in.Date != nil {
		if _, err := time.Parse(dateLayout, *in.Date); err != nil {
			return apperr.Invalid("date", "date must be YYYY-MM-DD")
		}
	}
	return nil
}
