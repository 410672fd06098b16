package repository

import (
	"context"
	"strings"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/apperr"
	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type RecordRepository interface {
	CreateRecord(ctx context.Context, rec *models.FarmRecord) error
	GetRecords(ctx context.Context, userID string, filter models.RecordFilter) ([]models.FarmRecord, error)
	GetRecordByID(ctx context.Context, id, userID string) (*models.FarmRecord, error)
	UpdateRecord(ctx context.Context, id, userID string, in models.RecordInput) (*models.FarmRecord, error)
	DeleteRecord(ctx context.Context, id, userID string) error
	GetCosts(ctx context.Context, userID, month string) ([]RecordCost, error)
}

// RecordCost is the slice of a farm record the summary needs.
type RecordCost struct {
	RecordType string  `db:"record_type"`
	Cost       float64 `db:"cost"`
}

type recordRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewRecordRepository(db *sqlx.DB, logger *zap.Logger) RecordRepository {
	return &recordRepository{db: db, logger: logger}
}

const recordColumns = `id, user_id, record_type, crop_name, description, quantity, unit, cost,
	CAST(date AS TEXT) AS date, notes, created_at, updated_at`

func (r *recordRepository) CreateRecord(ctx context.Context, rec *models.FarmRecord) error {
	now := time.Now().UTC()
	rec.ID = uuid.NewString()
	rec.CreatedAt, rec.UpdatedAt = now, now
	if rec.Date == "" {
		rec.Date = now.Format("2006-01-02")
	}

	query := r.db.Rebind(`INSERT INTO farm_records
		(id, user_id, record_type, crop_name, description, quantity, unit, cost, date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.UserID, rec.RecordType, rec.CropName, rec.Description,
		rec.Quantity, rec.Unit, rec.Cost, rec.Date, rec.Notes, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *recordRepository) GetRecords(ctx context.Context, userID string, f models.RecordFilter) ([]models.FarmRecord, error) {
	where := []string{`user_id = ?`}
	args := []interface{}{userID}
	if f.RecordType != "" {
		where = append(where, `record_type = ?`)
		args = append(args, f.RecordType)
	}
	if f.StartDate != "" {
		where = append(where, `date >= ?`)
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		where = append(where, `date <= ?`)
		args = append(args, f.EndDate)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	query := `SELECT ` + recordColumns + ` FROM farm_records WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY date DESC, created_at DESC LIMIT ?`

	records := []models.FarmRecord{}
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) GetRecordByID(ctx context.Context, id, userID string) (*models.FarmRecord, error) {
	var rec models.FarmRecord
	query := r.db.Rebind(`SELECT ` + recordColumns + ` FROM farm_records WHERE id = ? AND user_id = ?`)
	if err := r.db.GetContext(ctx, &rec, query, id, userID); err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

// UpdateRecord applies the non-nil fields of in.
func (r *recordRepository) UpdateRecord(ctx context.Context, id, userID string, in models.RecordInput) (*models.FarmRecord, error) {
	var (
		sets []string
		args []interface{}
	)
	add := func(column string, v interface{}) {
		sets = append(sets, column+` = ?`)
		args = append(args, v)
	}
	if in.RecordType != nil {
		add("record_type", *in.RecordType)
	}
	if in.CropName != nil {
		add("crop_name", *in.CropName)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Quantity != nil {
		add("quantity", *in.Quantity)
	}
	if in.Unit != nil {
		add("unit", *in.Unit)
	}
	if in.Cost != nil {
		add("cost", *in.Cost)
	}
	if in.Date != nil {
		add("date", *in.Date)
	}
	if in.Notes != nil {
		add("notes", *in.Notes)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id, userID)

	query := r.db.Rebind(`UPDATE farm_records SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.ErrNotFound
	}
	return r.GetRecordByID(ctx, id, userID)
}

func (r *recordRepository) DeleteRecord(ctx context.Context, id, userID string) error {
	query := r.db.Rebind(`DELETE FROM farm_records WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// GetCosts lists type and cost of the user's records, optionally limited to
// one month given as YYYY-MM.
func (r *recordRepository) GetCosts(ctx context.Context, userID, month string) ([]RecordCost, error) {
	query := `SELECT record_type, cost FROM farm_records WHERE user_id = ?`
	args := []interface{}{userID}
	if month != "" {
		query += ` AND CAST(date AS TEXT) LIKE ?`
		args = append(args, month+"-%")
	}

	costs := []RecordCost{}
	if err := r.db.SelectContext(ctx, &costs, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return costs, nil
}
