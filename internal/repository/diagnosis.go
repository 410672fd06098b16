package repository

import (
	"context"
	"time"

	"github.com/Vidhi35/Kisan-Mitra/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type DiagnosisRepository interface {
	CreateDiagnosis(ctx context.Context, d *models.PlantDiagnosis) error
	GetDiagnoses(ctx context.Context, userID string, limit int) ([]models.PlantDiagnosis, error)
	GetDiagnosisByID(ctx context.Context, id string) (*models.PlantDiagnosis, error)
}

type diagnosisRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDiagnosisRepository(db *sqlx.DB, logger *zap.Logger) DiagnosisRepository {
	return &diagnosisRepository{db: db, logger: logger}
}

const diagnosisColumns = `id, user_id, image_url, disease_name, confidence, symptoms, treatment_recommendation, severity, crop_type, diagnosed_at, created_at`

// CreateDiagnosis assigns ID and timestamps and stores d.
func (r *diagnosisRepository) CreateDiagnosis(ctx context.Context, d *models.PlantDiagnosis) error {
	now := time.Now().UTC()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	if d.DiagnosedAt.IsZero() {
		d.DiagnosedAt = now
	}

	query := r.db.Rebind(`INSERT INTO plant_diagnoses (` + diagnosisColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, d.ID, d.UserID, d.ImageURL, d.DiseaseName, d.Confidence,
		d.Symptoms, d.TreatmentRecommendation, d.Severity, d.CropType, d.DiagnosedAt, d.CreatedAt)
	return err
}

func (r *diagnosisRepository) GetDiagnoses(ctx context.Context, userID string, limit int) ([]models.PlantDiagnosis, error) {
	if limit <= 0 {
		limit = 10
	}
	diagnoses := []models.PlantDiagnosis{}
	query := r.db.Rebind(`SELECT ` + diagnosisColumns + ` FROM plant_diagnoses
		WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`)
	if err := r.db.SelectContext(ctx, &diagnoses, query, userID, limit); err != nil {
		return nil, err
	}
	return diagnoses, nil
}

func (r *diagnosisRepository) GetDiagnosisByID(ctx context.Context, id string) (*models.PlantDiagnosis, error) {
	var d models.PlantDiagnosis
	query := r.db.Rebind(`SELECT ` + diagnosisColumns + ` FROM plant_diagnoses WHERE id = ?`)
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}
