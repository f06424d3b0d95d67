package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
)

type consultationRepository struct {
	db *sqlx.DB
}

func NewConsultationRepository(db *sqlx.DB) repository.ConsultationRepository {
	return &consultationRepository{db: db}
}

func (r *consultationRepository) Create(ctx context.Context, consultation *model.Consultation) error {
	query := `
		INSERT INTO consultations
			(id, patient_id, organization_id, professional_id, date, type,
			 main_complaint, diagnosis, plan, nutrition_history, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	consultation.CreatedAt = time.Now()
	consultation.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		consultation.ID,
		consultation.PatientID,
		consultation.OrganizationID,
		consultation.ProfessionalID,
		consultation.Date,
		consultation.Type,
		consultation.MainComplaint,
		consultation.Diagnosis,
		consultation.Plan,
		consultation.NutritionHistory,
		consultation.Notes,
		consultation.CreatedAt,
		consultation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

func (r *consultationRepository) Find(ctx context.Context, id, organizationID uuid.UUID) (*model.Consultation, error) {
	query := `SELECT * FROM consultations WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`
	var consultation model.Consultation
	err := r.db.GetContext(ctx, &consultation, query, id, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	return &consultation, nil
}

func (r *consultationRepository) List(ctx context.Context, filters *model.ConsultationFilters) ([]*model.Consultation, error) {
	query := `
		SELECT * FROM consultations
		WHERE organization_id = $1 AND deleted_at IS NULL
		AND ($2::uuid IS NULL OR patient_id = $2)
		AND ($3::timestamptz IS NULL OR date >= $3)
		AND ($4::timestamptz IS NULL OR date <= $4)
		ORDER BY date DESC
	`
	var consultations []*model.Consultation
	err := r.db.SelectContext(ctx, &consultations, query,
		filters.OrganizationID,
		filters.PatientID,
		filters.StartDate,
		filters.EndDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (r *consultationRepository) Delete(ctx context.Context, id, organizationID uuid.UUID) error {
	query := `UPDATE consultations SET deleted_at = $1 WHERE id = $2 AND organization_id = $3`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}
	return nil
}
