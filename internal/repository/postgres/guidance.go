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

type guidanceRepository struct {
	db *sqlx.DB
}

func NewGuidanceRepository(db *sqlx.DB) repository.GuidanceRepository {
	return &guidanceRepository{db: db}
}

func (r *guidanceRepository) Create(ctx context.Context, guidance *model.Guidance) error {
	query := `
		INSERT INTO guidance_records
			(id, patient_id, organization_id, date, hydration, physical_activity, sleep, symptom_management, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	guidance.CreatedAt = time.Now()
	guidance.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		guidance.ID,
		guidance.PatientID,
		guidance.OrganizationID,
		guidance.Date,
		guidance.Hydration,
		guidance.PhysicalActivity,
		guidance.Sleep,
		guidance.SymptomManagement,
		guidance.Notes,
		guidance.CreatedAt,
		guidance.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create guidance: %w", err)
	}
	return nil
}

func (r *guidanceRepository) FindLatest(ctx context.Context, patientID, organizationID uuid.UUID) (*model.Guidance, error) {
	query := `
		SELECT * FROM guidance_records
		WHERE patient_id = $1 AND organization_id = $2 AND deleted_at IS NULL
		ORDER BY date DESC
		LIMIT 1
	`
	var guidance model.Guidance
	err := r.db.GetContext(ctx, &guidance, query, patientID, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest guidance: %w", err)
	}
	return &guidance, nil
}

func (r *guidanceRepository) List(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.Guidance, error) {
	query := `
		SELECT * FROM guidance_records
		WHERE patient_id = $1 AND organization_id = $2 AND deleted_at IS NULL
		ORDER BY date DESC
	`
	var records []*model.Guidance
	err := r.db.SelectContext(ctx, &records, query, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guidance records: %w", err)
	}
	return records, nil
}
