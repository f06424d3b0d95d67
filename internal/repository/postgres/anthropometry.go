package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
)

type anthropometryRepository struct {
	db *sqlx.DB
}

func NewAnthropometryRepository(db *sqlx.DB) repository.AnthropometryRepository {
	return &anthropometryRepository{db: db}
}

func (r *anthropometryRepository) Create(ctx context.Context, record *model.AnthropometryRecord) error {
	query := `
		INSERT INTO anthropometry_records
			(id, patient_id, organization_id, date, weight, height, bmi,
			 waist_circumference, hip_circumference, arm_circumference, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.OrganizationID,
		record.Date,
		record.Weight,
		record.Height,
		record.BMI,
		record.WaistCircumf,
		record.HipCircumf,
		record.ArmCircumf,
		record.Notes,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create anthropometry record: %w", err)
	}
	return nil
}

// List returns records newest-first; the date window bounds are each
// optional.
func (r *anthropometryRepository) List(ctx context.Context, filters *model.AnthropometryFilters) ([]*model.AnthropometryRecord, error) {
	query := `
		SELECT * FROM anthropometry_records
		WHERE patient_id = $1 AND organization_id = $2 AND deleted_at IS NULL
		AND ($3::timestamptz IS NULL OR date >= $3)
		AND ($4::timestamptz IS NULL OR date <= $4)
		ORDER BY date DESC
	`
	var records []*model.AnthropometryRecord
	err := r.db.SelectContext(ctx, &records, query,
		filters.PatientID,
		filters.OrganizationID,
		filters.StartDate,
		filters.EndDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list anthropometry records: %w", err)
	}
	return records, nil
}

func (r *anthropometryRepository) Delete(ctx context.Context, id, organizationID uuid.UUID) error {
	query := `UPDATE anthropometry_records SET deleted_at = $1 WHERE id = $2 AND organization_id = $3`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete anthropometry record: %w", err)
	}
	return nil
}
