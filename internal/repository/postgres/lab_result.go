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

type labResultRepository struct {
	db *sqlx.DB
}

func NewLabResultRepository(db *sqlx.DB) repository.LabResultRepository {
	return &labResultRepository{db: db}
}

func (r *labResultRepository) Create(ctx context.Context, result *model.LabResult) error {
	query := `
		INSERT INTO lab_results
			(id, patient_id, organization_id, date, test_type, name, value, unit, reference_range, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	result.CreatedAt = time.Now()
	result.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		result.ID,
		result.PatientID,
		result.OrganizationID,
		result.Date,
		result.TestType,
		result.Name,
		result.Value,
		result.Unit,
		result.ReferenceRange,
		result.CreatedAt,
		result.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lab result: %w", err)
	}
	return nil
}

func (r *labResultRepository) List(ctx context.Context, filters *model.LabResultFilters) ([]*model.LabResult, error) {
	query := `
		SELECT * FROM lab_results
		WHERE patient_id = $1 AND organization_id = $2 AND deleted_at IS NULL
		AND ($3::timestamptz IS NULL OR date >= $3)
		AND ($4::timestamptz IS NULL OR date <= $4)
		ORDER BY date DESC
	`
	var results []*model.LabResult
	err := r.db.SelectContext(ctx, &results, query,
		filters.PatientID,
		filters.OrganizationID,
		filters.StartDate,
		filters.EndDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab results: %w", err)
	}
	return results, nil
}

func (r *labResultRepository) Delete(ctx context.Context, id, organizationID uuid.UUID) error {
	query := `UPDATE lab_results SET deleted_at = $1 WHERE id = $2 AND organization_id = $3`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete lab result: %w", err)
	}
	return nil
}
