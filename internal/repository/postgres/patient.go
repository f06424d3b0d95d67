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

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, organization_id, name, email, phone, birth_date, sex, tags, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.OrganizationID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.BirthDate,
		patient.Sex,
		patient.Tags,
		patient.Notes,
		patient.Status,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Find(ctx context.Context, id, organizationID uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 AND organization_id = $2 AND deleted_at IS NULL`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, email = $2, phone = $3, birth_date = $4, sex = $5, tags = $6, notes = $7, status = $8, updated_at = $9
		WHERE id = $10 AND organization_id = $11
	`
	patient.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.BirthDate,
		patient.Sex,
		patient.Tags,
		patient.Notes,
		patient.Status,
		patient.UpdatedAt,
		patient.ID,
		patient.OrganizationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id, organizationID uuid.UUID) error {
	query := `UPDATE patients SET deleted_at = $1 WHERE id = $2 AND organization_id = $3`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `
		SELECT * FROM patients
		WHERE organization_id = $1 AND deleted_at IS NULL
		AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		AND ($3 = '' OR status = $3)
		ORDER BY name ASC
	`
	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query,
		filters.OrganizationID,
		filters.SearchTerm,
		filters.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
