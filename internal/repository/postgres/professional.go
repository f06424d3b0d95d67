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

type professionalRepository struct {
	db *sqlx.DB
}

func NewProfessionalRepository(db *sqlx.DB) repository.ProfessionalRepository {
	return &professionalRepository{db: db}
}

func (r *professionalRepository) Create(ctx context.Context, professional *model.Professional) error {
	query := `
		INSERT INTO professionals (id, organization_id, name, email, password_hash, crn, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	professional.CreatedAt = time.Now()
	professional.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		professional.ID,
		professional.OrganizationID,
		professional.Name,
		professional.Email,
		professional.PasswordHash,
		professional.CRN,
		professional.Active,
		professional.CreatedAt,
		professional.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

func (r *professionalRepository) Find(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	query := `SELECT * FROM professionals WHERE id = $1 AND deleted_at IS NULL`
	var professional model.Professional
	err := r.db.GetContext(ctx, &professional, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &professional, nil
}

func (r *professionalRepository) FindByEmail(ctx context.Context, email string) (*model.Professional, error) {
	query := `SELECT * FROM professionals WHERE email = $1 AND deleted_at IS NULL`
	var professional model.Professional
	err := r.db.GetContext(ctx, &professional, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get professional by email: %w", err)
	}
	return &professional, nil
}
