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

type summaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) repository.SummaryRepository {
	return &summaryRepository{db: db}
}

// Create appends the artifact; there is deliberately no update path.
func (r *summaryRepository) Create(ctx context.Context, artifact *model.SummaryArtifact) error {
	query := `
		INSERT INTO summary_artifacts
			(id, organization_id, patient_id, program_id, professional_id, type, period_start, period_end, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	artifact.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		artifact.ID,
		artifact.OrganizationID,
		artifact.PatientID,
		artifact.ProgramID,
		artifact.ProfessionalID,
		artifact.Type,
		artifact.PeriodStart,
		artifact.PeriodEnd,
		artifact.Content,
		artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create summary artifact: %w", err)
	}
	return nil
}

func (r *summaryRepository) ListForPatient(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.SummaryArtifact, error) {
	query := `
		SELECT * FROM summary_artifacts
		WHERE patient_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
	`
	var artifacts []*model.SummaryArtifact
	err := r.db.SelectContext(ctx, &artifacts, query, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summary artifacts: %w", err)
	}
	return artifacts, nil
}

func (r *summaryRepository) ListForProgram(ctx context.Context, programID, organizationID uuid.UUID) ([]*model.SummaryArtifact, error) {
	query := `
		SELECT * FROM summary_artifacts
		WHERE program_id = $1 AND organization_id = $2
		ORDER BY created_at DESC
	`
	var artifacts []*model.SummaryArtifact
	err := r.db.SelectContext(ctx, &artifacts, query, programID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list program summary artifacts: %w", err)
	}
	return artifacts, nil
}
