package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/model"
)

// All repository interfaces in one file. Find-style methods return (nil, nil)
// when the entity does not exist in the given organization; list methods
// return records ordered newest-first.
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Find(ctx context.Context, id, organizationID uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id, organizationID uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	ProfessionalRepository interface {
		Create(ctx context.Context, professional *model.Professional) error
		Find(ctx context.Context, id uuid.UUID) (*model.Professional, error)
		FindByEmail(ctx context.Context, email string) (*model.Professional, error)
	}

	AnthropometryRepository interface {
		Create(ctx context.Context, record *model.AnthropometryRecord) error
		List(ctx context.Context, filters *model.AnthropometryFilters) ([]*model.AnthropometryRecord, error)
		Delete(ctx context.Context, id, organizationID uuid.UUID) error
	}

	LabResultRepository interface {
		Create(ctx context.Context, result *model.LabResult) error
		List(ctx context.Context, filters *model.LabResultFilters) ([]*model.LabResult, error)
		Delete(ctx context.Context, id, organizationID uuid.UUID) error
	}

	ConsultationRepository interface {
		Create(ctx context.Context, consultation *model.Consultation) error
		Find(ctx context.Context, id, organizationID uuid.UUID) (*model.Consultation, error)
		List(ctx context.Context, filters *model.ConsultationFilters) ([]*model.Consultation, error)
		Delete(ctx context.Context, id, organizationID uuid.UUID) error
	}

	NutritionPlanRepository interface {
		Create(ctx context.Context, plan *model.NutritionPlan) error
		FindActive(ctx context.Context, patientID, organizationID uuid.UUID) (*model.NutritionPlan, error)
		List(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.NutritionPlan, error)
		Deactivate(ctx context.Context, patientID, organizationID uuid.UUID) error
	}

	GuidanceRepository interface {
		Create(ctx context.Context, guidance *model.Guidance) error
		FindLatest(ctx context.Context, patientID, organizationID uuid.UUID) (*model.Guidance, error)
		List(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.Guidance, error)
	}

	// ProgramRepository loads programs with participants, meetings and
	// per-meeting records attached.
	ProgramRepository interface {
		Create(ctx context.Context, program *model.Program) error
		Find(ctx context.Context, id, organizationID uuid.UUID) (*model.Program, error)
		List(ctx context.Context, organizationID uuid.UUID) ([]*model.Program, error)
		AddParticipant(ctx context.Context, participant *model.ProgramParticipant) error
		AddMeeting(ctx context.Context, meeting *model.ProgramMeeting) error
		AddMeetingRecord(ctx context.Context, record *model.MeetingRecord) error
	}

	// SummaryRepository is append-only: artifacts are created once and never
	// updated.
	SummaryRepository interface {
		Create(ctx context.Context, artifact *model.SummaryArtifact) error
		ListForPatient(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.SummaryArtifact, error)
		ListForProgram(ctx context.Context, programID, organizationID uuid.UUID) ([]*model.SummaryArtifact, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		MarkRetry(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
