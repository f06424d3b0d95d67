package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/generation"
	"github.com/nutrivo/practice-api/pkg/logger"
	"github.com/nutrivo/practice-api/pkg/metrics"
)

// Service orchestrates the generation pipeline: fetch, derive, assemble the
// structured payload, call the provider, and persist the artifact only after
// generation succeeds. No retries, no fallback text.
type Service struct {
	patients      repository.PatientRepository
	anthropometry repository.AnthropometryRepository
	labResults    repository.LabResultRepository
	consultations repository.ConsultationRepository
	plans         repository.NutritionPlanRepository
	programs      repository.ProgramRepository
	summaries     repository.SummaryRepository
	outbox        repository.OutboxRepository
	generator     generation.Generator
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewService(
	patients repository.PatientRepository,
	anthropometry repository.AnthropometryRepository,
	labResults repository.LabResultRepository,
	consultations repository.ConsultationRepository,
	plans repository.NutritionPlanRepository,
	programs repository.ProgramRepository,
	summaries repository.SummaryRepository,
	outbox repository.OutboxRepository,
	generator generation.Generator,
	logger *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		patients:      patients,
		anthropometry: anthropometry,
		labResults:    labResults,
		consultations: consultations,
		plans:         plans,
		programs:      programs,
		summaries:     summaries,
		outbox:        outbox,
		generator:     generator,
		logger:        logger,
		metrics:       m,
	}
}

type SummaryRequest struct {
	OrganizationID uuid.UUID
	PatientID      uuid.UUID
	ProfessionalID uuid.UUID
	Type           model.SummaryType
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
}

// GeneratePatientSummary builds the structured payload for the requested
// mode and period, calls the provider and appends the resulting artifact.
func (s *Service) GeneratePatientSummary(ctx context.Context, req SummaryRequest) (*model.SummaryArtifact, error) {
	if !req.Type.Valid() {
		return nil, errors.BadRequest(fmt.Sprintf("invalid summary type: %s", req.Type), nil)
	}

	patient, err := s.patients.Find(ctx, req.PatientID, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if patient == nil {
		return nil, errors.NotFound("patient", nil)
	}

	var (
		consultations []*model.Consultation
		records       []*model.AnthropometryRecord
		labs          []*model.LabResult
		activePlan    *model.NutritionPlan
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		consultations, err = s.consultations.List(gctx, &model.ConsultationFilters{
			OrganizationID: req.OrganizationID,
			PatientID:      &req.PatientID,
			StartDate:      req.PeriodStart,
			EndDate:        req.PeriodEnd,
		})
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.anthropometry.List(gctx, &model.AnthropometryFilters{
			PatientID:      req.PatientID,
			OrganizationID: req.OrganizationID,
			StartDate:      req.PeriodStart,
			EndDate:        req.PeriodEnd,
		})
		return err
	})
	g.Go(func() error {
		var err error
		labs, err = s.labResults.List(gctx, &model.LabResultFilters{
			PatientID:      req.PatientID,
			OrganizationID: req.OrganizationID,
			StartDate:      req.PeriodStart,
			EndDate:        req.PeriodEnd,
		})
		return err
	})
	g.Go(func() error {
		var err error
		activePlan, err = s.plans.FindActive(gctx, req.PatientID, req.OrganizationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch clinical data: %w", err)
	}

	payload := patientSummaryPayload{
		Patient:       buildPatientFacts(patient, time.Now()),
		Consultations: buildConsultationEntries(consultations),
		Anthropometry: buildAnthropometryEntries(records),
		LabResults:    buildLabEntries(labs),
	}
	if req.PeriodStart != nil || req.PeriodEnd != nil {
		payload.Period = &periodFacts{Start: req.PeriodStart, End: req.PeriodEnd}
	}
	if activePlan != nil {
		payload.ActivePlan = &planFacts{Title: activePlan.Title, Goals: activePlan.Goals}
	} else {
		payload.ActivePlanNote = noActivePlanNote
	}

	text, err := s.generator.Generate(ctx, generation.Request{
		Instructions: instructionsFor(req.Type),
		Payload:      payload,
	})
	if err != nil {
		return nil, errors.GenerationFailed("summary generation failed", err)
	}

	artifact := &model.SummaryArtifact{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		PatientID:      &req.PatientID,
		ProfessionalID: req.ProfessionalID,
		Type:           string(req.Type),
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		Content:        text,
	}
	if err := s.summaries.Create(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to persist summary: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SummariesCreated.WithLabelValues(artifact.Type).Inc()
	}
	s.publishEvent(ctx, artifact)
	return artifact, nil
}

// ListPatientSummaries returns the append-only artifact history.
func (s *Service) ListPatientSummaries(ctx context.Context, organizationID, patientID uuid.UUID) ([]*model.SummaryArtifact, error) {
	artifacts, err := s.summaries.ListForPatient(ctx, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	return artifacts, nil
}

// publishEvent records the artifact in the outbox for broker fan-out. A
// failure here is logged, not surfaced: the artifact is already durable.
func (s *Service) publishEvent(ctx context.Context, artifact *model.SummaryArtifact) {
	payload, err := json.Marshal(artifact)
	if err != nil {
		s.logger.Error(err, "failed to marshal summary artifact for outbox")
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: model.EventSummaryCreated,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to create outbox event for summary")
	}
}
