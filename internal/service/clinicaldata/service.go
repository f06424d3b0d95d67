package clinicaldata

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/logger"
	"github.com/nutrivo/practice-api/pkg/validator"
)

// Service groups the per-patient clinical record types behind one facade:
// anthropometry, lab results, consultations, nutrition plans and guidance.
// Every write is scoped to a patient that must exist in the organization.
type Service struct {
	patients      repository.PatientRepository
	anthropometry repository.AnthropometryRepository
	labResults    repository.LabResultRepository
	consultations repository.ConsultationRepository
	plans         repository.NutritionPlanRepository
	guidance      repository.GuidanceRepository
	validate      *validator.Validator
	logger        *logger.Logger
}

func NewService(
	patients repository.PatientRepository,
	anthropometry repository.AnthropometryRepository,
	labResults repository.LabResultRepository,
	consultations repository.ConsultationRepository,
	plans repository.NutritionPlanRepository,
	guidance repository.GuidanceRepository,
	logger *logger.Logger,
) *Service {
	return &Service{
		patients:      patients,
		anthropometry: anthropometry,
		labResults:    labResults,
		consultations: consultations,
		plans:         plans,
		guidance:      guidance,
		validate:      validator.New(),
		logger:        logger,
	}
}

// validateRequest keeps service-level callers honest; handlers already
// validate at bind time, so this is a no-op on the HTTP path.
func (s *Service) validateRequest(req interface{}) error {
	if err := s.validate.Validate(req); err != nil {
		return errors.BadRequest(err.Error(), err)
	}
	return nil
}

func (s *Service) requirePatient(ctx context.Context, patientID, organizationID uuid.UUID) error {
	patient, err := s.patients.Find(ctx, patientID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to fetch patient: %w", err)
	}
	if patient == nil {
		return errors.NotFound("patient", nil)
	}
	return nil
}

func (s *Service) CreateAnthropometry(ctx context.Context, patientID, organizationID uuid.UUID, req *model.CreateAnthropometryRequest) (*model.AnthropometryRecord, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID, organizationID); err != nil {
		return nil, err
	}

	record := &model.AnthropometryRecord{
		PatientID:      patientID,
		OrganizationID: organizationID,
		Date:           req.Date,
		Weight:         req.Weight,
		Height:         req.Height,
		BMI:            req.BMI,
		WaistCircumf:   req.WaistCircumf,
		HipCircumf:     req.HipCircumf,
		ArmCircumf:     req.ArmCircumf,
		Notes:          req.Notes,
	}
	record.ID = uuid.New()

	if err := s.anthropometry.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create anthropometry record: %w", err)
	}
	return record, nil
}

func (s *Service) ListAnthropometry(ctx context.Context, filters *model.AnthropometryFilters) ([]*model.AnthropometryRecord, error) {
	records, err := s.anthropometry.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list anthropometry records: %w", err)
	}
	return records, nil
}

func (s *Service) DeleteAnthropometry(ctx context.Context, id, organizationID uuid.UUID) error {
	if err := s.anthropometry.Delete(ctx, id, organizationID); err != nil {
		return fmt.Errorf("failed to delete anthropometry record: %w", err)
	}
	return nil
}

func (s *Service) CreateLabResult(ctx context.Context, patientID, organizationID uuid.UUID, req *model.CreateLabResultRequest) (*model.LabResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID, organizationID); err != nil {
		return nil, err
	}

	result := &model.LabResult{
		PatientID:      patientID,
		OrganizationID: organizationID,
		Date:           req.Date,
		TestType:       req.TestType,
		Name:           req.Name,
		Value:          model.ParseLabValue(req.Value),
		Unit:           req.Unit,
		ReferenceRange: req.ReferenceRange,
	}
	result.ID = uuid.New()

	if err := s.labResults.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to create lab result: %w", err)
	}
	return result, nil
}

func (s *Service) ListLabResults(ctx context.Context, filters *model.LabResultFilters) ([]*model.LabResult, error) {
	results, err := s.labResults.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab results: %w", err)
	}
	return results, nil
}

func (s *Service) DeleteLabResult(ctx context.Context, id, organizationID uuid.UUID) error {
	if err := s.labResults.Delete(ctx, id, organizationID); err != nil {
		return fmt.Errorf("failed to delete lab result: %w", err)
	}
	return nil
}

func (s *Service) CreateConsultation(ctx context.Context, organizationID, professionalID uuid.UUID, req *model.CreateConsultationRequest) (*model.Consultation, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, req.PatientID, organizationID); err != nil {
		return nil, err
	}

	consultation := &model.Consultation{
		PatientID:        req.PatientID,
		OrganizationID:   organizationID,
		ProfessionalID:   professionalID,
		Date:             req.Date,
		Type:             req.Type,
		MainComplaint:    req.MainComplaint,
		Diagnosis:        req.Diagnosis,
		Plan:             req.Plan,
		NutritionHistory: req.NutritionHistory,
		Notes:            req.Notes,
	}
	consultation.ID = uuid.New()

	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}
	return consultation, nil
}

func (s *Service) GetConsultation(ctx context.Context, id, organizationID uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.consultations.Find(ctx, id, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch consultation: %w", err)
	}
	if consultation == nil {
		return nil, errors.NotFound("consultation", nil)
	}
	return consultation, nil
}

func (s *Service) ListConsultations(ctx context.Context, filters *model.ConsultationFilters) ([]*model.Consultation, error) {
	consultations, err := s.consultations.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (s *Service) DeleteConsultation(ctx context.Context, id, organizationID uuid.UUID) error {
	if err := s.consultations.Delete(ctx, id, organizationID); err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}
	return nil
}

// CreateNutritionPlan persists the plan with its meals; when the plan is
// active the repository deactivates the previous active plan in the same
// transaction, so the one-active-plan invariant holds even under retries.
func (s *Service) CreateNutritionPlan(ctx context.Context, patientID, organizationID uuid.UUID, req *model.CreateNutritionPlanRequest) (*model.NutritionPlan, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID, organizationID); err != nil {
		return nil, err
	}

	plan := &model.NutritionPlan{
		PatientID:      patientID,
		OrganizationID: organizationID,
		Title:          req.Title,
		Goals:          req.Goals,
		Notes:          req.Notes,
		Active:         req.Active,
	}
	plan.ID = uuid.New()
	for i, m := range req.Meals {
		plan.Meals = append(plan.Meals, model.PlanMeal{
			ID:          uuid.New(),
			PlanID:      plan.ID,
			Type:        m.Type,
			Description: m.Description,
			Observation: m.Observation,
			Position:    i,
		})
	}

	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create nutrition plan: %w", err)
	}
	return plan, nil
}

func (s *Service) GetActivePlan(ctx context.Context, patientID, organizationID uuid.UUID) (*model.NutritionPlan, error) {
	plan, err := s.plans.FindActive(ctx, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active plan: %w", err)
	}
	if plan == nil {
		return nil, errors.NotFound("active nutrition plan", nil)
	}
	return plan, nil
}

func (s *Service) ListNutritionPlans(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.NutritionPlan, error) {
	plans, err := s.plans.List(ctx, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nutrition plans: %w", err)
	}
	return plans, nil
}

func (s *Service) DeactivatePlans(ctx context.Context, patientID, organizationID uuid.UUID) error {
	if err := s.plans.Deactivate(ctx, patientID, organizationID); err != nil {
		return fmt.Errorf("failed to deactivate nutrition plans: %w", err)
	}
	return nil
}

func (s *Service) CreateGuidance(ctx context.Context, patientID, organizationID uuid.UUID, req *model.CreateGuidanceRequest) (*model.Guidance, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, patientID, organizationID); err != nil {
		return nil, err
	}

	guidance := &model.Guidance{
		PatientID:         patientID,
		OrganizationID:    organizationID,
		Date:              req.Date,
		Hydration:         req.Hydration,
		PhysicalActivity:  req.PhysicalActivity,
		Sleep:             req.Sleep,
		SymptomManagement: req.SymptomManagement,
		Notes:             req.Notes,
	}
	guidance.ID = uuid.New()

	if err := s.guidance.Create(ctx, guidance); err != nil {
		return nil, fmt.Errorf("failed to create guidance: %w", err)
	}
	return guidance, nil
}

func (s *Service) ListGuidance(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.Guidance, error) {
	records, err := s.guidance.List(ctx, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guidance records: %w", err)
	}
	return records, nil
}
