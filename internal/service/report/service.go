package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/metrics"
)

const (
	cacheTTL     = 60 * time.Second
	cacheCleanup = 5 * time.Minute
)

// Service assembles the narrative patient report from every clinical data
// source. Assembly is read-only; the only state is a short-lived cache.
type Service struct {
	patients      repository.PatientRepository
	anthropometry repository.AnthropometryRepository
	labResults    repository.LabResultRepository
	consultations repository.ConsultationRepository
	plans         repository.NutritionPlanRepository
	guidance      repository.GuidanceRepository
	cache         *gocache.Cache
	metrics       *metrics.Metrics
}

func NewService(
	patients repository.PatientRepository,
	anthropometry repository.AnthropometryRepository,
	labResults repository.LabResultRepository,
	consultations repository.ConsultationRepository,
	plans repository.NutritionPlanRepository,
	guidance repository.GuidanceRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		patients:      patients,
		anthropometry: anthropometry,
		labResults:    labResults,
		consultations: consultations,
		plans:         plans,
		guidance:      guidance,
		cache:         gocache.New(cacheTTL, cacheCleanup),
		metrics:       m,
	}
}

// BuildPatientReport produces the ordered section list for one patient. The
// patient-data section is always present; every other section is omitted when
// its source has no records.
func (s *Service) BuildPatientReport(ctx context.Context, organizationID, patientID uuid.UUID) (*model.PatientReport, error) {
	cacheKey := organizationID.String() + ":" + patientID.String()
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*model.PatientReport), nil
	}

	patient, err := s.patients.Find(ctx, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if patient == nil {
		return nil, errors.NotFound("patient", nil)
	}

	var (
		anthropometry []*model.AnthropometryRecord
		labResults    []*model.LabResult
		consultations []*model.Consultation
		activePlan    *model.NutritionPlan
		latestGuide   *model.Guidance
	)

	// The sources are independent and read-only, so they are fetched
	// concurrently; ordering and truncation never depend on completion order.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		anthropometry, err = s.anthropometry.List(gctx, &model.AnthropometryFilters{
			PatientID:      patientID,
			OrganizationID: organizationID,
		})
		return err
	})
	g.Go(func() error {
		var err error
		labResults, err = s.labResults.List(gctx, &model.LabResultFilters{
			PatientID:      patientID,
			OrganizationID: organizationID,
		})
		return err
	})
	g.Go(func() error {
		var err error
		consultations, err = s.consultations.List(gctx, &model.ConsultationFilters{
			OrganizationID: organizationID,
			PatientID:      &patientID,
		})
		return err
	})
	g.Go(func() error {
		var err error
		activePlan, err = s.plans.FindActive(gctx, patientID, organizationID)
		return err
	})
	g.Go(func() error {
		var err error
		latestGuide, err = s.guidance.FindLatest(gctx, patientID, organizationID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch clinical data: %w", err)
	}

	sections := []model.ReportSection{patientDataSection(patient)}

	anthroSection, err := anthropometrySection(anthropometry)
	if err != nil {
		return nil, err
	}
	if anthroSection != nil {
		sections = append(sections, *anthroSection)
	}
	if section := labResultsSection(labResults); section != nil {
		sections = append(sections, *section)
	}
	if section := consultationsSection(consultations); section != nil {
		sections = append(sections, *section)
	}
	if section := activePlanSection(activePlan); section != nil {
		sections = append(sections, *section)
	}
	if section := guidanceSection(latestGuide); section != nil {
		sections = append(sections, *section)
	}

	result := &model.PatientReport{
		PatientID:   patientID,
		PatientName: patient.Name,
		GeneratedAt: time.Now(),
		Sections:    sections,
	}

	if s.metrics != nil {
		s.metrics.ReportsAssembled.Inc()
	}
	s.cache.Set(cacheKey, result, gocache.DefaultExpiration)
	return result, nil
}
