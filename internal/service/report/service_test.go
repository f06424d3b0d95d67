package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/errors"
)

type fakePatientRepo struct {
	patient *model.Patient
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Find(ctx context.Context, id, orgID uuid.UUID) (*model.Patient, error) {
	if f.patient != nil && f.patient.ID == id && f.patient.OrganizationID == orgID {
		return f.patient, nil
	}
	return nil, nil
}
func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error       { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error    { return nil }
func (f *fakePatientRepo) List(ctx context.Context, _ *model.PatientFilters) ([]*model.Patient, error) {
	return nil, nil
}

type fakeAnthropometryRepo struct {
	records []*model.AnthropometryRecord
}

func (f *fakeAnthropometryRepo) Create(ctx context.Context, r *model.AnthropometryRecord) error {
	return nil
}
func (f *fakeAnthropometryRepo) List(ctx context.Context, _ *model.AnthropometryFilters) ([]*model.AnthropometryRecord, error) {
	return f.records, nil
}
func (f *fakeAnthropometryRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error { return nil }

type fakeLabResultRepo struct {
	results []*model.LabResult
}

func (f *fakeLabResultRepo) Create(ctx context.Context, r *model.LabResult) error { return nil }
func (f *fakeLabResultRepo) List(ctx context.Context, _ *model.LabResultFilters) ([]*model.LabResult, error) {
	return f.results, nil
}
func (f *fakeLabResultRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error { return nil }

type fakeConsultationRepo struct {
	consultations []*model.Consultation
}

func (f *fakeConsultationRepo) Create(ctx context.Context, c *model.Consultation) error { return nil }
func (f *fakeConsultationRepo) Find(ctx context.Context, id, orgID uuid.UUID) (*model.Consultation, error) {
	return nil, nil
}
func (f *fakeConsultationRepo) List(ctx context.Context, _ *model.ConsultationFilters) ([]*model.Consultation, error) {
	return f.consultations, nil
}
func (f *fakeConsultationRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error { return nil }

type fakePlanRepo struct {
	active *model.NutritionPlan
}

func (f *fakePlanRepo) Create(ctx context.Context, p *model.NutritionPlan) error { return nil }
func (f *fakePlanRepo) FindActive(ctx context.Context, patientID, orgID uuid.UUID) (*model.NutritionPlan, error) {
	return f.active, nil
}
func (f *fakePlanRepo) List(ctx context.Context, patientID, orgID uuid.UUID) ([]*model.NutritionPlan, error) {
	return nil, nil
}
func (f *fakePlanRepo) Deactivate(ctx context.Context, patientID, orgID uuid.UUID) error {
	return nil
}

type fakeGuidanceRepo struct {
	latest *model.Guidance
}

func (f *fakeGuidanceRepo) Create(ctx context.Context, g *model.Guidance) error { return nil }
func (f *fakeGuidanceRepo) FindLatest(ctx context.Context, patientID, orgID uuid.UUID) (*model.Guidance, error) {
	return f.latest, nil
}
func (f *fakeGuidanceRepo) List(ctx context.Context, patientID, orgID uuid.UUID) ([]*model.Guidance, error) {
	return nil, nil
}

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }

func testPatient(orgID uuid.UUID) *model.Patient {
	p := &model.Patient{
		OrganizationID: orgID,
		Name:           "Maria Silva",
		BirthDate:      time.Date(1985, time.March, 10, 0, 0, 0, 0, time.UTC),
		Sex:            model.SexFemale,
		Status:         string(model.PatientStatusActive),
	}
	p.ID = uuid.New()
	return p
}

func newTestService(
	patients *fakePatientRepo,
	anthro *fakeAnthropometryRepo,
	labs *fakeLabResultRepo,
	consults *fakeConsultationRepo,
	plans *fakePlanRepo,
	guidance *fakeGuidanceRepo,
) *Service {
	return NewService(patients, anthro, labs, consults, plans, guidance, nil)
}

func TestBuildPatientReportPatientNotFound(t *testing.T) {
	svc := newTestService(&fakePatientRepo{}, &fakeAnthropometryRepo{}, &fakeLabResultRepo{}, &fakeConsultationRepo{}, &fakePlanRepo{}, &fakeGuidanceRepo{})

	_, err := svc.BuildPatientReport(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBuildPatientReportEmptySourcesOmitted(t *testing.T) {
	orgID := uuid.New()
	patient := testPatient(orgID)
	svc := newTestService(&fakePatientRepo{patient: patient}, &fakeAnthropometryRepo{}, &fakeLabResultRepo{}, &fakeConsultationRepo{}, &fakePlanRepo{}, &fakeGuidanceRepo{})

	got, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.NoError(t, err)

	require.Len(t, got.Sections, 1)
	assert.Equal(t, "Dados do Paciente", got.Sections[0].Title)
	assert.Contains(t, got.Sections[0].Content, "Nome: Maria Silva")
	assert.Contains(t, got.Sections[0].Content, "Data de nascimento: 10/03/1985")
	assert.Contains(t, got.Sections[0].Content, "Sexo: Feminino")
	assert.Equal(t, "Maria Silva", got.PatientName)
}

func TestBuildPatientReportSectionOrder(t *testing.T) {
	orgID := uuid.New()
	patient := testPatient(orgID)

	anthro := &fakeAnthropometryRepo{records: []*model.AnthropometryRecord{
		{Date: time.Now(), Weight: floatPtr(72.5), BMI: floatPtr(25.1)},
		{Date: time.Now().AddDate(0, -1, 0), Weight: floatPtr(74.0)},
	}}
	consults := &fakeConsultationRepo{consultations: []*model.Consultation{
		{Date: time.Now(), Type: model.ConsultationFollowUp, MainComplaint: strPtr("cansaço")},
	}}
	svc := newTestService(&fakePatientRepo{patient: patient}, anthro, &fakeLabResultRepo{}, consults, &fakePlanRepo{}, &fakeGuidanceRepo{})

	got, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.NoError(t, err)

	titles := make([]string, 0, len(got.Sections))
	for _, s := range got.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Dados do Paciente", "Antropometria", "Histórico de Consultas"}, titles)

	// Only the most recent anthropometry record is rendered.
	assert.Contains(t, got.Sections[1].Content, "Peso: 72.5 kg")
	assert.NotContains(t, got.Sections[1].Content, "74.0")
}

func TestBuildPatientReportTruncation(t *testing.T) {
	orgID := uuid.New()
	patient := testPatient(orgID)

	labs := &fakeLabResultRepo{}
	for i := 0; i < 12; i++ {
		labs.results = append(labs.results, &model.LabResult{
			Date:     time.Now().AddDate(0, 0, -i),
			TestType: model.LabTestBlood,
			Name:     fmt.Sprintf("Exame %d", i),
			Value:    model.ParseLabValue("5.7"),
		})
	}
	consults := &fakeConsultationRepo{}
	for i := 0; i < 7; i++ {
		consults.consultations = append(consults.consultations, &model.Consultation{
			Date:          time.Now().AddDate(0, 0, -i),
			Type:          model.ConsultationFollowUp,
			MainComplaint: strPtr(fmt.Sprintf("queixa %d", i)),
		})
	}
	svc := newTestService(&fakePatientRepo{patient: patient}, &fakeAnthropometryRepo{}, labs, consults, &fakePlanRepo{}, &fakeGuidanceRepo{})

	got, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 3)

	labSection := got.Sections[1]
	assert.Contains(t, labSection.Content, "Exame 9")
	assert.NotContains(t, labSection.Content, "Exame 10")

	consultSection := got.Sections[2]
	assert.Contains(t, consultSection.Content, "queixa 4")
	assert.NotContains(t, consultSection.Content, "queixa 5")
}

func TestBuildPatientReportCorruptAnthropometryHead(t *testing.T) {
	orgID := uuid.New()
	patient := testPatient(orgID)
	anthro := &fakeAnthropometryRepo{records: []*model.AnthropometryRecord{nil}}
	svc := newTestService(&fakePatientRepo{patient: patient}, anthro, &fakeLabResultRepo{}, &fakeConsultationRepo{}, &fakePlanRepo{}, &fakeGuidanceRepo{})

	_, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.Error(t, err)
	assert.True(t, errors.IsDataIntegrity(err))
}

func TestBuildPatientReportPlanAndGuidance(t *testing.T) {
	orgID := uuid.New()
	patient := testPatient(orgID)

	plans := &fakePlanRepo{active: &model.NutritionPlan{
		Title:  "Plano de emagrecimento",
		Goals:  strPtr("Perder 4 kg em 2 meses"),
		Active: true,
		Meals: []model.PlanMeal{
			{Type: model.MealBreakfast, Description: "Ovos mexidos e fruta", Observation: strPtr("sem açúcar")},
		},
	}}
	guidance := &fakeGuidanceRepo{latest: &model.Guidance{
		Date:      time.Now(),
		Hydration: strPtr("2 litros de água por dia"),
		Sleep:     strPtr("dormir 8 horas"),
	}}
	svc := newTestService(&fakePatientRepo{patient: patient}, &fakeAnthropometryRepo{}, &fakeLabResultRepo{}, &fakeConsultationRepo{}, plans, guidance)

	got, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 3)

	planSection := got.Sections[1]
	assert.Equal(t, "Plano Alimentar Ativo", planSection.Title)
	assert.Contains(t, planSection.Content, "Plano de emagrecimento")
	assert.Contains(t, planSection.Content, "Objetivos: Perder 4 kg em 2 meses")
	assert.Contains(t, planSection.Content, "Café da manhã:")
	assert.Contains(t, planSection.Content, "Obs: sem açúcar")

	guidanceSection := got.Sections[2]
	assert.Equal(t, "Orientações Gerais", guidanceSection.Title)
	assert.Contains(t, guidanceSection.Content, "Hidratação: 2 litros de água por dia")
	assert.Contains(t, guidanceSection.Content, "Sono: dormir 8 horas")
}

func TestBuildPatientReportLabLineFormat(t *testing.T) {
	orgID := uuid.New()
	patient := testPatient(orgID)

	labs := &fakeLabResultRepo{results: []*model.LabResult{{
		Date:           time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC),
		TestType:       model.LabTestBlood,
		Name:           "Hemoglobina glicada",
		Value:          model.ParseLabValue("<5.7"),
		Unit:           strPtr("%"),
		ReferenceRange: strPtr("< 5.7"),
	}}}
	svc := newTestService(&fakePatientRepo{patient: patient}, &fakeAnthropometryRepo{}, labs, &fakeConsultationRepo{}, &fakePlanRepo{}, &fakeGuidanceRepo{})

	got, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "20/05/2025 - Hemoglobina glicada: <5.7 % (Referência: < 5.7)", got.Sections[1].Content)
}

func TestBuildPatientReportCached(t *testing.T) {
	orgID := uuid.New()
	patient := testPatient(orgID)
	labs := &fakeLabResultRepo{}
	svc := newTestService(&fakePatientRepo{patient: patient}, &fakeAnthropometryRepo{}, labs, &fakeConsultationRepo{}, &fakePlanRepo{}, &fakeGuidanceRepo{})

	first, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.NoError(t, err)

	// New data after assembly does not show up until the cache expires.
	labs.results = append(labs.results, &model.LabResult{
		Date:  time.Now(),
		Name:  "Glicemia",
		Value: model.ParseLabValue("98"),
	})
	second, err := svc.BuildPatientReport(context.Background(), orgID, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, second.Sections, 1)
}
