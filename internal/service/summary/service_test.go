package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/generation"
	"github.com/nutrivo/practice-api/pkg/logger"
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
func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error    { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id, orgID uuid.UUID) error { return nil }
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

type fakeProgramRepo struct {
	program *model.Program
}

func (f *fakeProgramRepo) Create(ctx context.Context, p *model.Program) error { return nil }
func (f *fakeProgramRepo) Find(ctx context.Context, id, orgID uuid.UUID) (*model.Program, error) {
	if f.program != nil && f.program.ID == id && f.program.OrganizationID == orgID {
		return f.program, nil
	}
	return nil, nil
}
func (f *fakeProgramRepo) List(ctx context.Context, orgID uuid.UUID) ([]*model.Program, error) {
	return nil, nil
}
func (f *fakeProgramRepo) AddParticipant(ctx context.Context, p *model.ProgramParticipant) error {
	return nil
}
func (f *fakeProgramRepo) AddMeeting(ctx context.Context, m *model.ProgramMeeting) error { return nil }
func (f *fakeProgramRepo) AddMeetingRecord(ctx context.Context, r *model.MeetingRecord) error {
	return nil
}

type fakeSummaryRepo struct {
	created []*model.SummaryArtifact
	listed  []*model.SummaryArtifact
}

func (f *fakeSummaryRepo) Create(ctx context.Context, a *model.SummaryArtifact) error {
	f.created = append(f.created, a)
	return nil
}
func (f *fakeSummaryRepo) ListForPatient(ctx context.Context, patientID, orgID uuid.UUID) ([]*model.SummaryArtifact, error) {
	return f.listed, nil
}
func (f *fakeSummaryRepo) ListForProgram(ctx context.Context, programID, orgID uuid.UUID) ([]*model.SummaryArtifact, error) {
	return f.listed, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	return nil
}
func (f *fakeOutboxRepo) MarkRetry(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	return nil
}
func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// fakeGenerator records the request it received and replies with a scripted
// response or error.
type fakeGenerator struct {
	response string
	err      error
	requests []generation.Request
}

func (f *fakeGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type testDeps struct {
	patients  *fakePatientRepo
	anthro    *fakeAnthropometryRepo
	labs      *fakeLabResultRepo
	consults  *fakeConsultationRepo
	plans     *fakePlanRepo
	programs  *fakeProgramRepo
	summaries *fakeSummaryRepo
	outbox    *fakeOutboxRepo
	generator *fakeGenerator
}

func newTestDeps() *testDeps {
	return &testDeps{
		patients:  &fakePatientRepo{},
		anthro:    &fakeAnthropometryRepo{},
		labs:      &fakeLabResultRepo{},
		consults:  &fakeConsultationRepo{},
		plans:     &fakePlanRepo{},
		programs:  &fakeProgramRepo{},
		summaries: &fakeSummaryRepo{},
		outbox:    &fakeOutboxRepo{},
		generator: &fakeGenerator{response: "Resumo gerado."},
	}
}

func (d *testDeps) service() *Service {
	return NewService(
		d.patients, d.anthro, d.labs, d.consults, d.plans, d.programs,
		d.summaries, d.outbox, d.generator, logger.NewLogger(nil), nil,
	)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func testPatient(orgID uuid.UUID) *model.Patient {
	p := &model.Patient{
		OrganizationID: orgID,
		Name:           "João Pereira",
		BirthDate:      time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC),
		Sex:            model.SexMale,
		Tags:           []string{"diabetes tipo 2"},
		Status:         string(model.PatientStatusActive),
	}
	p.ID = uuid.New()
	return p
}

func TestGeneratePatientSummaryInvalidType(t *testing.T) {
	deps := newTestDeps()
	_, err := deps.service().GeneratePatientSummary(context.Background(), SummaryRequest{
		OrganizationID: uuid.New(),
		PatientID:      uuid.New(),
		Type:           model.SummaryType("quarterly"),
	})
	require.Error(t, err)
	assert.True(t, errors.IsBadRequest(err))
	assert.Empty(t, deps.generator.requests)
}

func TestGeneratePatientSummaryPatientNotFound(t *testing.T) {
	deps := newTestDeps()
	_, err := deps.service().GeneratePatientSummary(context.Background(), SummaryRequest{
		OrganizationID: uuid.New(),
		PatientID:      uuid.New(),
		Type:           model.SummaryWeeklyOverview,
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGeneratePatientSummaryGenerationFailureNotPersisted(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.generator.err = fmt.Errorf("provider unavailable")

	_, err := deps.service().GeneratePatientSummary(context.Background(), SummaryRequest{
		OrganizationID: orgID,
		PatientID:      deps.patients.patient.ID,
		ProfessionalID: uuid.New(),
		Type:           model.SummaryFullHistory,
	})
	require.Error(t, err)
	assert.True(t, errors.IsGeneration(err))
	assert.Empty(t, deps.summaries.created)
	assert.Empty(t, deps.outbox.events)
}

func TestGeneratePatientSummarySuccess(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.plans.active = &model.NutritionPlan{Title: "Plano low carb", Goals: strPtr("Reduzir HbA1c")}
	professionalID := uuid.New()
	start := time.Now().AddDate(0, 0, -7)
	end := time.Now()

	artifact, err := deps.service().GeneratePatientSummary(context.Background(), SummaryRequest{
		OrganizationID: orgID,
		PatientID:      deps.patients.patient.ID,
		ProfessionalID: professionalID,
		Type:           model.SummaryWeeklyOverview,
		PeriodStart:    &start,
		PeriodEnd:      &end,
	})
	require.NoError(t, err)

	assert.Equal(t, "weekly_overview", artifact.Type)
	require.NotNil(t, artifact.PatientID)
	assert.Equal(t, deps.patients.patient.ID, *artifact.PatientID)
	assert.Nil(t, artifact.ProgramID)
	assert.Equal(t, professionalID, artifact.ProfessionalID)
	assert.Equal(t, &start, artifact.PeriodStart)
	assert.Equal(t, &end, artifact.PeriodEnd)
	assert.Equal(t, "Resumo gerado.", artifact.Content)

	require.Len(t, deps.summaries.created, 1)
	assert.Same(t, artifact, deps.summaries.created[0])

	require.Len(t, deps.outbox.events, 1)
	assert.Equal(t, model.EventSummaryCreated, deps.outbox.events[0].EventType)
	var published model.SummaryArtifact
	require.NoError(t, json.Unmarshal(deps.outbox.events[0].Payload, &published))
	assert.Equal(t, artifact.ID, published.ID)

	require.Len(t, deps.generator.requests, 1)
	payload, ok := deps.generator.requests[0].Payload.(patientSummaryPayload)
	require.True(t, ok)
	require.NotNil(t, payload.ActivePlan)
	assert.Equal(t, "Plano low carb", payload.ActivePlan.Title)
	assert.Empty(t, payload.ActivePlanNote)
	require.NotNil(t, payload.Period)
	assert.Equal(t, &start, payload.Period.Start)
	assert.Equal(t, []string{"diabetes tipo 2"}, payload.Patient.Diagnoses)
}

func TestGeneratePatientSummaryNoActivePlanNote(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)

	_, err := deps.service().GeneratePatientSummary(context.Background(), SummaryRequest{
		OrganizationID: orgID,
		PatientID:      deps.patients.patient.ID,
		ProfessionalID: uuid.New(),
		Type:           model.SummaryPreConsult,
	})
	require.NoError(t, err)

	require.Len(t, deps.generator.requests, 1)
	payload := deps.generator.requests[0].Payload.(patientSummaryPayload)
	assert.Nil(t, payload.ActivePlan)
	assert.Equal(t, noActivePlanNote, payload.ActivePlanNote)
	assert.Nil(t, payload.Period)
}

func testProgram(orgID uuid.UUID) *model.Program {
	prog := &model.Program{
		OrganizationID: orgID,
		Name:           "Emagrecimento em Grupo",
		StartDate:      time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
	prog.ID = uuid.New()
	return prog
}

func TestGenerateProgramSummaryNotFound(t *testing.T) {
	deps := newTestDeps()
	_, err := deps.service().GenerateProgramSummary(context.Background(), ProgramSummaryRequest{
		OrganizationID: uuid.New(),
		ProgramID:      uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGenerateProgramSummaryDefaultsToOverview(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.programs.program = testProgram(orgID)

	artifact, err := deps.service().GenerateProgramSummary(context.Background(), ProgramSummaryRequest{
		OrganizationID: orgID,
		ProgramID:      deps.programs.program.ID,
		ProfessionalID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.ProgramOverview), artifact.Type)
	require.NotNil(t, artifact.ProgramID)
	assert.Equal(t, deps.programs.program.ID, *artifact.ProgramID)
	assert.Nil(t, artifact.PatientID)
	require.Len(t, deps.summaries.created, 1)
}

func TestGenerateProgramSummaryMeetingModeFiltersMeetings(t *testing.T) {
	orgID := uuid.New()
	program := testProgram(orgID)
	meetingA := model.ProgramMeeting{ID: uuid.New(), ProgramID: program.ID, Date: time.Now().AddDate(0, 0, -14), Topic: strPtr("Rotulagem")}
	meetingB := model.ProgramMeeting{
		ID: uuid.New(), ProgramID: program.ID, Date: time.Now().AddDate(0, 0, -7), Topic: strPtr("Planejamento de refeições"),
		Records: []model.MeetingRecord{
			{ID: uuid.New(), MeetingID: uuid.New(), Present: true},
			{ID: uuid.New(), MeetingID: uuid.New(), Present: false},
		},
	}
	program.Meetings = []model.ProgramMeeting{meetingA, meetingB}

	cases := []struct {
		name      string
		meetingID *uuid.UUID
		want      int
	}{
		{"nil id yields zero meetings", nil, 0},
		{"unmatched id yields zero meetings", func() *uuid.UUID { id := uuid.New(); return &id }(), 0},
		{"matched id yields that meeting", &meetingB.ID, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.programs.program = program

			_, err := deps.service().GenerateProgramSummary(context.Background(), ProgramSummaryRequest{
				OrganizationID: orgID,
				ProgramID:      program.ID,
				ProfessionalID: uuid.New(),
				Mode:           model.MeetingSummary,
				MeetingID:      tc.meetingID,
			})
			require.NoError(t, err)

			payload := deps.generator.requests[0].Payload.(programSummaryPayload)
			require.Len(t, payload.Meetings, tc.want)
			if tc.want == 1 {
				assert.Equal(t, meetingB.Topic, payload.Meetings[0].Topic)
				assert.Equal(t, 2, payload.Meetings[0].ParticipantsCount)
			}
		})
	}
}

func TestGenerateProgramSummaryParticipantPlaceholders(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	program := testProgram(orgID)
	program.Participants = []model.ProgramParticipant{
		{ID: uuid.New(), PatientID: uuid.New(), JoinedAt: time.Now().AddDate(0, -1, 0)},
		{ID: uuid.New(), PatientID: uuid.New(), JoinedAt: time.Now()},
	}
	deps.programs.program = program

	_, err := deps.service().GenerateProgramSummary(context.Background(), ProgramSummaryRequest{
		OrganizationID: orgID,
		ProgramID:      program.ID,
		ProfessionalID: uuid.New(),
	})
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(programSummaryPayload)
	require.Len(t, payload.Participants, 2)
	assert.Equal(t, "Participante 1", payload.Participants[0].Name)
	assert.Equal(t, "Participante 2", payload.Participants[1].Name)
	assert.Equal(t, program.Participants[0].PatientID, payload.Participants[0].ID)
}

func TestGenerateProgramSummaryEvolution(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	program := testProgram(orgID)
	program.Participants = []model.ProgramParticipant{
		{ID: uuid.New(), PatientID: uuid.New()},
		{ID: uuid.New(), PatientID: uuid.New()},
	}
	program.Meetings = []model.ProgramMeeting{
		{ID: uuid.New(), Date: time.Now().AddDate(0, 0, -14), Records: []model.MeetingRecord{
			{Present: true, Weight: floatPtr(90)},
			{Present: true, Weight: floatPtr(80)},
		}},
		{ID: uuid.New(), Date: time.Now().AddDate(0, 0, -7), Records: []model.MeetingRecord{
			{Present: true, Weight: floatPtr(88)},
			{Present: false, Weight: floatPtr(78)},
		}},
	}
	deps.programs.program = program

	_, err := deps.service().GenerateProgramSummary(context.Background(), ProgramSummaryRequest{
		OrganizationID: orgID,
		ProgramID:      program.ID,
		ProfessionalID: uuid.New(),
	})
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(programSummaryPayload)
	require.NotNil(t, payload.Evolution)
	// Pooled weights [90 80 88 78]: second-half mean 83 minus first-half mean 85.
	require.NotNil(t, payload.Evolution.AvgWeightChange)
	assert.InDelta(t, -2.0, *payload.Evolution.AvgWeightChange, 1e-9)
	assert.Nil(t, payload.Evolution.AvgBMIChange)
	// 3 of 4 records present over 2 participants and 2 meetings.
	assert.InDelta(t, 0.75, payload.Evolution.AttendanceRate, 1e-9)
}

func TestGenerateProgramSummaryNoEvolutionWithoutRecords(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	program := testProgram(orgID)
	program.Meetings = []model.ProgramMeeting{{ID: uuid.New(), Date: time.Now()}}
	deps.programs.program = program

	_, err := deps.service().GenerateProgramSummary(context.Background(), ProgramSummaryRequest{
		OrganizationID: orgID,
		ProgramID:      program.ID,
		ProfessionalID: uuid.New(),
	})
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(programSummaryPayload)
	assert.Nil(t, payload.Evolution)
}

func TestGenerateProgramSummaryGenerationFailureNotPersisted(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.programs.program = testProgram(orgID)
	deps.generator.err = fmt.Errorf("provider unavailable")

	_, err := deps.service().GenerateProgramSummary(context.Background(), ProgramSummaryRequest{
		OrganizationID: orgID,
		ProgramID:      deps.programs.program.ID,
		ProfessionalID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, errors.IsGeneration(err))
	assert.Empty(t, deps.summaries.created)
	assert.Empty(t, deps.outbox.events)
}
