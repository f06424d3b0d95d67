package summary

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/errors"
)

const suggestionsJSON = `[
  {
    "title": "Ingestão calórica excessiva",
    "pesFormat": "Ingestão calórica excessiva relacionada a porções aumentadas, evidenciada por ganho de 4 kg em 3 meses.",
    "rationale": "Peso e IMC em tendência de alta com relato de porções maiores."
  }
]`

func TestSuggestDiagnosesPatientNotFound(t *testing.T) {
	deps := newTestDeps()
	_, err := deps.service().SuggestDiagnoses(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSuggestDiagnosesParsesBareArray(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.generator.response = suggestionsJSON

	got, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ingestão calórica excessiva", got[0].Title)
	assert.Contains(t, got[0].PESFormat, "evidenciada por")
}

func TestSuggestDiagnosesUnwrapsCodeFence(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)

	for _, fence := range []string{
		"```json\n" + suggestionsJSON + "\n```",
		"```\n" + suggestionsJSON + "\n```",
	} {
		deps.generator.response = fence
		got, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ingestão calórica excessiva", got[0].Title)
	}
}

func TestSuggestDiagnosesUnparseableResponse(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.generator.response = "Aqui estão algumas sugestões de diagnóstico:"

	_, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.Error(t, err)
	assert.True(t, errors.IsGeneration(err))
}

func TestSuggestDiagnosesMeasurementDeltas(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.anthro.records = []*model.AnthropometryRecord{
		{Date: time.Now(), Weight: floatPtr(82), BMI: floatPtr(27.1)},
		{Date: time.Now().AddDate(0, -1, 0), Weight: floatPtr(78), BMI: floatPtr(25.8)},
		{Date: time.Now().AddDate(0, -2, 0), Weight: floatPtr(75)},
	}
	deps.generator.response = "[]"

	_, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(diagnosisPayload)
	require.NotNil(t, payload.Weight.Current)
	assert.Equal(t, 82.0, *payload.Weight.Current)
	require.NotNil(t, payload.Weight.Previous)
	assert.Equal(t, 78.0, *payload.Weight.Previous)
	require.NotNil(t, payload.Weight.Variation)
	assert.InDelta(t, 4.0, payload.Weight.Variation.Magnitude, 1e-9)
	assert.True(t, payload.Weight.Variation.IsIncrease)
	require.NotNil(t, payload.BMI.Variation)
	assert.True(t, payload.BMI.Variation.IsIncrease)
}

func TestSuggestDiagnosesNoVariationWithSingleRecord(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.anthro.records = []*model.AnthropometryRecord{
		{Date: time.Now(), Weight: floatPtr(82)},
	}
	deps.generator.response = "[]"

	_, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(diagnosisPayload)
	require.NotNil(t, payload.Weight.Current)
	assert.Nil(t, payload.Weight.Previous)
	assert.Nil(t, payload.Weight.Variation)
}

func TestSuggestDiagnosesPrefersRecentLabs(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.labs.results = []*model.LabResult{
		{Date: time.Now().AddDate(0, -1, 0), Name: "Glicemia", Value: model.ParseLabValue("110")},
		{Date: time.Now().AddDate(-1, 0, 0), Name: "Colesterol total", Value: model.ParseLabValue("220")},
	}
	deps.generator.response = "[]"

	_, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(diagnosisPayload)
	require.Len(t, payload.LabResults, 1)
	assert.Equal(t, "Glicemia", payload.LabResults[0].Name)
}

func TestSuggestDiagnosesFallsBackToOlderLabs(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	for i := 0; i < 17; i++ {
		deps.labs.results = append(deps.labs.results, &model.LabResult{
			Date:  time.Now().AddDate(-1, -i, 0),
			Name:  "Exame antigo",
			Value: model.ParseLabValue("1"),
		})
	}
	deps.generator.response = "[]"

	_, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(diagnosisPayload)
	assert.Len(t, payload.LabResults, maxDiagnosisLabResults)
}

func TestSuggestDiagnosesDietaryPattern(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.consults.consultations = []*model.Consultation{
		{Date: time.Now(), Type: model.ConsultationFollowUp, NutritionHistory: strPtr("Consome ultraprocessados diariamente"), MainComplaint: strPtr("fadiga")},
		{Date: time.Now().AddDate(0, -1, 0), Type: model.ConsultationFollowUp, NutritionHistory: strPtr("Pula o café da manhã")},
		{Date: time.Now().AddDate(0, -2, 0), Type: model.ConsultationFollowUp},
	}
	deps.generator.response = "[]"

	_, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(diagnosisPayload)
	require.NotNil(t, payload.DietaryPattern)
	assert.Equal(t,
		"Consome ultraprocessados diariamente\n\nQueixa principal: fadiga\n\nPula o café da manhã",
		*payload.DietaryPattern)
}

func TestSuggestDiagnosesNilDietaryPattern(t *testing.T) {
	deps := newTestDeps()
	orgID := uuid.New()
	deps.patients.patient = testPatient(orgID)
	deps.generator.response = "[]"

	_, err := deps.service().SuggestDiagnoses(context.Background(), orgID, deps.patients.patient.ID)
	require.NoError(t, err)

	payload := deps.generator.requests[0].Payload.(diagnosisPayload)
	assert.Nil(t, payload.DietaryPattern)
}
