package summary

import (
	"time"

	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/clinical"
	"github.com/nutrivo/practice-api/internal/model"
)

// The payload types below are the structured input handed to the generation
// provider. They project the clinical entities down to facts the provider
// needs, dropping internal identifiers.

type patientFacts struct {
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Sex       string   `json:"sex"`
	Tags      []string `json:"tags"`
	Diagnoses []string `json:"diagnoses"`
	Notes     *string  `json:"notes,omitempty"`
}

type periodFacts struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type consultationEntry struct {
	Date   time.Time `json:"date"`
	Type   string    `json:"type"`
	Digest string    `json:"digest"`
}

type anthropometryEntry struct {
	Date         time.Time `json:"date"`
	Weight       *float64  `json:"weight,omitempty"`
	Height       *float64  `json:"height,omitempty"`
	BMI          *float64  `json:"bmi,omitempty"`
	WaistCircumf *float64  `json:"waist_circumference,omitempty"`
	HipCircumf   *float64  `json:"hip_circumference,omitempty"`
	ArmCircumf   *float64  `json:"arm_circumference,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
}

type labEntry struct {
	Date           time.Time      `json:"date"`
	TestType       string         `json:"test_type"`
	Name           string         `json:"name"`
	Value          model.LabValue `json:"value"`
	Unit           *string        `json:"unit,omitempty"`
	ReferenceRange *string        `json:"reference_range,omitempty"`
}

type planFacts struct {
	Title string  `json:"title"`
	Goals *string `json:"goals,omitempty"`
}

const noActivePlanNote = "Nenhum plano alimentar ativo"

type patientSummaryPayload struct {
	Patient        patientFacts         `json:"patient"`
	Period         *periodFacts         `json:"period,omitempty"`
	Consultations  []consultationEntry  `json:"consultations"`
	Anthropometry  []anthropometryEntry `json:"anthropometry"`
	LabResults     []labEntry           `json:"lab_results"`
	ActivePlan     *planFacts           `json:"active_plan,omitempty"`
	ActivePlanNote string               `json:"active_plan_note,omitempty"`
}

func buildPatientFacts(patient *model.Patient, now time.Time) patientFacts {
	return patientFacts{
		Name:      patient.Name,
		Age:       clinical.Age(patient.BirthDate, now),
		Sex:       patient.Sex.Label(),
		Tags:      append([]string{}, patient.Tags...),
		Diagnoses: clinical.ExtractDiagnoses(patient.Tags, patient.Notes),
		Notes:     patient.Notes,
	}
}

func buildConsultationEntries(consultations []*model.Consultation) []consultationEntry {
	entries := make([]consultationEntry, 0, len(consultations))
	for _, c := range consultations {
		entries = append(entries, consultationEntry{
			Date:   c.Date,
			Type:   c.Type.Label(),
			Digest: c.Digest(),
		})
	}
	return entries
}

func buildAnthropometryEntries(records []*model.AnthropometryRecord) []anthropometryEntry {
	entries := make([]anthropometryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, anthropometryEntry{
			Date:         r.Date,
			Weight:       r.Weight,
			Height:       r.Height,
			BMI:          r.BMI,
			WaistCircumf: r.WaistCircumf,
			HipCircumf:   r.HipCircumf,
			ArmCircumf:   r.ArmCircumf,
			Notes:        r.Notes,
		})
	}
	return entries
}

func buildLabEntries(results []*model.LabResult) []labEntry {
	entries := make([]labEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, labEntry{
			Date:           r.Date,
			TestType:       string(r.TestType),
			Name:           r.Name,
			Value:          r.Value,
			Unit:           r.Unit,
			ReferenceRange: r.ReferenceRange,
		})
	}
	return entries
}

// Program payload types.

type programFacts struct {
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// participantEntry carries a positional placeholder instead of the patient's
// real name; this path does not resolve display names.
type participantEntry struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

type meetingEntry struct {
	Date              time.Time `json:"date"`
	Topic             *string   `json:"topic,omitempty"`
	ParticipantsCount int       `json:"participants_count"`
}

type programSummaryPayload struct {
	Program      programFacts                   `json:"program"`
	Participants []participantEntry             `json:"participants"`
	Meetings     []meetingEntry                 `json:"meetings"`
	Evolution    *model.ProgramEvolutionSummary `json:"evolution,omitempty"`
}

// Diagnosis-suggestion payload.

type measurementDelta struct {
	Current   *float64            `json:"current,omitempty"`
	Previous  *float64            `json:"previous,omitempty"`
	Variation *clinical.Variation `json:"variation,omitempty"`
}

type diagnosisPayload struct {
	Patient        patientFacts     `json:"patient"`
	Weight         measurementDelta `json:"weight"`
	BMI            measurementDelta `json:"bmi"`
	LabResults     []labEntry       `json:"lab_results"`
	DietaryPattern *string          `json:"dietary_pattern,omitempty"`
}
