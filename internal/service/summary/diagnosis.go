package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nutrivo/practice-api/internal/clinical"
	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/generation"
)

const (
	maxDiagnosisLabResults    = 15
	maxDiagnosisConsultations = 5
	labRecencyWindow          = 6 * 30 * 24 * time.Hour
)

// SuggestDiagnoses assembles the diagnostic payload and asks the provider
// for PES-format suggestions. The response must be a bare JSON array,
// optionally wrapped in a markdown code fence; anything else is a
// generation failure. Nothing is persisted on this path.
func (s *Service) SuggestDiagnoses(ctx context.Context, organizationID, patientID uuid.UUID) ([]model.DiagnosisSuggestion, error) {
	patient, err := s.patients.Find(ctx, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if patient == nil {
		return nil, errors.NotFound("patient", nil)
	}

	var (
		records       []*model.AnthropometryRecord
		labs          []*model.LabResult
		consultations []*model.Consultation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.anthropometry.List(gctx, &model.AnthropometryFilters{
			PatientID:      patientID,
			OrganizationID: organizationID,
		})
		return err
	})
	g.Go(func() error {
		var err error
		labs, err = s.labResults.List(gctx, &model.LabResultFilters{
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
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch clinical data: %w", err)
	}

	now := time.Now()
	payload := diagnosisPayload{
		Patient:        buildPatientFacts(patient, now),
		Weight:         buildMeasurementDelta(records, func(r *model.AnthropometryRecord) *float64 { return r.Weight }),
		BMI:            buildMeasurementDelta(records, func(r *model.AnthropometryRecord) *float64 { return r.BMI }),
		LabResults:     buildLabEntries(selectDiagnosisLabs(labs, now)),
		DietaryPattern: buildDietaryPattern(consultations),
	}

	text, err := s.generator.Generate(ctx, generation.Request{
		Instructions: promptDiagnosisSuggestions,
		Payload:      payload,
	})
	if err != nil {
		return nil, errors.GenerationFailed("diagnosis suggestion generation failed", err)
	}

	suggestions, err := parseDiagnosisResponse(text)
	if err != nil {
		s.logger.Error(err, "unparseable diagnosis suggestion response")
		return nil, errors.GenerationFailed("provider returned an unparseable diagnosis response", err)
	}
	return suggestions, nil
}

func buildMeasurementDelta(records []*model.AnthropometryRecord, pick func(*model.AnthropometryRecord) *float64) measurementDelta {
	var delta measurementDelta
	if len(records) > 0 && records[0] != nil {
		delta.Current = pick(records[0])
	}
	if len(records) > 1 && records[1] != nil {
		delta.Previous = pick(records[1])
	}
	delta.Variation = clinical.ComputeVariation(delta.Current, delta.Previous)
	return delta
}

// selectDiagnosisLabs prefers results from the last six months; only when
// that window is empty does it fall back to the most recent results overall.
// Lists arrive newest-first, so a prefix cut keeps the most recent entries.
func selectDiagnosisLabs(labs []*model.LabResult, now time.Time) []*model.LabResult {
	cutoff := now.Add(-labRecencyWindow)
	var recent []*model.LabResult
	for _, l := range labs {
		if !l.Date.Before(cutoff) {
			recent = append(recent, l)
		}
	}
	selected := recent
	if len(selected) == 0 {
		selected = labs
	}
	if len(selected) > maxDiagnosisLabResults {
		selected = selected[:maxDiagnosisLabResults]
	}
	return selected
}

// buildDietaryPattern concatenates the nutrition history of the most recent
// consultations, with the main complaint folded in when present. Returns nil
// when no consultation contributes anything.
func buildDietaryPattern(consultations []*model.Consultation) *string {
	if len(consultations) > maxDiagnosisConsultations {
		consultations = consultations[:maxDiagnosisConsultations]
	}
	var parts []string
	for _, c := range consultations {
		if c.NutritionHistory != nil && *c.NutritionHistory != "" {
			parts = append(parts, *c.NutritionHistory)
		}
		if c.MainComplaint != nil && *c.MainComplaint != "" {
			parts = append(parts, "Queixa principal: "+*c.MainComplaint)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	pattern := strings.Join(parts, "\n\n")
	return &pattern
}

// parseDiagnosisResponse tolerates a fenced code block around the JSON array
// but nothing else.
func parseDiagnosisResponse(text string) ([]model.DiagnosisSuggestion, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	var suggestions []model.DiagnosisSuggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode diagnosis suggestions: %w", err)
	}
	return suggestions, nil
}
