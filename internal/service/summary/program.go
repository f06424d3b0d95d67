package summary

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/clinical"
	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/generation"
)

type ProgramSummaryRequest struct {
	OrganizationID uuid.UUID
	ProgramID      uuid.UUID
	ProfessionalID uuid.UUID
	Mode           model.ProgramSummaryMode
	MeetingID      *uuid.UUID
}

// GenerateProgramSummary builds the group-program payload and persists the
// generated artifact. In meeting mode the meeting list is filtered down to
// the requested meeting; an absent or unmatched meeting id filters it down to
// zero entries rather than failing.
func (s *Service) GenerateProgramSummary(ctx context.Context, req ProgramSummaryRequest) (*model.SummaryArtifact, error) {
	mode := req.Mode
	if mode == "" {
		mode = model.ProgramOverview
	}

	program, err := s.programs.Find(ctx, req.ProgramID, req.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch program: %w", err)
	}
	if program == nil {
		return nil, errors.NotFound("program", nil)
	}

	meetings := program.Meetings
	if mode == model.MeetingSummary {
		meetings = filterMeetings(meetings, req.MeetingID)
	}

	payload := programSummaryPayload{
		Program: programFacts{
			Name:        program.Name,
			Description: program.Description,
			StartDate:   program.StartDate,
			EndDate:     program.EndDate,
		},
		Participants: buildParticipantEntries(program.Participants),
		Meetings:     buildMeetingEntries(meetings),
		Evolution:    buildEvolutionSummary(program),
	}

	text, err := s.generator.Generate(ctx, generation.Request{
		Instructions: programInstructionsFor(mode),
		Payload:      payload,
	})
	if err != nil {
		return nil, errors.GenerationFailed("program summary generation failed", err)
	}

	artifact := &model.SummaryArtifact{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		ProgramID:      &req.ProgramID,
		ProfessionalID: req.ProfessionalID,
		Type:           string(mode),
		Content:        text,
	}
	if err := s.summaries.Create(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to persist program summary: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SummariesCreated.WithLabelValues(artifact.Type).Inc()
	}
	s.publishEvent(ctx, artifact)
	return artifact, nil
}

func (s *Service) ListProgramSummaries(ctx context.Context, organizationID, programID uuid.UUID) ([]*model.SummaryArtifact, error) {
	artifacts, err := s.summaries.ListForProgram(ctx, programID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list program summaries: %w", err)
	}
	return artifacts, nil
}

func filterMeetings(meetings []model.ProgramMeeting, meetingID *uuid.UUID) []model.ProgramMeeting {
	filtered := []model.ProgramMeeting{}
	if meetingID == nil {
		return filtered
	}
	for _, m := range meetings {
		if m.ID == *meetingID {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// buildParticipantEntries emits positional placeholder names; real display
// names are not resolved in this path.
func buildParticipantEntries(participants []model.ProgramParticipant) []participantEntry {
	entries := make([]participantEntry, 0, len(participants))
	for i, p := range participants {
		entries = append(entries, participantEntry{
			ID:       p.PatientID,
			Name:     fmt.Sprintf("Participante %d", i+1),
			JoinedAt: p.JoinedAt,
		})
	}
	return entries
}

// buildMeetingEntries annotates each meeting with the count of check-in
// records, not the count of invited participants.
func buildMeetingEntries(meetings []model.ProgramMeeting) []meetingEntry {
	entries := make([]meetingEntry, 0, len(meetings))
	for _, m := range meetings {
		entries = append(entries, meetingEntry{
			Date:              m.Date,
			Topic:             m.Topic,
			ParticipantsCount: len(m.Records),
		})
	}
	return entries
}

// buildEvolutionSummary flattens the record set across all meetings in
// meeting order and compares the first and second halves of the pooled
// series. This is a whole-group measure, not per-participant tracking.
func buildEvolutionSummary(program *model.Program) *model.ProgramEvolutionSummary {
	if len(program.Meetings) == 0 {
		return nil
	}

	var flattened []model.MeetingRecord
	for _, m := range program.Meetings {
		flattened = append(flattened, m.Records...)
	}
	if len(flattened) == 0 {
		return nil
	}

	var weights, bmis []float64
	for _, r := range flattened {
		if r.Weight != nil {
			weights = append(weights, *r.Weight)
		}
		if r.BMI != nil {
			bmis = append(bmis, *r.BMI)
		}
	}

	return &model.ProgramEvolutionSummary{
		AvgWeightChange: clinical.HalvesDelta(weights),
		AvgBMIChange:    clinical.HalvesDelta(bmis),
		AttendanceRate:  clinical.AttendanceRate(flattened, len(program.Participants), len(program.Meetings)),
	}
}
