package model

import (
	"time"

	"github.com/google/uuid"
)

// SummaryType selects the instructional header prepended to the generation
// payload; the payload itself is identical across patient summary types.
type SummaryType string

const (
	SummaryWeeklyOverview SummaryType = "weekly_overview"
	SummaryFullHistory    SummaryType = "full_history"
	SummaryPreConsult     SummaryType = "pre_consult"
)

func (t SummaryType) Valid() bool {
	switch t {
	case SummaryWeeklyOverview, SummaryFullHistory, SummaryPreConsult:
		return true
	}
	return false
}

// ProgramSummaryMode selects between a whole-program overview and a single
// meeting recap.
type ProgramSummaryMode string

const (
	ProgramOverview ProgramSummaryMode = "program_overview"
	MeetingSummary  ProgramSummaryMode = "meeting_summary"
)

// SummaryArtifact is a write-once generated text, appended to the patient's
// (or program's) history and never mutated afterwards.
type SummaryArtifact struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	OrganizationID uuid.UUID  `db:"organization_id" json:"organization_id"`
	PatientID      *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	ProgramID      *uuid.UUID `db:"program_id" json:"program_id,omitempty"`
	ProfessionalID uuid.UUID  `db:"professional_id" json:"professional_id"`
	Type           string     `db:"type" json:"type"`
	PeriodStart    *time.Time `db:"period_start" json:"period_start,omitempty"`
	PeriodEnd      *time.Time `db:"period_end" json:"period_end,omitempty"`
	Content        string     `db:"content" json:"content"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// DiagnosisSuggestion is one AI-proposed nutritional diagnosis in PES
// (problem, etiology, signs/symptoms) phrasing.
type DiagnosisSuggestion struct {
	Title     string `json:"title"`
	PESFormat string `json:"pesFormat"`
	Rationale string `json:"rationale"`
}

type GenerateSummaryRequest struct {
	Type        SummaryType `json:"type" binding:"required,oneof=weekly_overview full_history pre_consult"`
	PeriodStart *time.Time  `json:"period_start"`
	PeriodEnd   *time.Time  `json:"period_end"`
}

type GenerateProgramSummaryRequest struct {
	Mode      ProgramSummaryMode `json:"mode" binding:"omitempty,oneof=program_overview meeting_summary"`
	MeetingID *uuid.UUID         `json:"meeting_id"`
}
