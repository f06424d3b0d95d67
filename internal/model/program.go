package model

import (
	"time"

	"github.com/google/uuid"
)

// Program is a group intervention (e.g. a weight-loss group) with enrolled
// participants and a meeting series. Fetching a program always includes
// participants, meetings and per-meeting records.
type Program struct {
	Base
	OrganizationID uuid.UUID            `db:"organization_id" json:"organization_id"`
	Name           string               `db:"name" json:"name"`
	Description    *string              `db:"description" json:"description,omitempty"`
	StartDate      time.Time            `db:"start_date" json:"start_date"`
	EndDate        *time.Time           `db:"end_date" json:"end_date,omitempty"`
	Participants   []ProgramParticipant `json:"participants"`
	Meetings       []ProgramMeeting     `json:"meetings"`
}

type ProgramParticipant struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ProgramID uuid.UUID `db:"program_id" json:"program_id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}

type ProgramMeeting struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	ProgramID uuid.UUID       `db:"program_id" json:"program_id"`
	Date      time.Time       `db:"date" json:"date"`
	Topic     *string         `db:"topic" json:"topic,omitempty"`
	Records   []MeetingRecord `json:"records"`
}

// MeetingRecord is one participant's check-in at one meeting.
type MeetingRecord struct {
	ID            uuid.UUID `db:"id" json:"id"`
	MeetingID     uuid.UUID `db:"meeting_id" json:"meeting_id"`
	ParticipantID uuid.UUID `db:"participant_id" json:"participant_id"`
	Present       bool      `db:"present" json:"present"`
	Weight        *float64  `db:"weight" json:"weight,omitempty"`
	BMI           *float64  `db:"bmi" json:"bmi,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
}

type CreateProgramRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`
}

// ProgramEvolutionSummary aggregates the whole record set across meetings.
// Weight and BMI deltas are present only when the flattened series has at
// least two points; attendance falls back to 0 on an empty denominator.
type ProgramEvolutionSummary struct {
	AvgWeightChange *float64 `json:"avg_weight_change,omitempty"`
	AvgBMIChange    *float64 `json:"avg_bmi_change,omitempty"`
	AttendanceRate  float64  `json:"attendance_rate"`
}
