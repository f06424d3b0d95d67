package model

import (
	"time"

	"github.com/google/uuid"
)

// Guidance holds general non-dietary recommendations; the report uses only
// the most recent record per patient.
type Guidance struct {
	Base
	PatientID         uuid.UUID `db:"patient_id" json:"patient_id"`
	OrganizationID    uuid.UUID `db:"organization_id" json:"organization_id"`
	Date              time.Time `db:"date" json:"date"`
	Hydration         *string   `db:"hydration" json:"hydration,omitempty"`
	PhysicalActivity  *string   `db:"physical_activity" json:"physical_activity,omitempty"`
	Sleep             *string   `db:"sleep" json:"sleep,omitempty"`
	SymptomManagement *string   `db:"symptom_management" json:"symptom_management,omitempty"`
	Notes             *string   `db:"notes" json:"notes,omitempty"`
}

type CreateGuidanceRequest struct {
	Date              time.Time `json:"date" binding:"required"`
	Hydration         *string   `json:"hydration"`
	PhysicalActivity  *string   `json:"physical_activity"`
	Sleep             *string   `json:"sleep"`
	SymptomManagement *string   `json:"symptom_management"`
	Notes             *string   `json:"notes"`
}
