package model

import (
	"time"

	"github.com/google/uuid"
)

// AnthropometryRecord is a body-measurement snapshot. Listings are always
// ordered newest-first: index 0 is the current record, index 1 the previous.
type AnthropometryRecord struct {
	Base
	PatientID        uuid.UUID `db:"patient_id" json:"patient_id"`
	OrganizationID   uuid.UUID `db:"organization_id" json:"organization_id"`
	Date             time.Time `db:"date" json:"date"`
	Weight           *float64  `db:"weight" json:"weight,omitempty"`
	Height           *float64  `db:"height" json:"height,omitempty"`
	BMI              *float64  `db:"bmi" json:"bmi,omitempty"`
	WaistCircumf     *float64  `db:"waist_circumference" json:"waist_circumference,omitempty"`
	HipCircumf       *float64  `db:"hip_circumference" json:"hip_circumference,omitempty"`
	ArmCircumf       *float64  `db:"arm_circumference" json:"arm_circumference,omitempty"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
}

type CreateAnthropometryRequest struct {
	Date         time.Time `json:"date" binding:"required"`
	Weight       *float64  `json:"weight"`
	Height       *float64  `json:"height"`
	BMI          *float64  `json:"bmi"`
	WaistCircumf *float64  `json:"waist_circumference"`
	HipCircumf   *float64  `json:"hip_circumference"`
	ArmCircumf   *float64  `json:"arm_circumference"`
	Notes        *string   `json:"notes"`
}

// AnthropometryFilters narrows the history fetch; each field is
// independently optional.
type AnthropometryFilters struct {
	PatientID      uuid.UUID
	OrganizationID uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
}
