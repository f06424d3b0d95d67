package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ConsultationType string

const (
	ConsultationFirst        ConsultationType = "first"
	ConsultationFollowUp     ConsultationType = "follow_up"
	ConsultationReassessment ConsultationType = "reassessment"
)

func (t ConsultationType) Label() string {
	switch t {
	case ConsultationFirst:
		return "Primeira consulta"
	case ConsultationFollowUp:
		return "Retorno"
	case ConsultationReassessment:
		return "Reavaliação"
	default:
		return "Consulta"
	}
}

type Consultation struct {
	Base
	PatientID        uuid.UUID        `db:"patient_id" json:"patient_id"`
	OrganizationID   uuid.UUID        `db:"organization_id" json:"organization_id"`
	ProfessionalID   uuid.UUID        `db:"professional_id" json:"professional_id"`
	Date             time.Time        `db:"date" json:"date"`
	Type             ConsultationType `db:"type" json:"type"`
	MainComplaint    *string          `db:"main_complaint" json:"main_complaint,omitempty"`
	Diagnosis        *string          `db:"diagnosis" json:"diagnosis,omitempty"`
	Plan             *string          `db:"plan" json:"plan,omitempty"`
	NutritionHistory *string          `db:"nutrition_history" json:"nutrition_history,omitempty"`
	Notes            *string          `db:"notes" json:"notes,omitempty"`
}

// Digest reduces the consultation to a single line: complaint, diagnosis and
// conduct joined in that fixed order, skipping absent fields.
func (c *Consultation) Digest() string {
	var parts []string
	if c.MainComplaint != nil && *c.MainComplaint != "" {
		parts = append(parts, "Queixa: "+*c.MainComplaint)
	}
	if c.Diagnosis != nil && *c.Diagnosis != "" {
		parts = append(parts, "Diagnóstico: "+*c.Diagnosis)
	}
	if c.Plan != nil && *c.Plan != "" {
		parts = append(parts, "Conduta: "+*c.Plan)
	}
	return strings.Join(parts, " | ")
}

type CreateConsultationRequest struct {
	PatientID        uuid.UUID        `json:"patient_id" binding:"required"`
	Date             time.Time        `json:"date" binding:"required"`
	Type             ConsultationType `json:"type" binding:"required,oneof=first follow_up reassessment"`
	MainComplaint    *string          `json:"main_complaint"`
	Diagnosis        *string          `json:"diagnosis"`
	Plan             *string          `json:"plan"`
	NutritionHistory *string          `json:"nutrition_history"`
	Notes            *string          `json:"notes"`
}

// ConsultationFilters narrows consultation listing; PatientID is optional so
// an organization-wide agenda view can reuse the same query path.
type ConsultationFilters struct {
	OrganizationID uuid.UUID
	PatientID      *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
}
