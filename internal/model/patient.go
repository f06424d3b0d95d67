package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
	SexOther  Sex = "other"
)

// Label returns the pt-BR display label used in reports.
func (s Sex) Label() string {
	switch s {
	case SexFemale:
		return "Feminino"
	case SexMale:
		return "Masculino"
	default:
		return "Outro"
	}
}

type PatientStatus string

const (
	PatientStatusActive   PatientStatus = "active"
	PatientStatusInactive PatientStatus = "inactive"
)

type Patient struct {
	Base
	OrganizationID uuid.UUID      `db:"organization_id" json:"organization_id"`
	Name           string         `db:"name" json:"name"`
	Email          *string        `db:"email" json:"email,omitempty"`
	Phone          *string        `db:"phone" json:"phone,omitempty"`
	BirthDate      time.Time      `db:"birth_date" json:"birth_date"`
	Sex            Sex            `db:"sex" json:"sex"`
	Tags           pq.StringArray `db:"tags" json:"tags"`
	Notes          *string        `db:"notes" json:"notes,omitempty"`
	Status         string         `db:"status" json:"status"`
}

type CreatePatientRequest struct {
	Name      string    `json:"name" binding:"required"`
	Email     *string   `json:"email" binding:"omitempty,email"`
	Phone     *string   `json:"phone"`
	BirthDate time.Time `json:"birth_date" binding:"required"`
	Sex       Sex       `json:"sex" binding:"required,oneof=female male other"`
	Tags      []string  `json:"tags"`
	Notes     *string   `json:"notes"`
}

type UpdatePatientRequest struct {
	Name      *string    `json:"name"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Phone     *string    `json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
	Sex       *Sex       `json:"sex" binding:"omitempty,oneof=female male other"`
	Tags      []string   `json:"tags"`
	Notes     *string    `json:"notes"`
	Status    *string    `json:"status"`
}

// PatientFilters narrows patient listing within an organization.
type PatientFilters struct {
	OrganizationID uuid.UUID
	SearchTerm     string
	Status         string
	Pagination
}
