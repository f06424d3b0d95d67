package model

import (
	"github.com/google/uuid"
)

type Professional struct {
	Base
	OrganizationID uuid.UUID `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	CRN            *string   `db:"crn" json:"crn,omitempty"`
	Active         bool      `db:"active" json:"active"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string        `json:"token"`
	Professional *Professional `json:"professional"`
}

// TokenClaims is what the auth middleware threads into every request:
// tenant boundary plus acting professional, never a shared singleton.
type TokenClaims struct {
	ProfessionalID uuid.UUID `json:"professional_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Email          string    `json:"email"`
}
