package model

import (
	"github.com/google/uuid"
)

type MealType string

const (
	MealBreakfast      MealType = "breakfast"
	MealMorningSnack   MealType = "morning_snack"
	MealLunch          MealType = "lunch"
	MealAfternoonSnack MealType = "afternoon_snack"
	MealDinner         MealType = "dinner"
	MealSupper         MealType = "supper"
)

func (t MealType) Label() string {
	switch t {
	case MealBreakfast:
		return "Café da manhã"
	case MealMorningSnack:
		return "Lanche da manhã"
	case MealLunch:
		return "Almoço"
	case MealAfternoonSnack:
		return "Lanche da tarde"
	case MealDinner:
		return "Jantar"
	case MealSupper:
		return "Ceia"
	default:
		return "Refeição"
	}
}

type PlanMeal struct {
	ID          uuid.UUID `db:"id" json:"id"`
	PlanID      uuid.UUID `db:"plan_id" json:"plan_id"`
	Type        MealType  `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	Observation *string   `db:"observation" json:"observation,omitempty"`
	Position    int       `db:"position" json:"position"`
}

// NutritionPlan is a meal plan; at most one plan per patient is expected to
// be active at a time.
type NutritionPlan struct {
	Base
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	OrganizationID uuid.UUID  `db:"organization_id" json:"organization_id"`
	Title          string     `db:"title" json:"title"`
	Goals          *string    `db:"goals" json:"goals,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	Active         bool       `db:"active" json:"active"`
	Meals          []PlanMeal `json:"meals"`
}

type CreatePlanMealRequest struct {
	Type        MealType `json:"type" binding:"required,oneof=breakfast morning_snack lunch afternoon_snack dinner supper"`
	Description string   `json:"description" binding:"required"`
	Observation *string  `json:"observation"`
}

type CreateNutritionPlanRequest struct {
	Title  string                  `json:"title" binding:"required"`
	Goals  *string                 `json:"goals"`
	Notes  *string                 `json:"notes"`
	Active bool                    `json:"active"`
	Meals  []CreatePlanMealRequest `json:"meals" binding:"dive"`
}
