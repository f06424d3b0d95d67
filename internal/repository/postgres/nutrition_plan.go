package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
)

type nutritionPlanRepository struct {
	db *sqlx.DB
}

func NewNutritionPlanRepository(db *sqlx.DB) repository.NutritionPlanRepository {
	return &nutritionPlanRepository{db: db}
}

// Create inserts the plan and its meals in one transaction; activating a plan
// deactivates any previous active plan so at most one stays active.
func (r *nutritionPlanRepository) Create(ctx context.Context, plan *model.NutritionPlan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	if plan.Active {
		deactivate := `UPDATE nutrition_plans SET active = FALSE, updated_at = $1 WHERE patient_id = $2 AND organization_id = $3 AND active`
		if _, err := tx.ExecContext(ctx, deactivate, time.Now(), plan.PatientID, plan.OrganizationID); err != nil {
			return fmt.Errorf("failed to deactivate previous plan: %w", err)
		}
	}

	insertPlan := `
		INSERT INTO nutrition_plans (id, patient_id, organization_id, title, goals, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.ExecContext(ctx, insertPlan,
		plan.ID,
		plan.PatientID,
		plan.OrganizationID,
		plan.Title,
		plan.Goals,
		plan.Notes,
		plan.Active,
		plan.CreatedAt,
		plan.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to create nutrition plan: %w", err)
	}

	insertMeal := `
		INSERT INTO plan_meals (id, plan_id, type, description, observation, position)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range plan.Meals {
		meal := &plan.Meals[i]
		meal.PlanID = plan.ID
		meal.Position = i
		if _, err := tx.ExecContext(ctx, insertMeal,
			meal.ID,
			meal.PlanID,
			meal.Type,
			meal.Description,
			meal.Observation,
			meal.Position,
		); err != nil {
			return fmt.Errorf("failed to create plan meal: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit nutrition plan: %w", err)
	}
	return nil
}

func (r *nutritionPlanRepository) FindActive(ctx context.Context, patientID, organizationID uuid.UUID) (*model.NutritionPlan, error) {
	query := `
		SELECT * FROM nutrition_plans
		WHERE patient_id = $1 AND organization_id = $2 AND active AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`
	var plan model.NutritionPlan
	err := r.db.GetContext(ctx, &plan, query, patientID, organizationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active nutrition plan: %w", err)
	}

	if err := r.attachMeals(ctx, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *nutritionPlanRepository) List(ctx context.Context, patientID, organizationID uuid.UUID) ([]*model.NutritionPlan, error) {
	query := `
		SELECT * FROM nutrition_plans
		WHERE patient_id = $1 AND organization_id = $2 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	var plans []*model.NutritionPlan
	err := r.db.SelectContext(ctx, &plans, query, patientID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nutrition plans: %w", err)
	}

	for _, plan := range plans {
		if err := r.attachMeals(ctx, plan); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *nutritionPlanRepository) Deactivate(ctx context.Context, patientID, organizationID uuid.UUID) error {
	query := `UPDATE nutrition_plans SET active = FALSE, updated_at = $1 WHERE patient_id = $2 AND organization_id = $3 AND active`
	_, err := r.db.ExecContext(ctx, query, time.Now(), patientID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to deactivate nutrition plans: %w", err)
	}
	return nil
}

func (r *nutritionPlanRepository) attachMeals(ctx context.Context, plan *model.NutritionPlan) error {
	query := `SELECT * FROM plan_meals WHERE plan_id = $1 ORDER BY position ASC`
	if err := r.db.SelectContext(ctx, &plan.Meals, query, plan.ID); err != nil {
		return fmt.Errorf("failed to load plan meals: %w", err)
	}
	return nil
}
