package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/logger"
)

type Service struct {
	repo   repository.PatientRepository
	logger *logger.Logger
}

func NewService(repo repository.PatientRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreatePatient(ctx context.Context, organizationID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		OrganizationID: organizationID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		BirthDate:      req.BirthDate,
		Sex:            req.Sex,
		Tags:           req.Tags,
		Notes:          req.Notes,
		Status:         string(model.PatientStatusActive),
	}
	patient.ID = uuid.New()

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id, organizationID uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Find(ctx, id, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient: %w", err)
	}
	if patient == nil {
		return nil, errors.NotFound("patient", nil)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id, organizationID uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.GetPatient(ctx, id, organizationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = req.Email
	}
	if req.Phone != nil {
		patient.Phone = req.Phone
	}
	if req.BirthDate != nil {
		patient.BirthDate = *req.BirthDate
	}
	if req.Sex != nil {
		patient.Sex = *req.Sex
	}
	if req.Tags != nil {
		patient.Tags = req.Tags
	}
	if req.Notes != nil {
		patient.Notes = req.Notes
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id, organizationID uuid.UUID) error {
	if _, err := s.GetPatient(ctx, id, organizationID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, organizationID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
