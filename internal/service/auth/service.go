package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/model"
	"github.com/nutrivo/practice-api/internal/repository"
	"github.com/nutrivo/practice-api/pkg/auth"
	"github.com/nutrivo/practice-api/pkg/errors"
	"github.com/nutrivo/practice-api/pkg/logger"
	"github.com/nutrivo/practice-api/pkg/security"
)

type Service struct {
	professionals repository.ProfessionalRepository
	hasher        security.PasswordHasher
	tokens        *auth.JWTManager
	logger        *logger.Logger
}

func NewService(professionals repository.ProfessionalRepository, hasher security.PasswordHasher, tokens *auth.JWTManager, logger *logger.Logger) *Service {
	return &Service{
		professionals: professionals,
		hasher:        hasher,
		tokens:        tokens,
		logger:        logger,
	}
}

// Login authenticates a professional by email and password. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	professional, err := s.professionals.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch professional: %w", err)
	}
	if professional == nil || !professional.Active {
		return nil, errors.Unauthorized(nil)
	}
	if err := s.hasher.Compare(professional.PasswordHash, req.Password); err != nil {
		return nil, errors.Unauthorized(nil)
	}

	token, err := s.tokens.GenerateToken(professional)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.LoginResponse{Token: token, Professional: professional}, nil
}

type RegisterRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Name           string    `json:"name" binding:"required"`
	Email          string    `json:"email" binding:"required,email"`
	Password       string    `json:"password" binding:"required,min=8"`
	CRN            *string   `json:"crn"`
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*model.Professional, error) {
	existing, err := s.professionals.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing professional: %w", err)
	}
	if existing != nil {
		return nil, errors.BadRequest("email already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	professional := &model.Professional{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		CRN:            req.CRN,
		Active:         true,
	}
	professional.ID = uuid.New()

	if err := s.professionals.Create(ctx, professional); err != nil {
		return nil, fmt.Errorf("failed to create professional: %w", err)
	}
	return professional, nil
}

func (s *Service) GetProfessional(ctx context.Context, id uuid.UUID) (*model.Professional, error) {
	professional, err := s.professionals.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch professional: %w", err)
	}
	if professional == nil {
		return nil, errors.NotFound("professional", nil)
	}
	return professional, nil
}
