package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nutrivo/practice-api/internal/model"
)

// JWTManager issues and validates the tokens that carry tenant and
// professional identity into every request.
type JWTManager struct {
	secret []byte
	expiry time.Duration
}

func NewJWTManager(secret string, expiry time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), expiry: expiry}
}

type customClaims struct {
	ProfessionalID string `json:"professional_id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateToken(professional *model.Professional) (string, error) {
	now := time.Now()
	claims := customClaims{
		ProfessionalID: professional.ID.String(),
		OrganizationID: professional.OrganizationID.String(),
		Email:          professional.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   professional.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *JWTManager) ValidateToken(tokenString string) (*model.TokenClaims, error) {
	var claims customClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	professionalID, err := uuid.Parse(claims.ProfessionalID)
	if err != nil {
		return nil, fmt.Errorf("invalid professional id in token: %w", err)
	}
	organizationID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("invalid organization id in token: %w", err)
	}

	return &model.TokenClaims{
		ProfessionalID: professionalID,
		OrganizationID: organizationID,
		Email:          claims.Email,
	}, nil
}
