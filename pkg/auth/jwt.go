package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/model"
)

// JWTService issues and validates access tokens for both principal
// kinds.
type JWTService interface {
	GenerateToken(principalID uuid.UUID, principalType model.PrincipalType, email string) (string, error)
	ValidateToken(token string) (*model.TokenClaims, error)
	Expiry() time.Duration
}

type jwtService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) JWTService {
	return &jwtService{secret: []byte(secret), expiry: expiry}
}

func (s *jwtService) GenerateToken(principalID uuid.UUID, principalType model.PrincipalType, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       principalID.String(),
		"principal": string(principalType),
		"email":     email,
		"iat":       now.Unix(),
		"exp":       now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(tokenStr string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	principalID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid principal id in token: %w", err)
	}

	principal, ok := claims["principal"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	email, _ := claims["email"].(string)

	return &model.TokenClaims{
		PrincipalID:   principalID,
		PrincipalType: model.PrincipalType(principal),
		Email:         email,
	}, nil
}

func (s *jwtService) Expiry() time.Duration {
	return s.expiry
}
