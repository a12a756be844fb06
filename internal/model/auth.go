package model

import "github.com/google/uuid"

// PrincipalType distinguishes the two kinds of authenticated actor.
type PrincipalType string

const (
	PrincipalStaff   PrincipalType = "staff"
	PrincipalPatient PrincipalType = "patient"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	Principal   PrincipalType `json:"principal"`
}

type TokenClaims struct {
	PrincipalID   uuid.UUID
	PrincipalType PrincipalType
	Email         string
}
