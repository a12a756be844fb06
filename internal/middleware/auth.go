package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/handler"
	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/service/auth"
)

const (
	ContextPrincipalID    = "principalID"
	ContextPrincipalType  = "principalType"
	ContextPrincipalEmail = "principalEmail"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate verifies the JWT token and sets principal info in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextPrincipalID, claims.PrincipalID.String())
		c.Set(ContextPrincipalType, string(claims.PrincipalType))
		c.Set(ContextPrincipalEmail, claims.Email)
		c.Next()
	}
}

// RequireStaff rejects requests whose token was not issued to a staff member.
// It must run after Authenticate.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaff(c) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("staff access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// IsStaff reports whether the authenticated principal is a staff member.
func IsStaff(c *gin.Context) bool {
	return c.GetString(ContextPrincipalType) == string(model.PrincipalStaff)
}

// PrincipalUUID returns the authenticated principal's id as set by
// Authenticate.
func PrincipalUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(ContextPrincipalID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// AuthorizePatient reports whether the principal may act on the given
// patient's records: staff always, patients only on their own. On a
// mismatch it writes the 403 response and aborts, so callers just return.
func AuthorizePatient(c *gin.Context, patientID uuid.UUID) bool {
	if IsStaff(c) {
		return true
	}
	if id, ok := PrincipalUUID(c); ok && id == patientID {
		return true
	}
	c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied"))
	c.Abort()
	return false
}
