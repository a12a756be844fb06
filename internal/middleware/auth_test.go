package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/puredent/clinic-api/internal/handler"
	"github.com/puredent/clinic-api/internal/model"
)

func principalContext(id uuid.UUID, ptype model.PrincipalType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextPrincipalID, id.String())
		c.Set(ContextPrincipalType, string(ptype))
		c.Next()
	}
}

// patientScopedRouter serves /patients/:id/records the way the portal
// routes do: the handler authorizes against the path's patient id before
// touching anything.
func patientScopedRouter(principal uuid.UUID, ptype model.PrincipalType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(principalContext(principal, ptype))
	r.GET("/patients/:id/records", func(c *gin.Context) {
		patientID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		if !AuthorizePatient(c, patientID) {
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
	})
	return r
}

func TestAuthorizePatientAllowsOwnRecords(t *testing.T) {
	patientID := uuid.New()
	r := patientScopedRouter(patientID, model.PrincipalPatient)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/"+patientID.String()+"/records", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizePatientRejectsOtherPatients(t *testing.T) {
	r := patientScopedRouter(uuid.New(), model.PrincipalPatient)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/"+uuid.New().String()+"/records", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "access denied")
}

func TestAuthorizePatientAllowsStaffAnywhere(t *testing.T) {
	r := patientScopedRouter(uuid.New(), model.PrincipalStaff)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/"+uuid.New().String()+"/records", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthorizePatientRejectsMissingPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	target := uuid.New()
	r.GET("/x", func(c *gin.Context) {
		if !AuthorizePatient(c, target) {
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireStaffBlocksPatientTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := &AuthMiddleware{}

	r := gin.New()
	r.Use(principalContext(uuid.New(), model.PrincipalPatient))
	r.GET("/console", m.RequireStaff(), func(c *gin.Context) {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/console", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPrincipalUUIDRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := PrincipalUUID(c)
	assert.False(t, ok)

	id := uuid.New()
	c.Set(ContextPrincipalID, id.String())
	got, ok := PrincipalUUID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
