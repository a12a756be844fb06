package report

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/handler"
	"github.com/puredent/clinic-api/internal/middleware"
	"github.com/puredent/clinic-api/internal/service/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients/:id/summary", h.GetPatientSummary)
}

// RegisterStaffRoutes exposes the console reporting endpoints.
func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/revenue", h.GetRevenueReport)
		reports.GET("/dashboard", h.GetDashboardCounts)
	}
}

// GetRevenueReport returns the grouped revenue figures as JSON, or as a
// printable HTML page when ?format=html is set.
func (h *Handler) GetRevenueReport(c *gin.Context) {
	if c.Query("format") == "html" {
		page, err := h.svc.RenderHTML(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}

	revenue, err := h.svc.Revenue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(revenue))
}

func (h *Handler) GetDashboardCounts(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.DashboardCounts(c.Request.Context())))
}

func (h *Handler) GetPatientSummary(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if !middleware.AuthorizePatient(c, patientID) {
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.PatientSummary(c.Request.Context(), patientID)))
}
