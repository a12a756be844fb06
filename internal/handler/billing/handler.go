package billing

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/handler"
	"github.com/puredent/clinic-api/internal/middleware"
	"github.com/puredent/clinic-api/internal/service/billing"
)

type Handler struct {
	svc *billing.Service
}

func NewHandler(svc *billing.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/transactions/:id/receipt", h.GetReceipt)
	r.GET("/patients/:id/transactions", h.ListPatientTransactions)
}

// RegisterStaffRoutes exposes the full transaction ledger.
func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	r.GET("/transactions", h.ListTransactions)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	transactions, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(transactions))
}

func (h *Handler) ListPatientTransactions(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if !middleware.AuthorizePatient(c, patientID) {
		return
	}

	transactions, err := h.svc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(transactions))
}

// GetReceipt returns the receipt as JSON, or as a printable HTML page
// when ?format=html is set.
func (h *Handler) GetReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid transaction ID"))
		return
	}

	receipt, err := h.svc.Receipt(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("transaction not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	if !middleware.AuthorizePatient(c, receipt.PatientID) {
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(receipt.HTML))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(receipt))
}
