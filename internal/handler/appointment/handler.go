package appointment

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/puredent/clinic-api/internal/handler"
	"github.com/puredent/clinic-api/internal/middleware"
	"github.com/puredent/clinic-api/internal/model"
	"github.com/puredent/clinic-api/internal/repository/postgres"
	"github.com/puredent/clinic-api/internal/service/appointment"
)

type Handler struct {
	svc *appointment.Service
}

func NewHandler(svc *appointment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.BookAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("/:id/cancel", h.CancelAppointment)
	}
}

// RegisterStaffRoutes covers the console-only lifecycle operations.
func (h *Handler) RegisterStaffRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.PATCH("/:id/status", h.SetAppointmentStatus)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// Patients book for themselves, staff for anyone.
	if !middleware.AuthorizePatient(c, req.PatientID) {
		return
	}

	apt, err := h.svc.Book(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrInvalidTime), errors.Is(err, appointment.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("unknown patient or service"))
		default:
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		}
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if id := c.Query("patient_id"); id != "" {
		patientID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
			return
		}
		filters.PatientID = &patientID
	}

	if status := c.Query("status"); status != "" {
		s := model.AppointmentStatus(status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid status"))
			return
		}
		filters.Status = &s
	}

	if date := c.Query("from"); date != "" {
		from, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid from date"))
			return
		}
		filters.From = &from
	}

	if date := c.Query("to"); date != "" {
		to, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid to date"))
			return
		}
		filters.To = &to
	}

	// Patients only ever see their own appointments; an explicit
	// patient_id filter must match the token.
	if filters.PatientID != nil {
		if !middleware.AuthorizePatient(c, *filters.PatientID) {
			return
		}
	} else if !middleware.IsStaff(c) {
		pid, ok := middleware.PrincipalUUID(c)
		if !ok {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("access denied"))
			return
		}
		filters.PatientID = &pid
	}

	appointments, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	apt, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrAppointmentNotFound) || errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("appointment not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	if !middleware.AuthorizePatient(c, apt.PatientID) {
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) SetAppointmentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.SetAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.svc.SetStatus(c.Request.Context(), id, req.Status, req.Notes)
	if err != nil {
		h.respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	existing, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.respondStatusError(c, err)
		return
	}
	if !middleware.AuthorizePatient(c, existing.PatientID) {
		return
	}

	apt, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		h.respondStatusError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, postgres.ErrAppointmentNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("appointment not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": id}))
}

func (h *Handler) respondStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appointment.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
	case errors.Is(err, appointment.ErrInvalidTransition):
		c.JSON(http.StatusConflict, handler.NewErrorResponse(err.Error()))
	case errors.Is(err, postgres.ErrAppointmentNotFound), errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("appointment not found"))
	default:
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
	}
}
