package handlers

import (
	"errors"
	"net/http"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler holds the appointment service.
type AppointmentHandler struct {
	appointmentService services.AppointmentService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(as services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: as}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var req services.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateAppointment: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	appointment, err := h.appointmentService.CreateAppointment(barbershopID, req)
	if err != nil {
		utils.LogError(err, "CreateAppointment: Error from appointmentService.CreateAppointment")
		switch {
		case errors.Is(err, services.ErrAppointmentRefsNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client, barber or service not found.", err.Error()))
		case errors.Is(err, services.ErrAppointmentValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid appointment data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create appointment.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, appointment)
}

func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var filters models.AppointmentFilters
	if filters.ClientID, ok = parseInt64Query(c, "client_id"); !ok {
		return
	}
	if filters.BarberID, ok = parseInt64Query(c, "barber_id"); !ok {
		return
	}
	filters.Status = optionalStringQuery(c, "status")
	filters.Date = optionalStringQuery(c, "date")
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return
	}

	appointments, totalCount, err := h.appointmentService.GetAppointments(barbershopID, filters)
	if err != nil {
		utils.LogError(err, "GetAppointments: Error from appointmentService.GetAppointments")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch appointments.", "Internal error"))
		return
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	utils.RespondPaginated(c, appointments, utils.Pagination{Page: filters.Page, PageSize: filters.PageSize, Total: totalCount})
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointmentService.GetAppointmentByID(barbershopID, appointmentID)
	if err != nil {
		utils.LogError(err, "GetAppointmentByID: Error from appointmentService.GetAppointmentByID")
		if errors.Is(err, services.ErrAppointmentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Appointment not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch appointment.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, appointment)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateAppointment: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	appointment, err := h.appointmentService.UpdateAppointment(barbershopID, appointmentID, req)
	if err != nil {
		utils.LogError(err, "UpdateAppointment: Error from appointmentService.UpdateAppointment")
		switch {
		case errors.Is(err, services.ErrAppointmentNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Appointment not found.", err.Error()))
		case errors.Is(err, services.ErrAppointmentRefsNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client, barber or service not found.", err.Error()))
		case errors.Is(err, services.ErrAppointmentValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid appointment data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update appointment.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, appointment)
}

func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateAppointmentStatus: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	appointment, err := h.appointmentService.UpdateAppointmentStatus(barbershopID, appointmentID, req)
	if err != nil {
		utils.LogError(err, "UpdateAppointmentStatus: Error from appointmentService.UpdateAppointmentStatus")
		switch {
		case errors.Is(err, services.ErrAppointmentNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Appointment not found.", err.Error()))
		case errors.Is(err, services.ErrInvalidStatusTransition):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Status transition not allowed.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update appointment status.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, appointment)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	appointmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.appointmentService.DeleteAppointment(barbershopID, appointmentID); err != nil {
		utils.LogError(err, "DeleteAppointment: Error from appointmentService.DeleteAppointment")
		if errors.Is(err, services.ErrAppointmentNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Appointment not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete appointment.", "Internal error"))
		}
		return
	}
	utils.RespondSuccessMessage(c, http.StatusOK, "Appointment deleted successfully")
}
