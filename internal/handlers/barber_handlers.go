package handlers

import (
	"errors"
	"net/http"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BarberHandler holds the barber service.
type BarberHandler struct {
	barberService services.BarberService
}

// NewBarberHandler creates a new BarberHandler.
func NewBarberHandler(bs services.BarberService) *BarberHandler {
	return &BarberHandler{barberService: bs}
}

func (h *BarberHandler) CreateBarber(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var req services.CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBarber: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	barber, err := h.barberService.CreateBarber(barbershopID, req)
	if err != nil {
		utils.LogError(err, "CreateBarber: Error from barberService.CreateBarber")
		switch {
		case errors.Is(err, services.ErrBarberEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		case errors.Is(err, services.ErrBarberValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid barber data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create barber.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, barber)
}

func (h *BarberHandler) GetBarbers(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var filters models.BarberFilters
	filters.Search = optionalStringQuery(c, "search")
	filters.Status = optionalStringQuery(c, "status")
	filters.IncludeInactive = c.Query("include_inactive") == "true"
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return
	}

	barbers, totalCount, err := h.barberService.GetBarbers(barbershopID, filters)
	if err != nil {
		utils.LogError(err, "GetBarbers: Error from barberService.GetBarbers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch barbers.", "Internal error"))
		return
	}
	if barbers == nil {
		barbers = []models.Barber{}
	}
	utils.RespondPaginated(c, barbers, utils.Pagination{Page: filters.Page, PageSize: filters.PageSize, Total: totalCount})
}

func (h *BarberHandler) GetBarberByID(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	barberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	barber, err := h.barberService.GetBarberByID(barbershopID, barberID)
	if err != nil {
		utils.LogError(err, "GetBarberByID: Error from barberService.GetBarberByID")
		if errors.Is(err, services.ErrBarberNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barber not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch barber.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, barber)
}

func (h *BarberHandler) UpdateBarber(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	barberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateBarber: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	barber, err := h.barberService.UpdateBarber(barbershopID, barberID, req)
	if err != nil {
		utils.LogError(err, "UpdateBarber: Error from barberService.UpdateBarber")
		switch {
		case errors.Is(err, services.ErrBarberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barber not found.", err.Error()))
		case errors.Is(err, services.ErrBarberEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		case errors.Is(err, services.ErrBarberValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid barber data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update barber.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, barber)
}

// DeleteBarber hard-deletes barbers without appointment history and
// deactivates the rest; the response says which happened.
func (h *BarberHandler) DeleteBarber(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	barberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.barberService.DeleteBarber(barbershopID, barberID)
	if err != nil {
		utils.LogError(err, "DeleteBarber: Error from barberService.DeleteBarber")
		if errors.Is(err, services.ErrBarberNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barber not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete barber.", "Internal error"))
		}
		return
	}
	if deleted {
		utils.RespondSuccessMessage(c, http.StatusOK, "Barber deleted successfully")
	} else {
		utils.RespondSuccessMessage(c, http.StatusOK, "Barber has appointment history and was deactivated instead")
	}
}

func (h *BarberHandler) GetWorkingHours(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	barberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	barber, err := h.barberService.GetBarberByID(barbershopID, barberID)
	if err != nil {
		utils.LogError(err, "GetWorkingHours: Error from barberService.GetBarberByID")
		if errors.Is(err, services.ErrBarberNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barber not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch working hours.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, barber.WorkingHours)
}

func (h *BarberHandler) SetWorkingHours(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	barberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.WorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "SetWorkingHours: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	barber, err := h.barberService.SetWorkingHours(barbershopID, barberID, req)
	if err != nil {
		utils.LogError(err, "SetWorkingHours: Error from barberService.SetWorkingHours")
		switch {
		case errors.Is(err, services.ErrBarberNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barber not found.", err.Error()))
		case errors.Is(err, services.ErrBarberValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid schedule data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update working hours.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, barber)
}
