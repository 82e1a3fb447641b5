package handlers

import (
	"errors"
	"net/http"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(barbershopID, req)
	if err != nil {
		utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
		switch {
		case errors.Is(err, services.ErrPhoneNumberExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Phone number already registered.", err.Error()))
		case errors.Is(err, services.ErrClientValidation), errors.Is(err, services.ErrDateFormat):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create client.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, client)
}

func (h *ClientHandler) GetClients(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var filters models.ClientFilters
	filters.Search = optionalStringQuery(c, "search")
	filters.IncludeInactive = c.Query("include_inactive") == "true"
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return
	}

	clients, totalCount, err := h.clientService.GetClients(barbershopID, filters)
	if err != nil {
		utils.LogError(err, "GetClients: Error from clientService.GetClients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch clients.", "Internal error"))
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	utils.RespondPaginated(c, clients, utils.Pagination{Page: filters.Page, PageSize: filters.PageSize, Total: totalCount})
}

func (h *ClientHandler) GetClientByID(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(barbershopID, clientID)
	if err != nil {
		utils.LogError(err, "GetClientByID: Error from clientService.GetClientByID")
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch client.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, client)
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(barbershopID, clientID, req)
	if err != nil {
		utils.LogError(err, "UpdateClient: Error from clientService.UpdateClient")
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		case errors.Is(err, services.ErrPhoneNumberExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Phone number already registered.", err.Error()))
		case errors.Is(err, services.ErrClientValidation), errors.Is(err, services.ErrDateFormat):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update client.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.DeactivateClient(barbershopID, clientID); err != nil {
		utils.LogError(err, "DeleteClient: Error from clientService.DeactivateClient")
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to deactivate client.", "Internal error"))
		}
		return
	}
	utils.RespondSuccessMessage(c, http.StatusOK, "Client deactivated successfully")
}
