package handlers

import (
	"errors"
	"net/http"

	"barberflow_backend/internal/middleware"
	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BarbershopHandler holds the barbershop service.
type BarbershopHandler struct {
	barbershopService services.BarbershopService
}

// NewBarbershopHandler creates a new BarbershopHandler.
func NewBarbershopHandler(bs services.BarbershopService) *BarbershopHandler {
	return &BarbershopHandler{barbershopService: bs}
}

// canAccessShop allows super admins everywhere and tenant users only
// on their own shop.
func canAccessShop(c *gin.Context, shopID int64) bool {
	if c.GetString(middleware.ContextUserRoleKey) == utils.RoleSuperAdmin {
		return true
	}
	ownShop, ok := middleware.BarbershopIDFromContext(c)
	return ok && ownShop == shopID
}

// CreateBarbershop handles POST /barbershops (super admin only,
// enforced by the router).
func (h *BarbershopHandler) CreateBarbershop(c *gin.Context) {
	var req services.CreateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBarbershop: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shop, err := h.barbershopService.CreateBarbershop(req)
	if err != nil {
		utils.LogError(err, "CreateBarbershop: Error from barbershopService.CreateBarbershop")
		switch {
		case errors.Is(err, services.ErrSlugExists), errors.Is(err, services.ErrEmailExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Slug or owner email already taken.", err.Error()))
		case errors.Is(err, services.ErrBarbershopValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid barbershop data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create barbershop.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, shop)
}

// GetBarbershops handles GET /barbershops (super admin only).
func (h *BarbershopHandler) GetBarbershops(c *gin.Context) {
	page, pageSize, ok := parsePagination(c)
	if !ok {
		return
	}
	includeInactive := c.Query("include_inactive") == "true"

	shops, totalCount, err := h.barbershopService.GetBarbershops(page, pageSize, includeInactive)
	if err != nil {
		utils.LogError(err, "GetBarbershops: Error from barbershopService.GetBarbershops")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch barbershops.", "Internal error"))
		return
	}
	if shops == nil {
		shops = []models.Barbershop{}
	}
	utils.RespondPaginated(c, shops, utils.Pagination{Page: page, PageSize: pageSize, Total: totalCount})
}

// GetBarbershopByID handles GET /barbershops/:id.
func (h *BarbershopHandler) GetBarbershopByID(c *gin.Context) {
	shopID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !canAccessShop(c, shopID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You may only access your own barbershop.", ""))
		return
	}

	shop, err := h.barbershopService.GetBarbershopByID(shopID)
	if err != nil {
		utils.LogError(err, "GetBarbershopByID: Error from barbershopService.GetBarbershopByID")
		if errors.Is(err, services.ErrBarbershopNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barbershop not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch barbershop.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, shop)
}

// GetBarbershopBySlug handles GET /barbershops/slug/:slug. The route
// is public; booking pages resolve a shop by slug before any login.
func (h *BarbershopHandler) GetBarbershopBySlug(c *gin.Context) {
	slug := c.Param("slug")

	shop, err := h.barbershopService.GetBarbershopBySlug(slug)
	if err != nil {
		if errors.Is(err, services.ErrBarbershopNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barbershop not found.", err.Error()))
		} else {
			utils.LogError(err, "GetBarbershopBySlug: Error from barbershopService.GetBarbershopBySlug")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch barbershop.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, shop)
}

// UpdateBarbershop handles PUT /barbershops/:id.
func (h *BarbershopHandler) UpdateBarbershop(c *gin.Context) {
	shopID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !canAccessShop(c, shopID) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You may only update your own barbershop.", ""))
		return
	}

	var req services.UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateBarbershop: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	shop, err := h.barbershopService.UpdateBarbershop(shopID, req)
	if err != nil {
		utils.LogError(err, "UpdateBarbershop: Error from barbershopService.UpdateBarbershop")
		switch {
		case errors.Is(err, services.ErrBarbershopNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barbershop not found.", err.Error()))
		case errors.Is(err, services.ErrBarbershopValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid barbershop data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update barbershop.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, shop)
}

// DeleteBarbershop handles DELETE /barbershops/:id (super admin only).
// Tenants are deactivated, never hard-deleted.
func (h *BarbershopHandler) DeleteBarbershop(c *gin.Context) {
	shopID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.barbershopService.DeactivateBarbershop(shopID); err != nil {
		utils.LogError(err, "DeleteBarbershop: Error from barbershopService.DeactivateBarbershop")
		if errors.Is(err, services.ErrBarbershopNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Barbershop not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to deactivate barbershop.", "Internal error"))
		}
		return
	}
	utils.RespondSuccessMessage(c, http.StatusOK, "Barbershop deactivated successfully")
}
