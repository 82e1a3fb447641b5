package handlers

import (
	"errors"
	"net/http"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

// CreateSale handles the creation of a new sale with its items.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var req services.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateSale: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	sale, err := h.saleService.CreateSale(barbershopID, req)
	if err != nil {
		utils.LogError(err, "CreateSale: Error from saleService.CreateSale")
		switch {
		case errors.Is(err, services.ErrSaleItemNotFound), errors.Is(err, services.ErrClientNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more sale items not found or unavailable.", err.Error()))
		case errors.Is(err, services.ErrInsufficientStock):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for one or more items.", err.Error()))
		case errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create sale.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, sale)
}

// GetSales handles fetching sales with filters.
func (h *SaleHandler) GetSales(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var filters models.SaleFilters
	if filters.ClientID, ok = parseInt64Query(c, "client_id"); !ok {
		return
	}
	if filters.BarberID, ok = parseInt64Query(c, "barber_id"); !ok {
		return
	}
	filters.PaymentMethod = optionalStringQuery(c, "payment_method")
	filters.Status = optionalStringQuery(c, "status")
	filters.Date = optionalStringQuery(c, "date")
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return
	}

	sales, totalCount, err := h.saleService.GetSales(barbershopID, filters)
	if err != nil {
		utils.LogError(err, "GetSales: Error from saleService.GetSales")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sales.", "Internal error"))
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	utils.RespondPaginated(c, sales, utils.Pagination{Page: filters.Page, PageSize: filters.PageSize, Total: totalCount})
}

// GetSaleByID handles fetching a single sale with its items.
func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSaleByID(barbershopID, saleID)
	if err != nil {
		utils.LogError(err, "GetSaleByID: Error from saleService.GetSaleByID")
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sale.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, sale)
}

// RefundSale handles reversing a completed sale.
func (h *SaleHandler) RefundSale(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	saleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.RefundSale(barbershopID, saleID)
	if err != nil {
		utils.LogError(err, "RefundSale: Error from saleService.RefundSale")
		switch {
		case errors.Is(err, services.ErrSaleNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		case errors.Is(err, services.ErrInvalidSaleStatus):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Sale cannot be refunded.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to refund sale.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, sale)
}
