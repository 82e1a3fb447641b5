package handlers

import (
	"errors"
	"net/http"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves services, products and stock movements.
type CatalogHandler struct {
	catalogService services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cs services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: cs}
}

func parseCatalogFilters(c *gin.Context) (models.CatalogFilters, bool) {
	var filters models.CatalogFilters
	filters.Search = optionalStringQuery(c, "search")
	filters.Category = optionalStringQuery(c, "category")
	filters.IncludeInactive = c.Query("include_inactive") == "true"
	filters.LowStockOnly = c.Query("low_stock") == "true"
	var ok bool
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return filters, false
	}
	return filters, true
}

// --- Services ---

func (h *CatalogHandler) CreateService(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var req services.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateService: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	service, err := h.catalogService.CreateService(barbershopID, req)
	if err != nil {
		utils.LogError(err, "CreateService: Error from catalogService.CreateService")
		if errors.Is(err, services.ErrCatalogValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid service data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create service.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, service)
}

func (h *CatalogHandler) GetServices(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	filters, ok := parseCatalogFilters(c)
	if !ok {
		return
	}

	serviceList, totalCount, err := h.catalogService.GetServices(barbershopID, filters)
	if err != nil {
		utils.LogError(err, "GetServices: Error from catalogService.GetServices")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch services.", "Internal error"))
		return
	}
	if serviceList == nil {
		serviceList = []models.Service{}
	}
	utils.RespondPaginated(c, serviceList, utils.Pagination{Page: filters.Page, PageSize: filters.PageSize, Total: totalCount})
}

func (h *CatalogHandler) GetServiceByID(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	service, err := h.catalogService.GetServiceByID(barbershopID, serviceID)
	if err != nil {
		utils.LogError(err, "GetServiceByID: Error from catalogService.GetServiceByID")
		if errors.Is(err, services.ErrServiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch service.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, service)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateService: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	service, err := h.catalogService.UpdateService(barbershopID, serviceID, req)
	if err != nil {
		utils.LogError(err, "UpdateService: Error from catalogService.UpdateService")
		switch {
		case errors.Is(err, services.ErrServiceNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", err.Error()))
		case errors.Is(err, services.ErrCatalogValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid service data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update service.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, service)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeactivateService(barbershopID, serviceID); err != nil {
		utils.LogError(err, "DeleteService: Error from catalogService.DeactivateService")
		if errors.Is(err, services.ErrServiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to deactivate service.", "Internal error"))
		}
		return
	}
	utils.RespondSuccessMessage(c, http.StatusOK, "Service deactivated successfully")
}

func (h *CatalogHandler) GetServiceStats(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.catalogService.GetServiceStats(barbershopID, serviceID)
	if err != nil {
		utils.LogError(err, "GetServiceStats: Error from catalogService.GetServiceStats")
		if errors.Is(err, services.ErrServiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch service stats.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, stats)
}

func (h *CatalogHandler) DuplicateService(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	service, err := h.catalogService.DuplicateService(barbershopID, serviceID)
	if err != nil {
		utils.LogError(err, "DuplicateService: Error from catalogService.DuplicateService")
		if errors.Is(err, services.ErrServiceNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Service not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to duplicate service.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, service)
}

// --- Products ---

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateProduct: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(barbershopID, req)
	if err != nil {
		utils.LogError(err, "CreateProduct: Error from catalogService.CreateProduct")
		if errors.Is(err, services.ErrCatalogValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create product.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, product)
}

func (h *CatalogHandler) GetProducts(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	filters, ok := parseCatalogFilters(c)
	if !ok {
		return
	}

	products, totalCount, err := h.catalogService.GetProducts(barbershopID, filters)
	if err != nil {
		utils.LogError(err, "GetProducts: Error from catalogService.GetProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch products.", "Internal error"))
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.RespondPaginated(c, products, utils.Pagination{Page: filters.Page, PageSize: filters.PageSize, Total: totalCount})
}

func (h *CatalogHandler) GetProductByID(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProductByID(barbershopID, productID)
	if err != nil {
		utils.LogError(err, "GetProductByID: Error from catalogService.GetProductByID")
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, product)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateProduct: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(barbershopID, productID, req)
	if err != nil {
		utils.LogError(err, "UpdateProduct: Error from catalogService.UpdateProduct")
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		case errors.Is(err, services.ErrCatalogValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update product.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, product)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeactivateProduct(barbershopID, productID); err != nil {
		utils.LogError(err, "DeleteProduct: Error from catalogService.DeactivateProduct")
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to deactivate product.", "Internal error"))
		}
		return
	}
	utils.RespondSuccessMessage(c, http.StatusOK, "Product deactivated successfully")
}

// AdjustStock applies a manual stock correction.
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "AdjustStock: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.AdjustStock(barbershopID, productID, req)
	if err != nil {
		utils.LogError(err, "AdjustStock: Error from catalogService.AdjustStock")
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		case errors.Is(err, services.ErrStockFloor):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Stock cannot go below zero.", err.Error()))
		case errors.Is(err, services.ErrCatalogValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid adjustment data.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to adjust stock.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, product)
}

// GetStockMovements lists the stock audit trail.
func (h *CatalogHandler) GetStockMovements(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}

	var filters models.StockMovementFilters
	if filters.ProductID, ok = parseInt64Query(c, "product_id"); !ok {
		return
	}
	filters.MovementType = optionalStringQuery(c, "movement_type")
	if filters.Page, filters.PageSize, ok = parsePagination(c); !ok {
		return
	}

	movements, totalCount, err := h.catalogService.GetStockMovements(barbershopID, filters)
	if err != nil {
		utils.LogError(err, "GetStockMovements: Error from catalogService.GetStockMovements")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch stock movements.", "Internal error"))
		return
	}
	if movements == nil {
		movements = []models.StockMovement{}
	}
	utils.RespondPaginated(c, movements, utils.Pagination{Page: filters.Page, PageSize: filters.PageSize, Total: totalCount})
}
