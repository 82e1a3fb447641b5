package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"
	"barberflow_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves sales aggregates.
type ReportHandler struct {
	saleService services.SaleService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ss services.SaleService) *ReportHandler {
	return &ReportHandler{saleService: ss}
}

func parseTopN(c *gin.Context) (int, bool) {
	raw := c.Query("top_n")
	if raw == "" {
		return 0, true
	}
	topN, err := strconv.Atoi(raw)
	if err != nil || topN < 1 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid top_n format.", "top_n must be a positive integer"))
		return 0, false
	}
	return topN, true
}

// GetDailySummary handles GET /sales/daily.
func (h *ReportHandler) GetDailySummary(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	topN, ok := parseTopN(c)
	if !ok {
		return
	}

	summary, err := h.saleService.GetDailySummary(barbershopID, c.Query("date"), topN)
	if err != nil {
		utils.LogError(err, "GetDailySummary: Error from saleService.GetDailySummary")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid report parameters.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build daily summary.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, summary)
}

// GetSalesReport handles GET /sales/reports.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	barbershopID, ok := tenantID(c)
	if !ok {
		return
	}
	topN, ok := parseTopN(c)
	if !ok {
		return
	}

	params := models.ReportRequestParams{
		Period:    c.Query("period"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		TopN:      topN,
	}

	report, err := h.saleService.GetSalesReport(barbershopID, params)
	if err != nil {
		utils.LogError(err, "GetSalesReport: Error from saleService.GetSalesReport")
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrInvalidPeriod) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid report parameters.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build sales report.", "Internal error"))
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, report)
}
