package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barberflow_backend/internal/middleware"
	"barberflow_backend/internal/models"
	"barberflow_backend/internal/services"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSaleService struct {
	createSaleFn   func(barbershopID int64, req services.CreateSaleRequest) (*models.Sale, error)
	refundSaleFn   func(barbershopID, saleID int64) (*models.Sale, error)
	getSalesFn     func(barbershopID int64, filters models.SaleFilters) ([]models.Sale, int, error)
	getByIDFn      func(barbershopID, saleID int64) (*models.Sale, error)
	dailySummaryFn func(barbershopID int64, date string, topN int) (*models.DailySummary, error)
	salesReportFn  func(barbershopID int64, params models.ReportRequestParams) (*models.SalesReport, error)
}

func (s *stubSaleService) CreateSale(barbershopID int64, req services.CreateSaleRequest) (*models.Sale, error) {
	return s.createSaleFn(barbershopID, req)
}

func (s *stubSaleService) GetSales(barbershopID int64, filters models.SaleFilters) ([]models.Sale, int, error) {
	return s.getSalesFn(barbershopID, filters)
}

func (s *stubSaleService) GetSaleByID(barbershopID, saleID int64) (*models.Sale, error) {
	return s.getByIDFn(barbershopID, saleID)
}

func (s *stubSaleService) RefundSale(barbershopID, saleID int64) (*models.Sale, error) {
	return s.refundSaleFn(barbershopID, saleID)
}

func (s *stubSaleService) GetDailySummary(barbershopID int64, date string, topN int) (*models.DailySummary, error) {
	if s.dailySummaryFn != nil {
		return s.dailySummaryFn(barbershopID, date, topN)
	}
	return &models.DailySummary{ByPaymentMethod: map[string]int{}}, nil
}

func (s *stubSaleService) GetSalesReport(barbershopID int64, params models.ReportRequestParams) (*models.SalesReport, error) {
	if s.salesReportFn != nil {
		return s.salesReportFn(barbershopID, params)
	}
	return &models.SalesReport{}, nil
}

// withTenant simulates the auth middleware scoping a request to shop 1.
func withTenant(shopID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextBarbershopIDKey, shopID)
	}
}

func saleTestEngine(stub *stubSaleService, scoped bool) *gin.Engine {
	engine := gin.New()
	handler := NewSaleHandler(stub)
	group := engine.Group("/api/v1")
	if scoped {
		group.Use(withTenant(1))
	}
	group.POST("/sales", handler.CreateSale)
	group.GET("/sales", handler.GetSales)
	group.GET("/sales/:id", handler.GetSaleByID)
	group.POST("/sales/:id/refund", handler.RefundSale)
	return engine
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v (body: %s)", err, w.Body.String())
	}
	return body
}

func TestCreateSaleHandler(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"created", nil, http.StatusCreated},
		{"item not found", fmt.Errorf("%w: service ID 10", services.ErrSaleItemNotFound), http.StatusNotFound},
		{"insufficient stock", fmt.Errorf("%w Pomade", services.ErrInsufficientStock), http.StatusConflict},
		{"validation", fmt.Errorf("%w: discount exceeds subtotal", services.ErrValidation), http.StatusBadRequest},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSaleService{
				createSaleFn: func(barbershopID int64, req services.CreateSaleRequest) (*models.Sale, error) {
					if barbershopID != 1 {
						t.Errorf("barbershopID = %d, want 1", barbershopID)
					}
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.Sale{ID: 101, BarbershopID: 1, Total: 90, Status: models.SaleCompleted}, nil
				},
			}

			payload := `{"payment_method":"card","items":[{"item_type":"service","item_id":10,"quantity":1}]}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(payload))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			saleTestEngine(stub, true).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			body := decodeEnvelope(t, w)
			wantSuccess := tt.serviceErr == nil
			if body["success"] != wantSuccess {
				t.Errorf("success = %v, want %v", body["success"], wantSuccess)
			}
		})
	}
}

func TestCreateSaleHandlerRejectsBadPayload(t *testing.T) {
	stub := &stubSaleService{
		createSaleFn: func(int64, services.CreateSaleRequest) (*models.Sale, error) {
			t.Error("service called despite invalid payload")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(`{"items":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	saleTestEngine(stub, true).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSaleHandlersRequireTenantScope(t *testing.T) {
	stub := &stubSaleService{
		createSaleFn: func(int64, services.CreateSaleRequest) (*models.Sale, error) {
			t.Error("service called without tenant scope")
			return nil, nil
		},
	}

	payload := `{"items":[{"item_type":"service","item_id":10,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	saleTestEngine(stub, false).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestGetSalesHandlerPagination(t *testing.T) {
	stub := &stubSaleService{
		getSalesFn: func(barbershopID int64, filters models.SaleFilters) ([]models.Sale, int, error) {
			if filters.Page != 2 || filters.PageSize != 5 {
				t.Errorf("pagination = %d/%d, want 2/5", filters.Page, filters.PageSize)
			}
			if filters.Status == nil || *filters.Status != models.SaleCompleted {
				t.Errorf("status filter = %v, want completed", filters.Status)
			}
			return []models.Sale{{ID: 101}}, 11, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales?page=2&page_size=5&status=completed", nil)
	w := httptest.NewRecorder()
	saleTestEngine(stub, true).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	body := decodeEnvelope(t, w)
	pagination, ok := body["pagination"].(map[string]interface{})
	if !ok {
		t.Fatalf("pagination missing from envelope: %s", w.Body.String())
	}
	if pagination["total"] != float64(11) {
		t.Errorf("total = %v, want 11", pagination["total"])
	}
}

func TestGetSaleByIDHandler(t *testing.T) {
	stub := &stubSaleService{
		getByIDFn: func(barbershopID, saleID int64) (*models.Sale, error) {
			if saleID == 101 {
				return &models.Sale{ID: 101}, nil
			}
			return nil, services.ErrSaleNotFound
		},
	}
	engine := saleTestEngine(stub, true)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/101", nil))
	if w.Code != http.StatusOK {
		t.Errorf("existing sale status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/404", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("missing sale status = %d, want 404", w.Code)
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestRefundSaleHandler(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"refunded", nil, http.StatusOK},
		{"not found", services.ErrSaleNotFound, http.StatusNotFound},
		{"already refunded", fmt.Errorf("%w: sale 101 is refunded", services.ErrInvalidSaleStatus), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSaleService{
				refundSaleFn: func(barbershopID, saleID int64) (*models.Sale, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.Sale{ID: saleID, Status: models.SaleRefunded}, nil
				},
			}

			w := httptest.NewRecorder()
			saleTestEngine(stub, true).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sales/101/refund", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
