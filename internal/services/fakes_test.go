package services

import (
	"time"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"
)

// In-memory repository fakes. They ignore the executor argument since
// the tests drive the transaction through sqlmock.

type fakeServiceRepo struct {
	services map[int64]*models.Service
}

func (f *fakeServiceRepo) CreateService(_ repositories.SQLExecutor, service *models.Service) (int64, error) {
	service.ID = int64(len(f.services) + 1)
	f.services[service.ID] = service
	return service.ID, nil
}

func (f *fakeServiceRepo) GetServiceByID(barbershopID, id int64) (*models.Service, error) {
	svc, ok := f.services[id]
	if !ok || svc.BarbershopID != barbershopID {
		return nil, repositories.ErrNotFound
	}
	copied := *svc
	return &copied, nil
}

func (f *fakeServiceRepo) GetServices(int64, models.CatalogFilters) ([]models.Service, int, error) {
	return nil, 0, nil
}

func (f *fakeServiceRepo) UpdateService(_ repositories.SQLExecutor, _, _ int64, _ repositories.ServiceUpdateParams) error {
	return nil
}

func (f *fakeServiceRepo) DeactivateService(_ repositories.SQLExecutor, _, id int64) error {
	if svc, ok := f.services[id]; ok {
		svc.Active = false
	}
	return nil
}

func (f *fakeServiceRepo) GetServiceStats(_, id int64) (*models.ServiceStats, error) {
	return &models.ServiceStats{ServiceID: id}, nil
}

type stockAdjustment struct {
	productID int64
	delta     int
}

type fakeProductRepo struct {
	products    map[int64]*models.Product
	adjustments []stockAdjustment
	locked      []int64
}

func (f *fakeProductRepo) CreateProduct(_ repositories.SQLExecutor, product *models.Product) (int64, error) {
	product.ID = int64(len(f.products) + 1)
	f.products[product.ID] = product
	return product.ID, nil
}

func (f *fakeProductRepo) GetProductByID(barbershopID, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok || p.BarbershopID != barbershopID {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductRepo) GetProducts(int64, models.CatalogFilters) ([]models.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) UpdateProduct(_ repositories.SQLExecutor, _, _ int64, _ repositories.ProductUpdateParams) error {
	return nil
}

func (f *fakeProductRepo) DeactivateProduct(_ repositories.SQLExecutor, _, id int64) error {
	if p, ok := f.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (f *fakeProductRepo) LockProductForUpdate(_ repositories.SQLExecutor, barbershopID, id int64) (*models.Product, error) {
	f.locked = append(f.locked, id)
	return f.GetProductByID(barbershopID, id)
}

func (f *fakeProductRepo) AdjustStockLocked(_ repositories.SQLExecutor, id int64, delta int) (int, error) {
	p, ok := f.products[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	if p.CurrentStock+delta < 0 {
		return 0, repositories.ErrInsufficientStock
	}
	p.CurrentStock += delta
	f.adjustments = append(f.adjustments, stockAdjustment{productID: id, delta: delta})
	return p.CurrentStock, nil
}

type purchaseCall struct {
	clientID int64
	amount   float64
	visits   int
}

type fakeClientRepo struct {
	clients   map[int64]*models.Client
	purchases []purchaseCall
}

func (f *fakeClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	client.ID = int64(len(f.clients) + 1)
	f.clients[client.ID] = client
	return client.ID, nil
}

func (f *fakeClientRepo) GetClientByID(barbershopID, id int64) (*models.Client, error) {
	c, ok := f.clients[id]
	if !ok || c.BarbershopID != barbershopID {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeClientRepo) GetClients(int64, models.ClientFilters) ([]models.Client, int, error) {
	return nil, 0, nil
}

func (f *fakeClientRepo) UpdateClient(_ repositories.SQLExecutor, _, _ int64, _ repositories.ClientUpdateParams) error {
	return nil
}

func (f *fakeClientRepo) DeactivateClient(_ repositories.SQLExecutor, _, id int64) error {
	if c, ok := f.clients[id]; ok {
		c.Status = models.ClientInactive
	}
	return nil
}

func (f *fakeClientRepo) RecordPurchase(_ repositories.SQLExecutor, clientID int64, amount float64, visits int) error {
	c, ok := f.clients[clientID]
	if !ok {
		return repositories.ErrNotFound
	}
	c.TotalSpent += amount
	if c.TotalSpent < 0 {
		c.TotalSpent = 0
	}
	c.TotalVisits += visits
	f.purchases = append(f.purchases, purchaseCall{clientID: clientID, amount: amount, visits: visits})
	return nil
}

type fakeStockRepo struct {
	movements []models.StockMovement
}

func (f *fakeStockRepo) CreateMovement(_ repositories.SQLExecutor, movement *models.StockMovement) (int64, error) {
	movement.ID = int64(len(f.movements) + 1)
	f.movements = append(f.movements, *movement)
	return movement.ID, nil
}

func (f *fakeStockRepo) GetMovements(int64, models.StockMovementFilters) ([]models.StockMovement, int, error) {
	return f.movements, len(f.movements), nil
}

type fakeSaleRepo struct {
	nextID      int64
	sales       map[int64]*models.Sale
	itemsBySale map[int64][]models.SaleItem
	summary     *models.DailySummary
	topItems    []models.TopItem

	// statusOverride makes GetSaleByID report this status instead of
	// the stored one, simulating a read racing a concurrent update.
	statusOverride string
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		nextID:      100,
		sales:       make(map[int64]*models.Sale),
		itemsBySale: make(map[int64][]models.SaleItem),
		summary:     &models.DailySummary{ByPaymentMethod: map[string]int{}},
	}
}

func (f *fakeSaleRepo) CreateSale(_ repositories.SQLExecutor, sale *models.Sale) (int64, error) {
	f.nextID++
	sale.ID = f.nextID
	stored := *sale
	f.sales[sale.ID] = &stored
	return sale.ID, nil
}

func (f *fakeSaleRepo) CreateSaleItem(_ repositories.SQLExecutor, item *models.SaleItem) (int64, error) {
	item.ID = int64(len(f.itemsBySale[item.SaleID]) + 1)
	f.itemsBySale[item.SaleID] = append(f.itemsBySale[item.SaleID], *item)
	return item.ID, nil
}

func (f *fakeSaleRepo) GetSaleByID(barbershopID, id int64) (*models.Sale, error) {
	sale, ok := f.sales[id]
	if !ok || sale.BarbershopID != barbershopID {
		return nil, repositories.ErrNotFound
	}
	copied := *sale
	if f.statusOverride != "" {
		copied.Status = f.statusOverride
	}
	return &copied, nil
}

func (f *fakeSaleRepo) GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error) {
	return f.itemsBySale[saleID], nil
}

func (f *fakeSaleRepo) GetSales(int64, models.SaleFilters) ([]models.Sale, int, error) {
	return nil, 0, nil
}

func (f *fakeSaleRepo) UpdateSaleStatus(_ repositories.SQLExecutor, barbershopID, id int64, fromStatus, toStatus string) error {
	sale, ok := f.sales[id]
	if !ok || sale.BarbershopID != barbershopID || sale.Status != fromStatus {
		return repositories.ErrNotFound
	}
	sale.Status = toStatus
	return nil
}

func (f *fakeSaleRepo) GetSummary(int64, time.Time, time.Time) (*models.DailySummary, error) {
	copied := *f.summary
	return &copied, nil
}

func (f *fakeSaleRepo) GetTopItems(_ int64, _, _ time.Time, limit int) ([]models.TopItem, error) {
	if limit < len(f.topItems) {
		return f.topItems[:limit], nil
	}
	return f.topItems, nil
}
