package services

import (
	"errors"
	"testing"

	"barberflow_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

type catalogFixture struct {
	svc         CatalogService
	serviceRepo *fakeServiceRepo
	productRepo *fakeProductRepo
	stockRepo   *fakeStockRepo
	mock        sqlmock.Sqlmock
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &catalogFixture{
		serviceRepo: &fakeServiceRepo{services: make(map[int64]*models.Service)},
		productRepo: &fakeProductRepo{products: make(map[int64]*models.Product)},
		stockRepo:   &fakeStockRepo{},
		mock:        mock,
	}
	f.svc = NewCatalogService(f.serviceRepo, f.productRepo, f.stockRepo, db)
	return f
}

func TestCreateProductRecordsInitialStock(t *testing.T) {
	f := newCatalogFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	product, err := f.svc.CreateProduct(1, CreateProductRequest{
		Name: "Pomade", CostPrice: 10, SellPrice: 25, InitialStock: 12, MinStock: 3,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.CurrentStock != 12 || !product.Active {
		t.Errorf("product = %+v, want stock 12 active", product)
	}
	if len(f.stockRepo.movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(f.stockRepo.movements))
	}
	m := f.stockRepo.movements[0]
	if m.MovementType != models.MovementIn || m.Quantity != 12 {
		t.Errorf("movement = %+v, want in/12", m)
	}
}

func TestCreateProductZeroStockSkipsMovement(t *testing.T) {
	f := newCatalogFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	if _, err := f.svc.CreateProduct(1, CreateProductRequest{Name: "Pomade", SellPrice: 25}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if len(f.stockRepo.movements) != 0 {
		t.Errorf("movements = %d, want none for zero initial stock", len(f.stockRepo.movements))
	}
}

func TestAdjustStock(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		wantStock    int
		wantMovement string
	}{
		{"restock", 5, 9, models.MovementIn},
		{"correction down", -3, 1, models.MovementAdjustment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture(t)
			f.productRepo.products[20] = &models.Product{
				ID: 20, BarbershopID: 1, Name: "Pomade", CurrentStock: 4, Active: true,
			}

			f.mock.ExpectBegin()
			f.mock.ExpectCommit()

			product, err := f.svc.AdjustStock(1, 20, AdjustStockRequest{Quantity: tt.quantity})
			if err != nil {
				t.Fatalf("AdjustStock: %v", err)
			}
			if product.CurrentStock != tt.wantStock {
				t.Errorf("stock = %d, want %d", product.CurrentStock, tt.wantStock)
			}
			if len(f.stockRepo.movements) != 1 {
				t.Fatalf("movements = %d, want 1", len(f.stockRepo.movements))
			}
			if got := f.stockRepo.movements[0].MovementType; got != tt.wantMovement {
				t.Errorf("movement type = %q, want %q", got, tt.wantMovement)
			}
		})
	}
}

func TestAdjustStockFloor(t *testing.T) {
	f := newCatalogFixture(t)
	f.productRepo.products[20] = &models.Product{
		ID: 20, BarbershopID: 1, Name: "Pomade", CurrentStock: 2, Active: true,
	}

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	if _, err := f.svc.AdjustStock(1, 20, AdjustStockRequest{Quantity: -5}); !errors.Is(err, ErrStockFloor) {
		t.Fatalf("error = %v, want %v", err, ErrStockFloor)
	}
	if got := f.productRepo.products[20].CurrentStock; got != 2 {
		t.Errorf("stock mutated on rejected adjustment: %d", got)
	}
	if len(f.stockRepo.movements) != 0 {
		t.Errorf("movement recorded for rejected adjustment")
	}
}

func TestAdjustStockZeroQuantityRejected(t *testing.T) {
	f := newCatalogFixture(t)
	if _, err := f.svc.AdjustStock(1, 20, AdjustStockRequest{Quantity: 0}); !errors.Is(err, ErrCatalogValidation) {
		t.Fatalf("error = %v, want %v", err, ErrCatalogValidation)
	}
}

func TestDuplicateService(t *testing.T) {
	f := newCatalogFixture(t)
	category := "hair"
	f.serviceRepo.services[10] = &models.Service{
		ID: 10, BarbershopID: 1, Name: "Haircut", DurationMin: 30, Price: 50, Category: &category, Active: false,
	}

	copied, err := f.svc.DuplicateService(1, 10)
	if err != nil {
		t.Fatalf("DuplicateService: %v", err)
	}
	if copied.Name != "Haircut (copy)" {
		t.Errorf("name = %q, want suffix (copy)", copied.Name)
	}
	if copied.ID == 10 {
		t.Error("duplicate kept the source id")
	}
	if copied.Price != 50 || copied.DurationMin != 30 {
		t.Errorf("copy = %+v, want source price and duration", copied)
	}
	if !copied.Active {
		t.Error("duplicate should start active")
	}
}

func TestDeactivateProduct(t *testing.T) {
	f := newCatalogFixture(t)
	f.productRepo.products[20] = &models.Product{ID: 20, BarbershopID: 1, Name: "Pomade", Active: true}

	if err := f.svc.DeactivateProduct(1, 20); err != nil {
		t.Fatalf("DeactivateProduct: %v", err)
	}
	if f.productRepo.products[20].Active {
		t.Error("product still active")
	}
}
