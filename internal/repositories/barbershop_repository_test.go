package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func barbershopRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "phone", "address", "plan_tier", "active", "created_at", "updated_at",
	})
}

func TestGetBarbershopBySlug(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBarbershopRepository(db)

	now := time.Now()
	mock.ExpectQuery(`FROM barbershops WHERE slug = \$1`).
		WithArgs("corner-barbershop").
		WillReturnRows(barbershopRows().AddRow(
			3, "Corner Barbershop", "corner-barbershop", nil, nil, "basic", true, now, now,
		))

	shop, err := repo.GetBarbershopBySlug("corner-barbershop")
	if err != nil {
		t.Fatalf("GetBarbershopBySlug: %v", err)
	}
	if shop.ID != 3 || shop.Name != "Corner Barbershop" {
		t.Errorf("shop = %+v, want id 3 Corner Barbershop", shop)
	}
}

func TestGetBarbershopBySlugNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBarbershopRepository(db)

	mock.ExpectQuery(`FROM barbershops WHERE slug = \$1`).
		WithArgs("nope").
		WillReturnRows(barbershopRows())

	if _, err := repo.GetBarbershopBySlug("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrNotFound)
	}
}
