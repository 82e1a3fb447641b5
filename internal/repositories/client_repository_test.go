package repositories

import (
	"errors"
	"testing"
	"time"

	"barberflow_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func clientRows(extraCols ...string) *sqlmock.Rows {
	cols := []string{
		"id", "barbershop_id", "full_name", "phone_number", "email", "date_of_birth", "address",
		"preferred_barber_id", "notes", "status", "total_visits", "total_spent", "created_at", "updated_at",
	}
	return sqlmock.NewRows(append(cols, extraCols...))
}

func TestCreateClientDefaultsStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(`INSERT INTO clients`).
		WithArgs(int64(1), "Ana Souza", nil, nil, nil, nil, nil, nil, models.ClientActive,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	client := &models.Client{BarbershopID: 1, FullName: "Ana Souza"}
	id, err := repo.CreateClient(db, client)
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if id != 7 || client.ID != 7 {
		t.Errorf("id = %d (struct %d), want 7", id, client.ID)
	}
	if client.Status != models.ClientActive {
		t.Errorf("status = %q, want default %q", client.Status, models.ClientActive)
	}
}

func TestCreateClientDuplicatePhone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectQuery(`INSERT INTO clients`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "clients_barbershop_id_phone_number_key"})

	client := &models.Client{BarbershopID: 1, FullName: "Ana Souza"}
	if _, err := repo.CreateClient(db, client); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("error = %v, want %v", err, ErrDuplicateKey)
	}
}

func TestGetClientsHidesInactiveByDefault(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	now := time.Now()
	rows := clientRows("total_count").
		AddRow(7, 1, "Ana Souza", nil, nil, nil, nil, nil, nil, models.ClientActive, 3, 150.0, now, now, 42)

	mock.ExpectQuery(`status = \$2`).
		WithArgs(int64(1), models.ClientActive, 20, 0).
		WillReturnRows(rows)

	clients, total, err := repo.GetClients(1, models.ClientFilters{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("GetClients: %v", err)
	}
	if total != 42 {
		t.Errorf("total = %d, want window total 42", total)
	}
	if len(clients) != 1 || clients[0].FullName != "Ana Souza" {
		t.Errorf("clients = %+v", clients)
	}
}

func TestRecordPurchase(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectExec(`SET total_spent = GREATEST\(total_spent \+ \$1, 0\)`).
		WithArgs(90.0, 1, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RecordPurchase(db, 5, 90.0, 1); err != nil {
		t.Fatalf("RecordPurchase: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecordPurchaseUnknownClient(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectExec(`SET total_spent = GREATEST\(total_spent \+ \$1, 0\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.RecordPurchase(db, 999, 90.0, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeactivateClientScopedToShop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewClientRepository(db)

	mock.ExpectExec(`UPDATE clients SET status = \$1`).
		WithArgs(models.ClientInactive, sqlmock.AnyArg(), int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Client 7 belongs to shop 1, so shop 2 affects zero rows.
	if err := repo.DeactivateClient(db, 2, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrNotFound)
	}
}
