package services

import (
	"errors"
	"testing"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

type fakeBarberRepo struct {
	barbers          map[int64]*models.Barber
	hours            map[int64][]models.WorkingHours
	withAppointments map[int64]bool
	hardDeleted      []int64
}

func newFakeBarberRepo() *fakeBarberRepo {
	return &fakeBarberRepo{
		barbers:          make(map[int64]*models.Barber),
		hours:            make(map[int64][]models.WorkingHours),
		withAppointments: make(map[int64]bool),
	}
}

func (f *fakeBarberRepo) CreateBarber(_ repositories.SQLExecutor, barber *models.Barber) (int64, error) {
	barber.ID = int64(len(f.barbers) + 1)
	stored := *barber
	f.barbers[barber.ID] = &stored
	return barber.ID, nil
}

func (f *fakeBarberRepo) GetBarberByID(barbershopID, id int64) (*models.Barber, error) {
	barber, ok := f.barbers[id]
	if !ok || barber.BarbershopID != barbershopID {
		return nil, repositories.ErrNotFound
	}
	copied := *barber
	return &copied, nil
}

func (f *fakeBarberRepo) GetBarbers(int64, models.BarberFilters) ([]models.Barber, int, error) {
	return nil, 0, nil
}

func (f *fakeBarberRepo) UpdateBarber(_ repositories.SQLExecutor, barbershopID, id int64, params repositories.BarberUpdateParams) error {
	barber, ok := f.barbers[id]
	if !ok || barber.BarbershopID != barbershopID {
		return repositories.ErrNotFound
	}
	if params.FullName != nil {
		barber.FullName = *params.FullName
	}
	if params.CommissionRate != nil {
		barber.CommissionRate = *params.CommissionRate
	}
	if params.Status != nil {
		barber.Status = *params.Status
	}
	return nil
}

func (f *fakeBarberRepo) DeleteBarber(_ repositories.SQLExecutor, barbershopID, id int64) error {
	barber, ok := f.barbers[id]
	if !ok || barber.BarbershopID != barbershopID {
		return repositories.ErrNotFound
	}
	delete(f.barbers, id)
	f.hardDeleted = append(f.hardDeleted, id)
	return nil
}

func (f *fakeBarberRepo) DeactivateBarber(_ repositories.SQLExecutor, barbershopID, id int64) error {
	barber, ok := f.barbers[id]
	if !ok || barber.BarbershopID != barbershopID {
		return repositories.ErrNotFound
	}
	barber.Status = models.BarberInactive
	return nil
}

func (f *fakeBarberRepo) HasAppointments(barberID int64) (bool, error) {
	return f.withAppointments[barberID], nil
}

func (f *fakeBarberRepo) GetWorkingHours(barberID int64) ([]models.WorkingHours, error) {
	return f.hours[barberID], nil
}

func (f *fakeBarberRepo) ReplaceWorkingHours(_ repositories.SQLExecutor, barberID int64, hours []models.WorkingHours) error {
	f.hours[barberID] = hours
	return nil
}

func newBarberFixture(t *testing.T) (BarberService, *fakeBarberRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := newFakeBarberRepo()
	return NewBarberService(repo, db), repo, mock
}

func TestCreateBarberDefaults(t *testing.T) {
	svc, _, _ := newBarberFixture(t)

	barber, err := svc.CreateBarber(1, CreateBarberRequest{FullName: "Marco Silva", CommissionRate: 40})
	if err != nil {
		t.Fatalf("CreateBarber: %v", err)
	}
	if barber.Status != models.BarberActive {
		t.Errorf("status = %q, want active", barber.Status)
	}
	if barber.Specialties == nil {
		t.Error("specialties should default to an empty slice")
	}
}

func TestCreateBarberCommissionRange(t *testing.T) {
	svc, _, _ := newBarberFixture(t)

	for _, rate := range []float64{-1, 101} {
		if _, err := svc.CreateBarber(1, CreateBarberRequest{FullName: "Marco Silva", CommissionRate: rate}); !errors.Is(err, ErrBarberValidation) {
			t.Errorf("rate %.0f: error = %v, want %v", rate, err, ErrBarberValidation)
		}
	}
}

func TestDeleteBarberWithoutHistoryIsHardDelete(t *testing.T) {
	svc, repo, _ := newBarberFixture(t)
	repo.barbers[3] = &models.Barber{ID: 3, BarbershopID: 1, FullName: "Marco Silva", Status: models.BarberActive}

	deleted, err := svc.DeleteBarber(1, 3)
	if err != nil {
		t.Fatalf("DeleteBarber: %v", err)
	}
	if !deleted {
		t.Error("deleted = false, want true for barber without appointments")
	}
	if _, ok := repo.barbers[3]; ok {
		t.Error("barber row still present after hard delete")
	}
}

func TestDeleteBarberWithHistoryDeactivates(t *testing.T) {
	svc, repo, _ := newBarberFixture(t)
	repo.barbers[3] = &models.Barber{ID: 3, BarbershopID: 1, FullName: "Marco Silva", Status: models.BarberActive}
	repo.withAppointments[3] = true

	deleted, err := svc.DeleteBarber(1, 3)
	if err != nil {
		t.Fatalf("DeleteBarber: %v", err)
	}
	if deleted {
		t.Error("deleted = true, want false when history exists")
	}
	if got := repo.barbers[3].Status; got != models.BarberInactive {
		t.Errorf("status = %q, want inactive", got)
	}
	if len(repo.hardDeleted) != 0 {
		t.Error("barber with history was hard deleted")
	}
}

func TestSetWorkingHours(t *testing.T) {
	svc, repo, mock := newBarberFixture(t)
	repo.barbers[3] = &models.Barber{ID: 3, BarbershopID: 1, FullName: "Marco Silva", Status: models.BarberActive}

	mock.ExpectBegin()
	mock.ExpectCommit()

	barber, err := svc.SetWorkingHours(1, 3, WorkingHoursRequest{Hours: []WorkingHoursEntry{
		{Weekday: 1, StartTime: "09:00", EndTime: "18:00", Active: true},
		{Weekday: 6, StartTime: "10:00", EndTime: "14:00", Active: true},
	}})
	if err != nil {
		t.Fatalf("SetWorkingHours: %v", err)
	}
	if len(barber.WorkingHours) != 2 {
		t.Fatalf("working hours = %d, want 2", len(barber.WorkingHours))
	}
	if barber.WorkingHours[0].StartTime != "09:00" {
		t.Errorf("first entry = %+v", barber.WorkingHours[0])
	}
}

func TestSetWorkingHoursRejectsInvertedRange(t *testing.T) {
	svc, repo, _ := newBarberFixture(t)
	repo.barbers[3] = &models.Barber{ID: 3, BarbershopID: 1, FullName: "Marco Silva"}

	_, err := svc.SetWorkingHours(1, 3, WorkingHoursRequest{Hours: []WorkingHoursEntry{
		{Weekday: 1, StartTime: "18:00", EndTime: "09:00"},
	}})
	if !errors.Is(err, ErrBarberValidation) {
		t.Fatalf("error = %v, want %v", err, ErrBarberValidation)
	}
	if len(repo.hours[3]) != 0 {
		t.Error("schedule replaced despite validation failure")
	}
}

func TestUpdateBarberUnknownStatus(t *testing.T) {
	svc, repo, _ := newBarberFixture(t)
	repo.barbers[3] = &models.Barber{ID: 3, BarbershopID: 1, FullName: "Marco Silva"}

	bad := "retired"
	if _, err := svc.UpdateBarber(1, 3, UpdateBarberRequest{Status: &bad}); !errors.Is(err, ErrBarberValidation) {
		t.Fatalf("error = %v, want %v", err, ErrBarberValidation)
	}
}
