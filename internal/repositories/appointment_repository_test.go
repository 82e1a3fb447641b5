package repositories

import (
	"testing"
	"time"

	"barberflow_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func appointmentColumns(withTotal bool) []string {
	columns := []string{
		"id", "barbershop_id", "client_id", "barber_id", "service_id",
		"appointment_date", "appointment_time", "duration_min", "status", "price", "notes",
		"client_name", "barber_name", "service_name", "created_at", "updated_at",
	}
	if withTotal {
		columns = append(columns, "total_count")
	}
	return columns
}

func TestGetAppointmentByIDFormatsDateAndTime(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	// The driver hands DATE and TIME columns back as time.Time.
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	slot := time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`WHERE a\.id = \$1 AND a\.barbershop_id = \$2`).
		WithArgs(int64(7), int64(1)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns(false)).AddRow(
			7, 1, 5, 3, 10, day, slot, 30, models.AppointmentScheduled, 50.0, nil,
			"Test Client", "Test Barber", "Haircut", now, now,
		))

	appt, err := repo.GetAppointmentByID(1, 7)
	if err != nil {
		t.Fatalf("GetAppointmentByID: %v", err)
	}
	if appt.Date != "2026-09-01" {
		t.Errorf("date = %q, want 2026-09-01", appt.Date)
	}
	if appt.Time != "14:30" {
		t.Errorf("time = %q, want 14:30", appt.Time)
	}
}

func TestGetAppointmentsFormatsDateAndTime(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	day := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	slot := time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`FROM appointments a`).
		WithArgs(int64(1), 20, 0).
		WillReturnRows(sqlmock.NewRows(appointmentColumns(true)).AddRow(
			7, 1, 5, 3, 10, day, slot, 45, models.AppointmentConfirmed, 75.0, nil,
			"Test Client", "Test Barber", "Beard Trim", now, now, 1,
		))

	appointments, _, err := repo.GetAppointments(1, models.AppointmentFilters{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("GetAppointments: %v", err)
	}
	if len(appointments) != 1 {
		t.Fatalf("appointments = %d, want 1", len(appointments))
	}
	if appointments[0].Date != "2026-09-02" {
		t.Errorf("date = %q, want 2026-09-02", appointments[0].Date)
	}
	if appointments[0].Time != "09:00" {
		t.Errorf("time = %q, want 09:00", appointments[0].Time)
	}
}
