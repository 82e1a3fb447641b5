package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barberflow_backend/internal/models"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(barbershopID, id int64) (*models.Client, error)
	GetClients(barbershopID int64, filters models.ClientFilters) ([]models.Client, int, error)
	UpdateClient(executor SQLExecutor, barbershopID, id int64, params ClientUpdateParams) error
	DeactivateClient(executor SQLExecutor, barbershopID, id int64) error
	// RecordPurchase bumps the lifetime aggregates inside a sale transaction.
	// A negative amount (refund) is clamped so total_spent never goes below zero.
	RecordPurchase(executor SQLExecutor, clientID int64, amount float64, visits int) error
}

// ClientUpdateParams is the typed partial update for a client profile.
// Nil fields are left untouched. Lifetime aggregates are deliberately
// absent; only RecordPurchase mutates them.
type ClientUpdateParams struct {
	FullName          *string
	PhoneNumber       *string
	Email             *string
	DateOfBirth       *time.Time
	Address           *string
	PreferredBarberID *int64
	Notes             *string
	Status            *string
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, barbershop_id, full_name, phone_number, email, date_of_birth, address,
	preferred_barber_id, notes, status, total_visits, total_spent, created_at, updated_at`

func scanClient(row interface{ Scan(...interface{}) error }, client *models.Client, extra ...interface{}) error {
	dest := []interface{}{
		&client.ID, &client.BarbershopID, &client.FullName, &client.PhoneNumber, &client.Email,
		&client.DateOfBirth, &client.Address, &client.PreferredBarberID, &client.Notes,
		&client.Status, &client.TotalVisits, &client.TotalSpent, &client.CreatedAt, &client.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

// CreateClient inserts a new client. Phone uniqueness per shop is a
// database constraint; violations surface as ErrDuplicateKey.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (barbershop_id, full_name, phone_number, email, date_of_birth,
	            address, preferred_barber_id, notes, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`

	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now
	if client.Status == "" {
		client.Status = models.ClientActive
	}

	err := executor.QueryRow(query,
		client.BarbershopID, client.FullName, client.PhoneNumber, client.Email, client.DateOfBirth,
		client.Address, client.PreferredBarberID, client.Notes, client.Status,
		client.CreatedAt, client.UpdatedAt,
	).Scan(&client.ID)
	if err != nil {
		return 0, translatePQError(err, "creating client")
	}
	return client.ID, nil
}

func (r *clientRepository) GetClientByID(barbershopID, id int64) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND barbershop_id = $2`
	err := scanClient(r.db.QueryRow(query, id, barbershopID), client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClients retrieves a tenant's clients with pagination and optional search.
// Inactive clients are hidden unless filters.IncludeInactive is set.
func (r *clientRepository) GetClients(barbershopID int64, filters models.ClientFilters) ([]models.Client, int, error) {
	clients := []models.Client{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + clientColumns + `, COUNT(*) OVER() AS total_count FROM clients`)

	conditions := []string{"barbershop_id = $1"}
	args := []interface{}{barbershopID}
	argCount := 2

	if !filters.IncludeInactive {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, models.ClientActive)
		argCount++
	}
	if filters.Search != nil && *filters.Search != "" {
		searchPattern := "%" + strings.ToLower(*filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("(LOWER(full_name) ILIKE $%d OR phone_number ILIKE $%d OR LOWER(email) ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY full_name ASC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var client models.Client
		if err := scanClient(rows, &client, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}

	return clients, totalCount, nil
}

func (r *clientRepository) UpdateClient(executor SQLExecutor, barbershopID, id int64, params ClientUpdateParams) error {
	b := newUpdateBuilder()
	b.Set("full_name", params.FullName)
	b.Set("phone_number", params.PhoneNumber)
	b.Set("email", params.Email)
	b.Set("date_of_birth", params.DateOfBirth)
	b.Set("address", params.Address)
	b.Set("preferred_barber_id", params.PreferredBarberID)
	b.Set("notes", params.Notes)
	b.Set("status", params.Status)
	if b.Empty() {
		return nil
	}
	query, args := b.BuildByIDAndShop("clients", id, barbershopID)

	result, err := executor.Exec(query, args...)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("updating client ID %d", id))
	}
	return requireRowsAffected(result, fmt.Sprintf("updating client ID %d", id))
}

// DeactivateClient is the delete operation: a status flip that keeps
// the row for sale and appointment history.
func (r *clientRepository) DeactivateClient(executor SQLExecutor, barbershopID, id int64) error {
	query := `UPDATE clients SET status = $1, updated_at = $2 WHERE id = $3 AND barbershop_id = $4`
	result, err := executor.Exec(query, models.ClientInactive, time.Now(), id, barbershopID)
	if err != nil {
		return fmt.Errorf("%w: deactivating client ID %d: %v", ErrDatabaseError, id, err)
	}
	return requireRowsAffected(result, fmt.Sprintf("deactivating client ID %d", id))
}

func (r *clientRepository) RecordPurchase(executor SQLExecutor, clientID int64, amount float64, visits int) error {
	query := `UPDATE clients
	          SET total_spent = GREATEST(total_spent + $1, 0),
	              total_visits = GREATEST(total_visits + $2, 0),
	              updated_at = $3
	          WHERE id = $4`
	result, err := executor.Exec(query, amount, visits, time.Now(), clientID)
	if err != nil {
		return translatePQError(err, fmt.Sprintf("recording purchase for client %d", clientID))
	}
	return requireRowsAffected(result, fmt.Sprintf("recording purchase for client %d", clientID))
}
