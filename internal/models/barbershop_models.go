package models

import "time"

// Plan tiers available to a barbershop account.
const (
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Barbershop is the tenant root. Every catalog and transactional record
// is partitioned by its id. Barbershops are deactivated, never deleted.
type Barbershop struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" binding:"required"`
	Slug      string    `json:"slug" db:"slug"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	PlanTier  string    `json:"plan_tier" db:"plan_tier"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
