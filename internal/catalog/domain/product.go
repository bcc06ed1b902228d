package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Stock is the only field mutated after
// seeding, and only by checkout's deduction.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Stock       int
	Image       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
