package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is what a successful simulated payment returns; the reference is
// what checkout later accepts as the payment id.
type Receipt struct {
	Reference   string
	Amount      decimal.Decimal
	ProcessedAt time.Time
}
