package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

// Orders are only ever created completed: payment is validated before the
// order exists. Pending and failed remain in the column's value set for
// schema compatibility with external reporting.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// OrderLine is a frozen snapshot of a product at purchase time. Later
// catalog edits or deletions never change historical orders.
type OrderLine struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Order is an immutable record of one successful checkout.
type Order struct {
	ID            string
	OwnerID       string
	Lines         []OrderLine
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	PaymentStatus PaymentStatus
	PaymentRef    string
	CreatedAt     time.Time
}

// NewOrder prices the given line snapshot. Arithmetic is exact decimal; the
// tax and total are rounded to currency precision here, the boundary at
// which they are persisted, never mid-computation.
func NewOrder(id, ownerID string, lines []OrderLine, taxRate decimal.Decimal, paymentRef string) Order {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	return Order{
		ID:            id,
		OwnerID:       ownerID,
		Lines:         lines,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		PaymentStatus: PaymentCompleted,
		PaymentRef:    paymentRef,
		CreatedAt:     time.Now().UTC(),
	}
}
