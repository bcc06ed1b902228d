package domain

import "github.com/shopspring/decimal"

// OrderPlaced is written to the outbox in the checkout transaction and
// relayed to kafka for downstream consumers such as the notifier.
type OrderPlaced struct {
	OrderID string           `json:"orderId"`
	OwnerID string           `json:"ownerId"`
	Total   decimal.Decimal  `json:"total"`
	Lines   []OrderLineEvent `json:"lines"`
}

type OrderLineEvent struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}
