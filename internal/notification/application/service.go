package application

import (
	"context"
	"log/slog"

	checkout "github.com/freshbasket/storefront/internal/checkout/domain"
)

// Service delivers order confirmations. There is no mail provider wired in
// this deployment, so delivery is a structured log line; the consumer and
// dedupe machinery around it are real.
type Service struct {
	log *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) Notify(ctx context.Context, event checkout.OrderPlaced) error {
	s.log.Info("order confirmation sent",
		"order_id", event.OrderID,
		"owner_id", event.OwnerID,
		"total", event.Total,
		"lines", len(event.Lines),
	)
	return nil
}
