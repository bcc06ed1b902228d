package application

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/payment/domain"
)

// Simulator stands in for a real payment provider: a fixed processing delay
// and a configured success probability. Nothing is persisted; the only
// durable effect of a payment is the reference the caller hands to checkout.
type Simulator struct {
	log         *slog.Logger
	delay       time.Duration
	successRate float64

	roll func() float64
}

func NewSimulator(log *slog.Logger, delay time.Duration, successRate float64) *Simulator {
	return &Simulator{
		log:         log,
		delay:       delay,
		successRate: successRate,
		roll:        rand.Float64,
	}
}

func (s *Simulator) Process(ctx context.Context, amount decimal.Decimal) (domain.Receipt, error) {
	if amount.IsNegative() {
		return domain.Receipt{}, apperr.New(apperr.KindInvalidArgument, "amount must not be negative")
	}

	select {
	case <-ctx.Done():
		return domain.Receipt{}, ctx.Err()
	case <-time.After(s.delay):
	}

	if s.roll() >= s.successRate {
		s.log.Info("payment declined", "amount", amount)
		return domain.Receipt{}, apperr.New(apperr.KindPaymentFailed, "payment failed, please try again")
	}

	receipt := domain.Receipt{
		Reference:   "pay_" + uuid.NewString(),
		Amount:      amount,
		ProcessedAt: time.Now().UTC(),
	}
	s.log.Info("payment processed", "reference", receipt.Reference, "amount", amount)
	return receipt, nil
}
