package application

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasket/storefront/internal/apperr"
)

func newTestSimulator(roll float64) *Simulator {
	s := NewSimulator(slog.New(slog.DiscardHandler), 0, 0.95)
	s.roll = func() float64 { return roll }
	return s
}

func TestProcessSuccess(t *testing.T) {
	s := newTestSimulator(0.5)

	receipt, err := s.Process(t.Context(), decimal.RequireFromString("990.00"))
	require.NoError(t, err)
	assert.Contains(t, receipt.Reference, "pay_")
	assert.True(t, receipt.Amount.Equal(decimal.RequireFromString("990.00")))
	assert.False(t, receipt.ProcessedAt.IsZero())
}

func TestProcessDecline(t *testing.T) {
	s := newTestSimulator(0.99)

	_, err := s.Process(t.Context(), decimal.RequireFromString("990.00"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindPaymentFailed, apperr.KindOf(err))
}

func TestProcessRejectsNegativeAmount(t *testing.T) {
	s := newTestSimulator(0.5)

	_, err := s.Process(t.Context(), decimal.RequireFromString("-1"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestProcessHonorsContextDuringDelay(t *testing.T) {
	s := NewSimulator(slog.New(slog.DiscardHandler), time.Minute, 0.95)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Process(ctx, decimal.RequireFromString("10.00"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDistinctReferences(t *testing.T) {
	s := newTestSimulator(0.0)

	a, err := s.Process(t.Context(), decimal.RequireFromString("1.00"))
	require.NoError(t, err)
	b, err := s.Process(t.Context(), decimal.RequireFromString("1.00"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Reference, b.Reference)
}
