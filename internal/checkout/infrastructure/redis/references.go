// Package redis adapts the idempotency store to the checkout engine's
// single-use payment reference port.
package redis

import (
	"context"

	"github.com/freshbasket/storefront/pkg/idempotency"
)

type PaymentReferences struct {
	idem *idempotency.Store
}

func NewPaymentReferences(idem *idempotency.Store) *PaymentReferences {
	return &PaymentReferences{idem: idem}
}

func (r *PaymentReferences) ClaimPayment(ctx context.Context, ref string) (bool, error) {
	return r.idem.Claim(ctx, r.idem.PaymentKey(ref))
}

func (r *PaymentReferences) ReleasePayment(ctx context.Context, ref string) error {
	return r.idem.Release(ctx, r.idem.PaymentKey(ref))
}
