package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshbasket/storefront/internal/apperr"
)

func TestErrorStatusMapping(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindInvalidArgument, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindInsufficientStock, http.StatusConflict},
		{apperr.KindEmptyCart, http.StatusBadRequest},
		{apperr.KindProductGone, http.StatusConflict},
		{apperr.KindPaymentFailed, http.StatusPaymentRequired},
		{apperr.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, log, apperr.New(tc.kind, "boom"))
		assert.Equal(t, tc.want, rec.Code, "kind %s", tc.kind)
	}
}

func TestErrorHidesUntypedCauses(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, slog.New(slog.DiscardHandler), errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
}

func TestMoneyRendersBareTwoPlaceNumber(t *testing.T) {
	payload, err := json.Marshal(map[string]any{"total": Money(decimal.RequireFromString("990"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 990.00}`, string(payload))

	payload, err = json.Marshal(map[string]any{"tax": Money(decimal.RequireFromString("12.345"))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tax": 12.35}`, string(payload))
}
