// Package web holds the HTTP plumbing shared by every handler: JSON
// responding, the taxonomy-to-status mapping, monetary rendering and request
// logging.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshbasket/storefront/internal/apperr"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindInvalidArgument:   http.StatusBadRequest,
	apperr.KindNotFound:          http.StatusNotFound,
	apperr.KindInsufficientStock: http.StatusConflict,
	apperr.KindEmptyCart:         http.StatusBadRequest,
	apperr.KindProductGone:       http.StatusConflict,
	apperr.KindPaymentFailed:     http.StatusPaymentRequired,
	apperr.KindInternal:          http.StatusInternalServerError,
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the stable status and user-facing message for err. Internal
// causes are logged, never echoed to the client.
func Error(w http.ResponseWriter, log *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	}
	JSON(w, status, map[string]any{
		"success": false,
		"error":   apperr.MessageOf(err),
		"kind":    kind,
	})
}

// Money renders a decimal as a bare JSON number with two-place precision.
// Rounding happens only here, at the response boundary.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// RequestLogger logs one line per request in the access-log style of the
// original service.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
