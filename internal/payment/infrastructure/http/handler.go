package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/payment/application"
	"github.com/freshbasket/storefront/internal/web"
)

type Handler struct {
	log       *slog.Logger
	simulator *application.Simulator
	tracer    trace.Tracer
}

func NewHandler(log *slog.Logger, simulator *application.Simulator) *Handler {
	return &Handler{
		log:       log,
		simulator: simulator,
		tracer:    otel.Tracer("payment-http"),
	}
}

type paymentReq struct {
	Amount decimal.Decimal `json:"amount"`
}

// Process handles POST /payment.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ProcessPayment")
	defer span.End()

	var req paymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, h.log, apperr.New(apperr.KindInvalidArgument, "invalid request body"))
		return
	}

	receipt, err := h.simulator.Process(ctx, req.Amount)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"paymentId": receipt.Reference,
		"amount":    web.Money(receipt.Amount),
		"message":   "payment processed successfully",
	})
}
