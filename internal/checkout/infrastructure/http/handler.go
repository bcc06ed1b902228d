package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/checkout/application"
	"github.com/freshbasket/storefront/internal/checkout/domain"
	"github.com/freshbasket/storefront/internal/identity"
	"github.com/freshbasket/storefront/internal/web"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("checkout-http"),
	}
}

type checkoutReq struct {
	PaymentID string `json:"paymentId"`
}

type orderLineJSON struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
}

type orderJSON struct {
	OrderID   string          `json:"orderId"`
	Items     []orderLineJSON `json:"items"`
	Subtotal  json.Number     `json:"subtotal"`
	Tax       json.Number     `json:"tax"`
	Total     json.Number     `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toOrderJSON(o domain.Order) orderJSON {
	items := make([]orderLineJSON, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, orderLineJSON{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     web.Money(l.Price),
			Quantity:  l.Quantity,
		})
	}
	return orderJSON{
		OrderID:   o.ID,
		Items:     items,
		Subtotal:  web.Money(o.Subtotal),
		Tax:       web.Money(o.Tax),
		Total:     web.Money(o.Total),
		CreatedAt: o.CreatedAt,
	}
}

// PlaceOrder handles POST /checkout.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, h.log, apperr.New(apperr.KindInvalidArgument, "invalid request body"))
		return
	}

	traceparent := r.Header.Get("traceparent")
	if traceparent == "" {
		carrier := propagation.MapCarrier{}
		otel.GetTextMapPropagator().Inject(ctx, carrier)
		traceparent = carrier["traceparent"]
	}

	order, err := h.service.PlaceOrder(ctx, identity.Owner(ctx), req.PaymentID, traceparent)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "order placed successfully",
		"order":   toOrderJSON(order),
	})
}

// ListOrders handles GET /orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	orders, err := h.service.Orders(ctx, identity.Owner(ctx))
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	web.JSON(w, http.StatusOK, map[string]any{"orders": out})
}
