package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/freshbasket/storefront/internal/apperr"
	"github.com/freshbasket/storefront/internal/cart/application"
	"github.com/freshbasket/storefront/internal/cart/domain"
	cataloghttp "github.com/freshbasket/storefront/internal/catalog/infrastructure/http"
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
		tracer:  otel.Tracer("cart-http"),
	}
}

type addLineReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type lineJSON struct {
	Product  cataloghttp.ProductJSON `json:"product"`
	Quantity int                     `json:"quantity"`
}

type cartJSON struct {
	Items []lineJSON `json:"items"`
}

func toCartJSON(v domain.View) cartJSON {
	items := make([]lineJSON, 0, len(v.Lines))
	for _, l := range v.Lines {
		items = append(items, lineJSON{Product: cataloghttp.ToProductJSON(l.Product), Quantity: l.Quantity})
	}
	return cartJSON{Items: items}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.get)
	r.Post("/", h.addLine)
	r.Delete("/{productId}", h.removeLine)
	return r
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCart")
	defer span.End()

	view, err := h.service.View(ctx, identity.Owner(ctx))
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"items":     toCartJSON(view).Items,
		"cartCount": view.ItemCount(),
	})
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddCartLine")
	defer span.End()

	var req addLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, h.log, apperr.New(apperr.KindInvalidArgument, "invalid request body"))
		return
	}

	view, err := h.service.AddLine(ctx, identity.Owner(ctx), req.ProductID, req.Quantity)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"message":   "item added to cart",
		"cart":      toCartJSON(view),
		"cartCount": view.ItemCount(),
	})
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveCartLine")
	defer span.End()

	view, err := h.service.RemoveLine(ctx, identity.Owner(ctx), chi.URLParam(r, "productId"))
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{
		"message":   "item removed from cart",
		"cart":      toCartJSON(view),
		"cartCount": view.ItemCount(),
	})
}
