package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/freshbasket/storefront/internal/catalog/application"
	"github.com/freshbasket/storefront/internal/catalog/domain"
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
		tracer:  otel.Tracer("catalog-http"),
	}
}

// ProductJSON is the wire shape of a product, shared with the cart handlers
// that embed resolved products in their responses.
type ProductJSON struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Stock       int         `json:"stock"`
	Image       string      `json:"image"`
	Description string      `json:"description"`
}

func ToProductJSON(p domain.Product) ProductJSON {
	return ProductJSON{
		ID:          p.ID,
		Name:        p.Name,
		Price:       web.Money(p.Price),
		Stock:       p.Stock,
		Image:       p.Image,
		Description: p.Description,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListProducts")
	defer span.End()

	products, err := h.service.List(ctx)
	if err != nil {
		web.Error(w, h.log, err)
		return
	}

	out := make([]ProductJSON, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductJSON(p))
	}
	web.JSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetProduct")
	defer span.End()

	p, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		web.Error(w, h.log, err)
		return
	}
	web.JSON(w, http.StatusOK, map[string]any{"product": ToProductJSON(p)})
}
