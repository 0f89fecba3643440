package ledger

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/stockroom/internal/platform/httpx"
	"github.com/stockroom/stockroom/internal/shared"
)

// Handler exposes the ledger over HTTP.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: shared.NewValidator()}
}

// MountRoutes registers transaction routes under /api/transactions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRecords)
	r.Post("/", h.recordMovement)
}

// MountProductRoutes registers per-product ledger reads on the products router.
func (h *Handler) MountProductRoutes(r chi.Router) {
	r.Get("/{id}/quantity", h.currentQuantity)
	r.Get("/{id}/reconciliation", h.reconcile)
}

type movementRequest struct {
	ProductID string           `json:"productId" validate:"required,uuid"`
	Kind      string           `json:"type" validate:"required,oneof=purchase sale"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice" validate:"required,decimal_gte0,money"`
}

type quantityResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int64     `json:"quantity"`
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	if err := shared.ValidateStruct(h.validate, req); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	record, err := h.service.RecordMovement(r.Context(), MovementInput{
		ProductID: uuid.MustParse(req.ProductID),
		Kind:      Kind(req.Kind),
		Quantity:  req.Quantity,
		UnitPrice: *req.UnitPrice,
	})
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, record)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	productID, err := httpx.QueryUUID(r, "productId")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	limit, err := httpx.QueryInt(r, "limit", 0)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	filter := ListFilter{ProductID: productID, Limit: limit}
	if raw := r.URL.Query().Get("type"); raw != "" {
		kind, err := ParseKind(raw)
		if err != nil {
			httpx.RespondError(w, h.logger, err)
			return
		}
		filter.Kind = kind
	}
	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) currentQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	qty, err := h.service.CurrentQuantity(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quantityResponse{ProductID: id, Quantity: qty})
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	rec, err := h.service.Reconcile(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}
