package reports

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockroom/stockroom/internal/platform/httpx"
)

// Handler serves report endpoints.
type Handler struct {
	logger           *slog.Logger
	service          *Service
	defaultThreshold int64
}

// NewHandler builds Handler. threshold is used when the request omits one.
func NewHandler(logger *slog.Logger, service *Service, threshold int64) *Handler {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Handler{logger: logger, service: service, defaultThreshold: threshold}
}

// MountRoutes registers report routes under /api/reports.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/low-stock", h.lowStock)
	r.Get("/low-stock.csv", h.lowStockCSV)
	r.Get("/inventory-value", h.inventoryValue)
	r.Get("/products-by-supplier/{supplierId}", h.productsBySupplier)
	r.Get("/dashboard", h.dashboard)
}

func (h *Handler) threshold(r *http.Request) (int64, error) {
	v, err := httpx.QueryInt(r, "threshold", int(h.defaultThreshold))
	return int64(v), err
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.threshold(r)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	items, err := h.service.LowStock(r.Context(), threshold)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) lowStockCSV(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.threshold(r)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	items, err := h.service.LowStock(r.Context(), threshold)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	var buf bytes.Buffer
	if err := WriteLowStockCSV(&buf, items); err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="low-stock.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) inventoryValue(w http.ResponseWriter, r *http.Request) {
	value, err := h.service.InventoryValue(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, value)
}

func (h *Handler) productsBySupplier(w http.ResponseWriter, r *http.Request) {
	supplierID, err := httpx.URLParamUUID(r, "supplierId")
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	items, err := h.service.ProductsBySupplier(r.Context(), supplierID)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.threshold(r)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	summary, err := h.service.Dashboard(r.Context(), threshold)
	if err != nil {
		httpx.RespondError(w, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
