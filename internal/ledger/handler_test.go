package ledger

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/platform/httpx"
)

func newTestRouter(repo *memoryRepo) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(repo, nil, nil, logger))
	r := chi.NewRouter()
	r.Route("/api/transactions", h.MountRoutes)
	r.Route("/api/products", h.MountProductRoutes)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandlerRecordMovement(t *testing.T) {
	repo := newMemoryRepo()
	id := repo.addProduct(10)
	router := newTestRouter(repo)

	rr := doRequest(t, router, http.MethodPost, "/api/transactions",
		`{"productId":"`+id.String()+`","type":"sale","quantity":4,"unitPrice":"12.50"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var rec Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	require.Equal(t, KindSale, rec.Kind)
	require.Equal(t, int64(4), rec.Quantity)
	require.Equal(t, "12.5", rec.UnitPrice.String())

	rr = doRequest(t, router, http.MethodGet, "/api/products/"+id.String()+"/quantity", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"productId":"`+id.String()+`","quantity":6}`, rr.Body.String())
}

func TestHandlerRecordMovementErrors(t *testing.T) {
	repo := newMemoryRepo()
	id := repo.addProduct(3)
	router := newTestRouter(repo)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"productId":`, http.StatusBadRequest},
		{"unknown field", `{"productId":"` + id.String() + `","type":"sale","quantity":1,"note":"x"}`, http.StatusBadRequest},
		{"zero quantity", `{"productId":"` + id.String() + `","type":"sale","quantity":0}`, http.StatusBadRequest},
		{"bad type", `{"productId":"` + id.String() + `","type":"gift","quantity":1}`, http.StatusBadRequest},
		{"negative price", `{"productId":"` + id.String() + `","type":"purchase","quantity":1,"unitPrice":-1}`, http.StatusBadRequest},
		{"missing price", `{"productId":"` + id.String() + `","type":"purchase","quantity":1}`, http.StatusBadRequest},
		{"sub-cent price", `{"productId":"` + id.String() + `","type":"purchase","quantity":1,"unitPrice":"0.005"}`, http.StatusBadRequest},
		{"price out of range", `{"productId":"` + id.String() + `","type":"purchase","quantity":1,"unitPrice":10000000000}`, http.StatusBadRequest},
		{"unknown product", `{"productId":"` + uuid.NewString() + `","type":"purchase","quantity":1,"unitPrice":1}`, http.StatusNotFound},
		{"oversell", `{"productId":"` + id.String() + `","type":"sale","quantity":4,"unitPrice":1}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(t, router, http.MethodPost, "/api/transactions", tc.body)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())
		})
	}
	require.Equal(t, int64(3), repo.quantity(id))
	require.Empty(t, repo.recordsFor(id))
}

func TestHandlerValidationProblemListsFields(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo)

	rr := doRequest(t, router, http.MethodPost, "/api/transactions", `{"productId":"nope","type":"sale","quantity":-1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	require.Contains(t, problem.Errors, "productId")
	require.Contains(t, problem.Errors, "quantity")
	require.Equal(t, "is required", problem.Errors["unitPrice"])
}

func TestHandlerListAndReconcile(t *testing.T) {
	repo := newMemoryRepo()
	a := repo.addProduct(0)
	b := repo.addProduct(0)
	router := newTestRouter(repo)

	for _, body := range []string{
		`{"productId":"` + a.String() + `","type":"purchase","quantity":5,"unitPrice":1}`,
		`{"productId":"` + b.String() + `","type":"purchase","quantity":2,"unitPrice":1}`,
		`{"productId":"` + a.String() + `","type":"sale","quantity":2,"unitPrice":3}`,
	} {
		rr := doRequest(t, router, http.MethodPost, "/api/transactions", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := doRequest(t, router, http.MethodGet, "/api/transactions?productId="+a.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	var records []Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 2)
	require.Equal(t, KindSale, records[0].Kind)

	rr = doRequest(t, router, http.MethodGet, "/api/transactions?type=bogus", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(t, router, http.MethodGet, "/api/products/"+a.String()+"/reconciliation", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var rec Reconciliation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	require.Equal(t, int64(3), rec.CachedQuantity)
	require.Equal(t, int64(3), rec.LedgerNet)
	require.Equal(t, int64(0), rec.OpeningQuantity)

	rr = doRequest(t, router, http.MethodGet, "/api/products/not-a-uuid/quantity", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
