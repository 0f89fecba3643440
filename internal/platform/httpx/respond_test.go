package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/shared"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{shared.FieldError("quantity", "must be greater than 0"), http.StatusBadRequest},
		{fmt.Errorf("%w: bad json", shared.ErrInvalidArgument), http.StatusBadRequest},
		{fmt.Errorf("%w: product", shared.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: sku", shared.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: sale", shared.ErrInsufficientStock), http.StatusUnprocessableEntity},
		{shared.StoreError(errors.New("down")), http.StatusServiceUnavailable},
		{errors.New("mystery"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		RespondError(rr, nil, tc.err)
		require.Equal(t, tc.status, rr.Code, tc.err.Error())
	}
}

func TestRespondErrorIncludesFieldErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, shared.FieldError("type", "must be one of: purchase sale"))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	require.Equal(t, http.StatusBadRequest, problem.Status)
	require.Equal(t, "must be one of: purchase sale", problem.Errors["type"])
}

func TestStoreUnavailableHidesCause(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, shared.StoreError(errors.New("password=hunter2")))
	require.NotContains(t, rr.Body.String(), "hunter2")
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}
	decode := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return DecodeJSON(httptest.NewRecorder(), req, &target)
	}
	require.NoError(t, decode(`{"name":"x"}`))
	require.ErrorIs(t, decode(``), shared.ErrInvalidArgument)
	require.ErrorIs(t, decode(`{"name":"x","extra":1}`), shared.ErrInvalidArgument)
	require.ErrorIs(t, decode(`{"name":"x"}{"name":"y"}`), shared.ErrInvalidArgument)
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=7&productId=bad&page=2&sort=name&dir=asc", nil)

	v, err := QueryInt(req, "limit", 1)
	require.NoError(t, err)
	require.Equal(t, 7, v)
	v, err = QueryInt(req, "missing", 3)
	require.NoError(t, err)
	require.Equal(t, 3, v)

	_, err = QueryUUID(req, "productId")
	require.ErrorIs(t, err, shared.ErrInvalidArgument)

	filters, err := ListFilters(req)
	require.NoError(t, err)
	require.Equal(t, 2, filters.Page)
	require.Equal(t, 7, filters.Limit)
	require.Equal(t, shared.SortAsc, filters.SortDir)
}
