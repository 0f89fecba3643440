package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/shared"
	"github.com/stockroom/stockroom/internal/testing/pgtest"
)

func TestRepositoryPostgres(t *testing.T) {
	pool := pgtest.Open(t)
	svc := NewService(NewRepository(pool))
	ctx := context.Background()

	sup, err := svc.Create(ctx, Input{Name: "Initech", ContactEmail: ptr("tps@initech.example")})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, sup.ID)

	_, err = svc.Create(ctx, Input{Name: "Initech"})
	require.ErrorIs(t, err, shared.ErrConflict)

	other, err := svc.Create(ctx, Input{Name: "Umbrella"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, other.ID, Input{Name: "Initech"})
	require.ErrorIs(t, err, shared.ErrConflict)

	items, total, err := svc.List(ctx, shared.ListFilters{Search: "init"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, sup.ID, items[0].ID)

	_, err = svc.Create(ctx, Input{Name: "100% Parts"})
	require.NoError(t, err)
	_, total, err = svc.List(ctx, shared.ListFilters{Search: "%"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	_, total, err = svc.List(ctx, shared.ListFilters{Search: "_nitech"})
	require.NoError(t, err)
	require.Zero(t, total)

	require.NoError(t, svc.Delete(ctx, sup.ID))
	require.ErrorIs(t, svc.Delete(ctx, sup.ID), shared.ErrNotFound)
	_, err = svc.Get(ctx, sup.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
