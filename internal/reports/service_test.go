package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/shared"
)

type fakeRepo struct {
	items []StockItem
	links map[uuid.UUID][]uuid.UUID
	err   error
}

func (f *fakeRepo) LowStock(_ context.Context, threshold int64) ([]StockItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]StockItem, 0)
	for _, it := range f.items {
		if it.Quantity <= threshold {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeRepo) CountLowStock(ctx context.Context, threshold int64) (int, error) {
	items, err := f.LowStock(ctx, threshold)
	return len(items), err
}

func (f *fakeRepo) CountProducts(context.Context) (int, error) {
	return len(f.items), f.err
}

func (f *fakeRepo) InventoryValue(context.Context) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	total := decimal.Zero
	for _, it := range f.items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total, nil
}

func (f *fakeRepo) ProductsBySupplier(_ context.Context, supplierID uuid.UUID) ([]StockItem, error) {
	out := make([]StockItem, 0)
	for _, pid := range f.links[supplierID] {
		for _, it := range f.items {
			if it.ID == pid {
				out = append(out, it)
			}
		}
	}
	return out, f.err
}

func item(name string, qty int64, price string) StockItem {
	return StockItem{ID: uuid.New(), Name: name, SKU: "SKU-" + name, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func sampleRepo() *fakeRepo {
	return &fakeRepo{items: []StockItem{
		item("Widget", 25, "2.50"),
		item("Gadget", 15, "10.00"),
		item("Doohickey", 3, "7.25"),
		item("Sprocket", 8, "1.10"),
		item("Gizmo", 3, "4.00"),
	}, links: map[uuid.UUID][]uuid.UUID{}}
}

func TestLowStockOrdering(t *testing.T) {
	svc := NewService(sampleRepo())

	items, err := svc.LowStock(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Doohickey", items[0].Name)
	require.Equal(t, "Gizmo", items[1].Name)

	items, err = svc.LowStock(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = svc.LowStock(context.Background(), -1)
	require.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestInventoryValue(t *testing.T) {
	svc := NewService(sampleRepo())
	value, err := svc.InventoryValue(context.Background())
	require.NoError(t, err)
	require.Equal(t, "255.05", value.Total.StringFixed(2))

	empty := NewService(&fakeRepo{})
	value, err = empty.InventoryValue(context.Background())
	require.NoError(t, err)
	require.True(t, value.Total.IsZero())
}

func TestProductsBySupplier(t *testing.T) {
	repo := sampleRepo()
	supplier := uuid.New()
	repo.links[supplier] = []uuid.UUID{repo.items[0].ID, repo.items[2].ID}
	svc := NewService(repo)

	items, err := svc.ProductsBySupplier(context.Background(), supplier)
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = svc.ProductsBySupplier(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)

	_, err = svc.ProductsBySupplier(context.Background(), uuid.Nil)
	require.ErrorIs(t, err, shared.ErrInvalidArgument)
}

func TestDashboard(t *testing.T) {
	svc := NewService(sampleRepo())
	summary, err := svc.Dashboard(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 5, summary.ProductCount)
	require.Equal(t, 2, summary.LowStockCount)
	require.Equal(t, "255.05", summary.InventoryValue.StringFixed(2))

	failing := NewService(&fakeRepo{err: errors.New("db down")})
	_, err = failing.Dashboard(context.Background(), 5)
	require.ErrorIs(t, err, shared.ErrStoreUnavailable)
}

func TestWriteLowStockCSV(t *testing.T) {
	items := []StockItem{item("Gizmo, large", 2, "4")}
	var buf bytes.Buffer
	require.NoError(t, WriteLowStockCSV(&buf, items))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []string{"ID", "SKU", "Name", "Quantity", "Unit Price"}, records[0])
	require.Equal(t, "Gizmo, large", records[1][2])
	require.Equal(t, "4.00", records[1][4])
}
