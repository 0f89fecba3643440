package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/stockroom/stockroom/internal/shared"
)

// RepositoryPort abstracts report queries.
type RepositoryPort interface {
	LowStock(ctx context.Context, threshold int64) ([]StockItem, error)
	CountLowStock(ctx context.Context, threshold int64) (int, error)
	CountProducts(ctx context.Context) (int, error)
	InventoryValue(ctx context.Context) (decimal.Decimal, error)
	ProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]StockItem, error)
}

// Service builds reports.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// LowStock returns products whose quantity is at or below threshold.
func (s *Service) LowStock(ctx context.Context, threshold int64) ([]StockItem, error) {
	if threshold < 0 {
		return nil, shared.FieldError("threshold", "must not be negative")
	}
	items, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("reports: low stock: %w", shared.StoreError(err))
	}
	return items, nil
}

// InventoryValue returns the summed value of all stock.
func (s *Service) InventoryValue(ctx context.Context) (InventoryValue, error) {
	total, err := s.repo.InventoryValue(ctx)
	if err != nil {
		return InventoryValue{}, fmt.Errorf("reports: inventory value: %w", shared.StoreError(err))
	}
	return InventoryValue{Total: total}, nil
}

// ProductsBySupplier returns the products a supplier is linked to. An
// unknown supplier yields an empty list.
func (s *Service) ProductsBySupplier(ctx context.Context, supplierID uuid.UUID) ([]StockItem, error) {
	if supplierID == uuid.Nil {
		return nil, shared.FieldError("supplierId", "is required")
	}
	items, err := s.repo.ProductsBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("reports: products by supplier: %w", shared.StoreError(err))
	}
	return items, nil
}

// Dashboard gathers the overview figures concurrently.
func (s *Service) Dashboard(ctx context.Context, threshold int64) (Dashboard, error) {
	if threshold < 0 {
		return Dashboard{}, shared.FieldError("threshold", "must not be negative")
	}
	out := Dashboard{Threshold: threshold}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountProducts(ctx)
		out.ProductCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountLowStock(ctx, threshold)
		out.LowStockCount = n
		return err
	})
	g.Go(func() error {
		v, err := s.repo.InventoryValue(ctx)
		out.InventoryValue = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("reports: dashboard: %w", shared.StoreError(err))
	}
	return out, nil
}
