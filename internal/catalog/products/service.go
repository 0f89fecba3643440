package products

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/shared"
)

// Service coordinates product catalog operations.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: shared.NewValidator()}
}

// List returns one page of products and the total match count.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	filters = filters.Normalize()
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", shared.StoreError(err))
	}
	return items, total, nil
}

// Get returns a product with its supplier ids.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	if id == uuid.Nil {
		return Product{}, shared.FieldError("id", "is required")
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("products: get: %w", shared.StoreError(err))
	}
	return p, nil
}

// Create inserts the product and its supplier links in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	in, err := s.normalizeCreate(in)
	if err != nil {
		return Product{}, err
	}
	var created Product
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.Insert(ctx, in)
		if err != nil {
			return err
		}
		if err := tx.ReplaceSuppliers(ctx, p.ID, in.SupplierIDs); err != nil {
			return err
		}
		p.SupplierIDs = in.SupplierIDs
		created = p
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("products: create: %w", shared.StoreError(err))
	}
	return created, nil
}

// Update changes name, SKU and price and replaces the supplier set.
// The stock quantity is never modified here.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Product, error) {
	if id == uuid.Nil {
		return Product{}, shared.FieldError("id", "is required")
	}
	in, err := s.normalizeUpdate(in)
	if err != nil {
		return Product{}, err
	}
	var updated Product
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.Update(ctx, id, in)
		if err != nil {
			return err
		}
		if err := tx.ReplaceSuppliers(ctx, id, in.SupplierIDs); err != nil {
			return err
		}
		p.SupplierIDs = in.SupplierIDs
		updated = p
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("products: update: %w", shared.StoreError(err))
	}
	return updated, nil
}

// ReplaceSuppliers atomically swaps the product's supplier set.
func (s *Service) ReplaceSuppliers(ctx context.Context, id uuid.UUID, supplierIDs []uuid.UUID) (Product, error) {
	if id == uuid.Nil {
		return Product{}, shared.FieldError("id", "is required")
	}
	ids, err := normalizeSupplierIDs(supplierIDs)
	if err != nil {
		return Product{}, err
	}
	var result Product
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.ReplaceSuppliers(ctx, id, ids); err != nil {
			return err
		}
		p.SupplierIDs = ids
		result = p
		return nil
	})
	if err != nil {
		return Product{}, fmt.Errorf("products: replace suppliers: %w", shared.StoreError(err))
	}
	return result, nil
}

// Delete removes a product. Its ledger rows and supplier links cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.FieldError("id", "is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("products: delete: %w", shared.StoreError(err))
	}
	return nil
}
