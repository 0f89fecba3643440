package suppliers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/shared"
)

// Service coordinates supplier catalog operations.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: shared.NewValidator()}
}

// List returns one page of suppliers and the total match count.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	filters = filters.Normalize()
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("suppliers: list: %w", shared.StoreError(err))
	}
	return items, total, nil
}

// Get returns a supplier by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	if id == uuid.Nil {
		return Supplier{}, shared.FieldError("id", "is required")
	}
	sup, err := s.repo.Get(ctx, id)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: get: %w", shared.StoreError(err))
	}
	return sup, nil
}

// Create inserts a supplier. Duplicate names yield shared.ErrConflict.
func (s *Service) Create(ctx context.Context, in Input) (Supplier, error) {
	in, err := s.normalize(in)
	if err != nil {
		return Supplier{}, err
	}
	sup, err := s.repo.Create(ctx, in)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: create: %w", shared.StoreError(err))
	}
	return sup, nil
}

// Update replaces the writable fields of a supplier.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Supplier, error) {
	if id == uuid.Nil {
		return Supplier{}, shared.FieldError("id", "is required")
	}
	in, err := s.normalize(in)
	if err != nil {
		return Supplier{}, err
	}
	sup, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: update: %w", shared.StoreError(err))
	}
	return sup, nil
}

// Delete removes a supplier and its product associations.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.FieldError("id", "is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("suppliers: delete: %w", shared.StoreError(err))
	}
	return nil
}
