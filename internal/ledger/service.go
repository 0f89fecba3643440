package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/shared"
)

// maxListLimit caps a single ledger listing.
const maxListLimit = 1000

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetQuantity(ctx context.Context, productID uuid.UUID) (int64, error)
	ListRecords(ctx context.Context, filter ListFilter) ([]Record, error)
	Reconcile(ctx context.Context, productID uuid.UUID) (Reconciliation, error)
}

// Observer is notified of every movement attempt that reached the store.
type Observer interface {
	ObserveMovement(kind string, err error)
}

// Service coordinates stock movements.
type Service struct {
	repo      RepositoryPort
	publisher Publisher
	observer  Observer
	logger    *slog.Logger
}

// NewService builds Service. publisher, observer and logger are optional.
func NewService(repo RepositoryPort, publisher Publisher, observer Observer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, publisher: publisher, observer: observer, logger: logger}
}

// RecordMovement appends one ledger record and applies it to the product's
// cached quantity in the same unit of work.
func (s *Service) RecordMovement(ctx context.Context, input MovementInput) (Record, error) {
	if err := validateMovement(input); err != nil {
		return Record{}, err
	}

	var (
		record Record
		before int64
		after  int64
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		stock, err := tx.GetProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		next, err := applyMovement(stock, input)
		if err != nil {
			return err
		}
		inserted, err := tx.InsertRecord(ctx, Record{
			ProductID: input.ProductID,
			Kind:      input.Kind,
			Quantity:  input.Quantity,
			UnitPrice: input.UnitPrice,
		})
		if err != nil {
			return err
		}
		if err := tx.UpdateProductQuantity(ctx, input.ProductID, next); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		record, before, after = inserted, stock.Quantity, next
		return nil
	})
	if err != nil {
		err = shared.StoreError(err)
		s.observe(input.Kind, err)
		return Record{}, fmt.Errorf("ledger: record %s: %w", input.Kind, err)
	}
	s.observe(input.Kind, nil)
	s.publish(ctx, record, before, after)
	return record, nil
}

// CurrentQuantity returns the cached quantity of a product.
func (s *Service) CurrentQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	if productID == uuid.Nil {
		return 0, shared.FieldError("productId", "is required")
	}
	qty, err := s.repo.GetQuantity(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("ledger: current quantity: %w", shared.StoreError(err))
	}
	return qty, nil
}

// List returns ledger records newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, shared.FieldError("type", fmt.Sprintf("must be one of: %s %s", KindPurchase, KindSale))
	}
	switch {
	case filter.Limit < 0:
		return nil, shared.FieldError("limit", "must not be negative")
	case filter.Limit == 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	records, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ledger: list: %w", shared.StoreError(err))
	}
	return records, nil
}

// Reconcile compares a product's cached quantity with its ledger.
func (s *Service) Reconcile(ctx context.Context, productID uuid.UUID) (Reconciliation, error) {
	if productID == uuid.Nil {
		return Reconciliation{}, shared.FieldError("productId", "is required")
	}
	rec, err := s.repo.Reconcile(ctx, productID)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("ledger: reconcile: %w", shared.StoreError(err))
	}
	return rec, nil
}

func validateMovement(input MovementInput) error {
	fields := make(map[string]string)
	if input.ProductID == uuid.Nil {
		fields["productId"] = "is required"
	}
	if !input.Kind.Valid() {
		fields["type"] = fmt.Sprintf("must be one of: %s %s", KindPurchase, KindSale)
	}
	switch {
	case input.Quantity <= 0:
		fields["quantity"] = "must be greater than 0"
	case input.Quantity > MaxQuantity:
		fields["quantity"] = fmt.Sprintf("must be at most %d", MaxQuantity)
	}
	if msg := shared.MoneyProblem(input.UnitPrice); msg != "" {
		fields["unitPrice"] = msg
	}
	if len(fields) > 0 {
		return shared.NewValidationError(fields)
	}
	return nil
}

// applyMovement computes the quantity after input is applied to stock.
// Only sales are checked against zero.
func applyMovement(stock ProductStock, input MovementInput) (int64, error) {
	next := stock.Quantity + input.Kind.Sign()*input.Quantity
	if input.Kind == KindSale && next < 0 {
		return 0, &InsufficientStockError{
			ProductID: stock.ProductID,
			Available: stock.Quantity,
			Requested: input.Quantity,
		}
	}
	if next > MaxQuantity {
		return 0, shared.FieldError("quantity", fmt.Sprintf("would raise stock above %d", MaxQuantity))
	}
	return next, nil
}

func (s *Service) observe(kind Kind, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveMovement(string(kind), err)
}

func (s *Service) publish(ctx context.Context, record Record, before, after int64) {
	if s.publisher == nil {
		return
	}
	evt := MovementRecordedEvent{
		RecordID:       record.ID,
		ProductID:      record.ProductID,
		Kind:           record.Kind,
		Quantity:       record.Quantity,
		UnitPrice:      record.UnitPrice,
		QuantityBefore: before,
		QuantityAfter:  after,
		RecordedAt:     record.CreatedAt,
	}
	if err := s.publisher.PublishMovement(context.WithoutCancel(ctx), evt); err != nil {
		s.logger.Warn("publish movement event failed",
			slog.String("record_id", record.ID.String()),
			slog.Any("error", err))
	}
}
