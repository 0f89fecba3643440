package products

import (
	"github.com/google/uuid"

	"github.com/stockroom/stockroom/internal/shared"
)

func (s *Service) normalizeCreate(in CreateInput) (CreateInput, error) {
	in.Name = shared.NormalizeName(in.Name)
	in.SKU = shared.NormalizeName(in.SKU)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return CreateInput{}, err
	}
	ids, err := normalizeSupplierIDs(in.SupplierIDs)
	if err != nil {
		return CreateInput{}, err
	}
	in.SupplierIDs = ids
	return in, nil
}

func (s *Service) normalizeUpdate(in UpdateInput) (UpdateInput, error) {
	in.Name = shared.NormalizeName(in.Name)
	in.SKU = shared.NormalizeName(in.SKU)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return UpdateInput{}, err
	}
	ids, err := normalizeSupplierIDs(in.SupplierIDs)
	if err != nil {
		return UpdateInput{}, err
	}
	in.SupplierIDs = ids
	return in, nil
}

// normalizeSupplierIDs drops duplicates, keeping first-seen order.
func normalizeSupplierIDs(ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, shared.FieldError("supplierIds", "must not contain the nil UUID")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
