package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/catalog/products"
	"github.com/stockroom/stockroom/internal/catalog/suppliers"
	"github.com/stockroom/stockroom/internal/ledger"
	"github.com/stockroom/stockroom/internal/shared"
)

type fakeStore struct {
	wiped      bool
	suppliers  []suppliers.Supplier
	products   map[uuid.UUID]*products.Product
	order      []uuid.UUID
	movements  int
	failOnSale bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: make(map[uuid.UUID]*products.Product)}
}

func (f *fakeStore) Wipe(context.Context) error {
	f.wiped = true
	return nil
}

type supplierSide struct{ *fakeStore }
type productSide struct{ *fakeStore }
type ledgerSide struct{ *fakeStore }

func (s supplierSide) Create(_ context.Context, in suppliers.Input) (suppliers.Supplier, error) {
	sup := suppliers.Supplier{ID: uuid.New(), Name: in.Name, ContactEmail: in.ContactEmail, Phone: in.Phone}
	s.suppliers = append(s.suppliers, sup)
	return sup, nil
}

func (s productSide) Create(_ context.Context, in products.CreateInput) (products.Product, error) {
	p := &products.Product{ID: uuid.New(), Name: in.Name, SKU: in.SKU, Quantity: in.Quantity, UnitPrice: in.UnitPrice, SupplierIDs: in.SupplierIDs}
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
	return *p, nil
}

func (s ledgerSide) RecordMovement(_ context.Context, in ledger.MovementInput) (ledger.Record, error) {
	p, ok := s.products[in.ProductID]
	if !ok {
		return ledger.Record{}, shared.ErrNotFound
	}
	if in.Kind == ledger.KindSale && s.failOnSale {
		return ledger.Record{}, errors.New("boom")
	}
	next := p.Quantity + in.Kind.Sign()*in.Quantity
	if next < 0 {
		return ledger.Record{}, shared.ErrInsufficientStock
	}
	p.Quantity = next
	s.movements++
	return ledger.Record{ID: uuid.New(), ProductID: in.ProductID, Kind: in.Kind, Quantity: in.Quantity}, nil
}

func TestRunSeedsSampleData(t *testing.T) {
	store := newFakeStore()
	seeder := NewSeeder(store, supplierSide{store}, productSide{store}, ledgerSide{store})

	sum, err := seeder.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, Summary{Suppliers: 3, Products: 5, Transactions: 10}, sum)
	require.True(t, store.wiped)

	want := []int64{25, 15, 3, 8, 12}
	for i, id := range store.order {
		require.Equal(t, want[i], store.products[id].Quantity, store.products[id].SKU)
	}

	lamp := store.products[store.order[3]]
	require.Equal(t, []uuid.UUID{store.suppliers[1].ID, store.suppliers[2].ID}, lamp.SupplierIDs)
}

func TestRunStopsOnLedgerFailure(t *testing.T) {
	store := newFakeStore()
	store.failOnSale = true
	seeder := NewSeeder(store, supplierSide{store}, productSide{store}, ledgerSide{store})

	sum, err := seeder.Run(context.Background())
	require.ErrorContains(t, err, "boom")
	require.Equal(t, 1, sum.Transactions)
}
