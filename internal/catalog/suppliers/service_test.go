package suppliers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/stockroom/internal/shared"
)

type memoryRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]Supplier
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{suppliers: make(map[uuid.UUID]Supplier)}
}

func (r *memoryRepo) nameTaken(name string, except uuid.UUID) bool {
	for id, s := range r.suppliers {
		if id != except && s.Name == name {
			return true
		}
	}
	return false
}

func (r *memoryRepo) List(_ context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []Supplier
	for _, s := range r.suppliers {
		if filters.Search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Search)) {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	total := len(matched)
	start := filters.Offset()
	if start > total {
		start = total
	}
	end := start + filters.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *memoryRepo) Get(_ context.Context, id uuid.UUID) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, fmt.Errorf("%w: supplier %s", shared.ErrNotFound, id)
	}
	return s, nil
}

func (r *memoryRepo) Create(_ context.Context, in Input) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(in.Name, uuid.Nil) {
		return Supplier{}, shared.ErrConflict
	}
	now := time.Now().UTC()
	s := Supplier{ID: uuid.New(), Name: in.Name, ContactEmail: in.ContactEmail, Phone: in.Phone, CreatedAt: now, UpdatedAt: now}
	r.suppliers[s.ID] = s
	return s, nil
}

func (r *memoryRepo) Update(_ context.Context, id uuid.UUID, in Input) (Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, shared.ErrNotFound
	}
	if r.nameTaken(in.Name, id) {
		return Supplier{}, shared.ErrConflict
	}
	s.Name, s.ContactEmail, s.Phone = in.Name, in.ContactEmail, in.Phone
	s.UpdatedAt = time.Now().UTC()
	r.suppliers[id] = s
	return s, nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

func ptr(s string) *string { return &s }

func TestCreateNormalizesAndValidates(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	sup, err := svc.Create(ctx, Input{Name: "  Acme Supplies ", ContactEmail: ptr(" orders@acme.example "), Phone: ptr("   ")})
	require.NoError(t, err)
	require.Equal(t, "Acme Supplies", sup.Name)
	require.Equal(t, "orders@acme.example", *sup.ContactEmail)
	require.Nil(t, sup.Phone)

	_, err = svc.Create(ctx, Input{Name: ""})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "name")

	_, err = svc.Create(ctx, Input{Name: "Bad Mail", ContactEmail: ptr("not-an-email")})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "must be a valid email address", verr.Fields["contactEmail"])
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Input{Name: "Café Parts"})
	require.NoError(t, err)

	// Decomposed form of the same name collides after NFC normalisation.
	_, err = svc.Create(ctx, Input{Name: "Cafe\u0301 Parts"})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateGetDelete(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	sup, err := svc.Create(ctx, Input{Name: "Northwind"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, sup.ID, Input{Name: "Northwind Traders", Phone: ptr("555-0100")})
	require.NoError(t, err)
	require.Equal(t, "Northwind Traders", updated.Name)

	got, err := svc.Get(ctx, sup.ID)
	require.NoError(t, err)
	require.Equal(t, "555-0100", *got.Phone)

	require.NoError(t, svc.Delete(ctx, sup.ID))
	_, err = svc.Get(ctx, sup.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, sup.ID), shared.ErrNotFound)
	_, err = svc.Update(ctx, uuid.New(), Input{Name: "Ghost"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListPaginates(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	for _, name := range []string{"Delta", "Alpha", "Charlie", "Bravo"} {
		_, err := svc.Create(ctx, Input{Name: name})
		require.NoError(t, err)
	}

	items, total, err := svc.List(ctx, shared.ListFilters{Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Equal(t, 4, total)
	require.Len(t, items, 1)
	require.Equal(t, "Delta", items[0].Name)

	items, total, err = svc.List(ctx, shared.ListFilters{Search: "ar"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Charlie", items[0].Name)
}
