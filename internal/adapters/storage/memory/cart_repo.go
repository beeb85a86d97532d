package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hospital-dashboard/internal/domain/inventory"
)

// cartRepo: una línea por medicineID, en el orden en que se agregaron.
type cartRepo struct {
	mu    sync.RWMutex
	order []string
	items map[string]inventory.CartItem
}

func NewCartRepo() inventory.CartRepository {
	return &cartRepo{
		items: make(map[string]inventory.CartItem),
	}
}

func (r *cartRepo) Get(ctx context.Context, medicineID string) (inventory.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[medicineID]
	if !ok {
		return inventory.CartItem{}, inventory.ErrNotFound
	}
	return it, nil
}

func (r *cartRepo) Save(ctx context.Context, item inventory.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(item.MedicineID) == "" {
		return errors.New("cart item medicine id required")
	}
	if _, exists := r.items[item.MedicineID]; !exists {
		r.order = append(r.order, item.MedicineID)
	}
	r.items[item.MedicineID] = item
	return nil
}

// Delete es idempotente: quitar una línea inexistente no es error.
func (r *cartRepo) Delete(ctx context.Context, medicineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[medicineID]; !exists {
		return nil
	}
	delete(r.items, medicineID)
	r.order = removeID(r.order, medicineID)
	return nil
}

func (r *cartRepo) List(ctx context.Context) ([]inventory.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.CartItem, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *cartRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.items = make(map[string]inventory.CartItem)
	return nil
}
