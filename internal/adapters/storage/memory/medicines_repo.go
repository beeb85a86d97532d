package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hospital-dashboard/internal/domain/inventory"
)

// medicineRepo conserva el orden de alta: List y la búsqueda lo respetan.
type medicineRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]inventory.Medicine
}

func NewMedicineRepo() inventory.Repository {
	return &medicineRepo{
		byID: make(map[string]inventory.Medicine),
	}
}

func (r *medicineRepo) Create(ctx context.Context, m inventory.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medicine id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medicine already exists")
	}
	r.byID[m.ID] = m
	r.order = append(r.order, m.ID)
	return nil
}

func (r *medicineRepo) Update(ctx context.Context, m inventory.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[m.ID]; !exists {
		return inventory.ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return inventory.ErrNotFound
	}
	delete(r.byID, id)
	r.order = removeID(r.order, id)
	return nil
}

func (r *medicineRepo) GetByID(ctx context.Context, id string) (inventory.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return inventory.Medicine{}, inventory.ErrNotFound
	}
	return m, nil
}

func (r *medicineRepo) List(ctx context.Context) ([]inventory.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inventory.Medicine, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
