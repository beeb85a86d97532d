package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hospital-dashboard/internal/domain/billing"
)

// billRepo es append-only: las facturas no se editan ni se borran.
type billRepo struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]billing.Bill
}

func NewBillRepo() billing.Repository {
	return &billRepo{
		byID: make(map[string]billing.Bill),
	}
}

func (r *billRepo) Create(ctx context.Context, b billing.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(b.ID) == "" {
		return errors.New("bill id required")
	}
	if _, exists := r.byID[b.ID]; exists {
		return errors.New("bill already exists")
	}
	b.Items = append([]billing.LineItem(nil), b.Items...)
	r.byID[b.ID] = b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *billRepo) GetByID(ctx context.Context, id string) (billing.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return billing.Bill{}, billing.ErrNotFound
	}
	return cloneBill(b), nil
}

func (r *billRepo) List(ctx context.Context) ([]billing.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]billing.Bill, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneBill(r.byID[id]))
	}
	return out, nil
}

func (r *billRepo) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order), nil
}

// los items se copian para que nadie modifique una factura guardada
func cloneBill(b billing.Bill) billing.Bill {
	b.Items = append([]billing.LineItem(nil), b.Items...)
	return b
}
