package inventory

import "context"

type Repository interface {
	Create(ctx context.Context, m Medicine) error
	Update(ctx context.Context, m Medicine) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Medicine, error)
	// List devuelve el catálogo en orden de alta.
	List(ctx context.Context) ([]Medicine, error)
}

// CartRepository guarda a lo sumo una línea por medicineID.
type CartRepository interface {
	Get(ctx context.Context, medicineID string) (CartItem, error)
	Save(ctx context.Context, item CartItem) error
	Delete(ctx context.Context, medicineID string) error
	List(ctx context.Context) ([]CartItem, error)
	Clear(ctx context.Context) error
}
