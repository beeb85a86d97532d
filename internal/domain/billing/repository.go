package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, b Bill) error
	GetByID(ctx context.Context, id string) (Bill, error)
	// List devuelve las facturas en orden de creación.
	List(ctx context.Context) ([]Bill, error)
	Count(ctx context.Context) (int, error)
}

// PriceCatalog resuelve el precio vigente de un medicamento por nombre.
// Debe devolver ErrNotFound (de este paquete) si el nombre no existe.
type PriceCatalog interface {
	PriceOf(ctx context.Context, name string) (decimal.Decimal, error)
}
