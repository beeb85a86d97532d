package prescriptions

import "context"

type Repository interface {
	Create(ctx context.Context, p Prescription) error
	Update(ctx context.Context, p Prescription) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Prescription, error)
	GetByPID(ctx context.Context, pid string) (Prescription, error)
	List(ctx context.Context) ([]Prescription, error)
}

// Registry es el padrón externo (fijo) de recetas, consultado por PID.
// Devuelve ErrNotFound si el PID no existe.
type Registry interface {
	LookupPID(ctx context.Context, pid string) (Prescription, error)
}
