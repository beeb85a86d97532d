package prescriptions

import "time"

// Status de la receta. Única transición: pending -> dispensed.
// @Enum pending, dispensed
type Status string

const (
	StatusPending   Status = "pending"
	StatusDispensed Status = "dispensed"
)

// PrescribedMedicine son strings opacos; no se validan contra el inventario.
type PrescribedMedicine struct {
	Name      string
	Dosage    string
	Frequency string
	Duration  string
}

type Prescription struct {
	ID      string
	PID     string // patient id, clave de búsqueda
	Patient string
	Doctor  string
	Date    time.Time

	Status    Status
	Medicines []PrescribedMedicine
}
