package static

import (
	"context"
	"sync"
	"time"

	"hospital-dashboard/internal/domain/prescriptions"
)

// Registry es el padrón fijo de recetas emitidas por los médicos del hospital.
// Se usa cuando no hay REGISTRY_URL configurado.
type Registry struct {
	mu    sync.RWMutex
	byPID map[string]prescriptions.Prescription
}

func New(records ...prescriptions.Prescription) *Registry {
	r := &Registry{byPID: make(map[string]prescriptions.Prescription, len(records))}
	for _, p := range records {
		r.byPID[p.PID] = p
	}
	return r
}

// NewDefault trae el padrón de demo (P001..P003).
func NewDefault() *Registry {
	return New(DefaultRecords()...)
}

func (r *Registry) LookupPID(ctx context.Context, pid string) (prescriptions.Prescription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byPID[pid]
	if !ok {
		return prescriptions.Prescription{}, prescriptions.ErrNotFound
	}
	p.Medicines = append([]prescriptions.PrescribedMedicine(nil), p.Medicines...)
	return p, nil
}

func DefaultRecords() []prescriptions.Prescription {
	return []prescriptions.Prescription{
		{
			PID:     "P001",
			Patient: "John Doe",
			Doctor:  "Dr. Smith",
			Date:    day(2024, 1, 15),
			Medicines: []prescriptions.PrescribedMedicine{
				{Name: "Paracetamol", Dosage: "500mg", Frequency: "Twice daily", Duration: "5 days"},
				{Name: "Amoxicillin", Dosage: "250mg", Frequency: "Three times daily", Duration: "7 days"},
			},
		},
		{
			PID:     "P002",
			Patient: "Jane Smith",
			Doctor:  "Dr. Johnson",
			Date:    day(2024, 1, 14),
			Medicines: []prescriptions.PrescribedMedicine{
				{Name: "Ibuprofen", Dosage: "400mg", Frequency: "As needed", Duration: "3 days"},
			},
		},
		{
			PID:     "P003",
			Patient: "Robert Brown",
			Doctor:  "Dr. Patel",
			Date:    day(2024, 1, 16),
			Medicines: []prescriptions.PrescribedMedicine{
				{Name: "Aspirin", Dosage: "75mg", Frequency: "Once daily", Duration: "30 days"},
			},
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
