package seed

import (
	"context"
	"fmt"
	"time"

	"hospital-dashboard/internal/domain/billing"
	"hospital-dashboard/internal/domain/inventory"
	"hospital-dashboard/internal/domain/prescriptions"
	"hospital-dashboard/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MedicineCatalog es lo que el seed necesita del inventario.
type MedicineCatalog interface {
	AddMedicine(ctx context.Context, in inventory.AddMedicineInput) (inventory.Medicine, error)
	ListMedicines(ctx context.Context) ([]inventory.Medicine, error)
}

// PrescriptionImporter trae recetas del registry a la lista de trabajo.
type PrescriptionImporter interface {
	FindByPID(ctx context.Context, pid string) (prescriptions.Prescription, error)
	List(ctx context.Context) ([]prescriptions.Prescription, error)
}

type Deps struct {
	Medicines     MedicineCatalog
	Bills         billing.Repository // las facturas históricas llevan su propia fecha
	Prescriptions PrescriptionImporter
}

// DemoPIDs se importan del registry al arrancar con datos de demo.
var DemoPIDs = []string{"P001", "P002"}

// Demo carga los datos de demostración del tablero. Cada colección se siembra
// sólo si está vacía, así que es seguro llamarlo en cada arranque.
func Demo(ctx context.Context, d Deps, log logger.Logger) error {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(map[string]any{"component": "seed"})

	if d.Medicines != nil {
		if err := demoMedicines(ctx, d.Medicines, log); err != nil {
			return err
		}
	}
	if d.Bills != nil {
		if err := demoBills(ctx, d.Bills, log); err != nil {
			return err
		}
	}
	if d.Prescriptions != nil {
		if err := demoPrescriptions(ctx, d.Prescriptions, log); err != nil {
			return err
		}
	}
	return nil
}

func demoMedicines(ctx context.Context, cat MedicineCatalog, log logger.Logger) error {
	existing, err := cat.ListMedicines(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	rows := []struct {
		name  string
		stock int
		price string
	}{
		{"Paracetamol", 150, "5.00"},
		{"Amoxicillin", 25, "12.50"},
		{"Ibuprofen", 0, "8.00"},
		{"Aspirin", 200, "3.50"},
	}
	for _, r := range rows {
		stock := r.stock
		price := decimal.RequireFromString(r.price)
		if _, err := cat.AddMedicine(ctx, inventory.AddMedicineInput{Name: r.name, Stock: &stock, Price: &price}); err != nil {
			return fmt.Errorf("seed medicine %s: %w", r.name, err)
		}
	}
	log.Info("seeded medicines", map[string]any{"count": len(rows)})
	return nil
}

func demoBills(ctx context.Context, repo billing.Repository, log logger.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	bills := []struct {
		patient string
		payment billing.PaymentType
		date    time.Time
		items   []billing.LineItem
	}{
		{
			patient: "John Doe",
			payment: billing.PaymentCash,
			date:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			items: []billing.LineItem{
				{Medicine: "Paracetamol", Quantity: 2, Price: decimal.RequireFromString("5.00")},
				{Medicine: "Amoxicillin", Quantity: 3, Price: decimal.RequireFromString("12.50")},
			},
		},
		{
			patient: "Jane Smith",
			payment: billing.PaymentOnline,
			date:    time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
			items: []billing.LineItem{
				{Medicine: "Ibuprofen", Quantity: 3, Price: decimal.RequireFromString("8.00")},
			},
		},
	}
	for i, b := range bills {
		// el monto siempre sale de los items
		bill := billing.Bill{
			ID:          uuid.NewString(),
			BillNo:      billing.BillNumber(i + 1),
			PatientName: b.patient,
			PaymentType: b.payment,
			Amount:      billing.TotalOf(b.items),
			Date:        b.date,
			Items:       b.items,
		}
		if err := repo.Create(ctx, bill); err != nil {
			return fmt.Errorf("seed bill %s: %w", bill.BillNo, err)
		}
	}
	log.Info("seeded bills", map[string]any{"count": len(bills)})
	return nil
}

func demoPrescriptions(ctx context.Context, imp PrescriptionImporter, log logger.Logger) error {
	existing, err := imp.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, pid := range DemoPIDs {
		if _, err := imp.FindByPID(ctx, pid); err != nil {
			return fmt.Errorf("seed prescription %s: %w", pid, err)
		}
	}
	log.Info("seeded prescriptions", map[string]any{"count": len(DemoPIDs)})
	return nil
}
