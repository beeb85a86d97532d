package analytics

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"hospital-dashboard/internal/domain/billing"
	"hospital-dashboard/internal/domain/inventory"

	"github.com/shopspring/decimal"
)

// TopMedicinesLimit: cuántos medicamentos muestra el ranking.
const TopMedicinesLimit = 5

// BillSource y StockSource son lecturas; analytics nunca escribe.
type BillSource interface {
	ListBills(ctx context.Context) ([]billing.Bill, error)
}

type StockSource interface {
	ListMedicines(ctx context.Context) ([]inventory.Medicine, error)
}

type MedicineSales struct {
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// Summary son las cifras del tablero, siempre derivadas de los datos actuales.
type Summary struct {
	TotalRevenue    decimal.Decimal
	TotalSales      int
	UnitsInStock    int
	PatientsServed  int
	LowStockCount   int
	OutOfStockCount int
	TopMedicines    []MedicineSales
}

type Service struct {
	bills BillSource
	stock StockSource
}

func NewService(bills BillSource, stock StockSource) *Service {
	return &Service{bills: bills, stock: stock}
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	bills, err := s.bills.ListBills(ctx)
	if err != nil {
		return Summary{}, err
	}
	meds, err := s.stock.ListMedicines(ctx)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{TotalRevenue: decimal.Zero, TotalSales: len(bills)}

	patients := make(map[string]struct{})
	byName := make(map[string]*MedicineSales)
	for _, b := range bills {
		out.TotalRevenue = out.TotalRevenue.Add(b.Amount)
		if name := strings.ToLower(strings.TrimSpace(b.PatientName)); name != "" {
			patients[name] = struct{}{}
		}
		for _, it := range b.Items {
			ms, ok := byName[it.Medicine]
			if !ok {
				ms = &MedicineSales{Name: it.Medicine, Revenue: decimal.Zero}
				byName[it.Medicine] = ms
			}
			ms.Quantity += it.Quantity
			ms.Revenue = ms.Revenue.Add(it.Subtotal())
		}
	}
	out.PatientsServed = len(patients)

	for _, m := range meds {
		out.UnitsInStock += m.Stock
		switch m.Status() {
		case inventory.StatusLowStock:
			out.LowStockCount++
		case inventory.StatusOutOfStock:
			out.OutOfStockCount++
		}
	}

	top := make([]MedicineSales, 0, len(byName))
	for _, ms := range byName {
		top = append(top, *ms)
	}
	// más vendido primero; empate por nombre para que el orden sea estable
	slices.SortFunc(top, func(a, b MedicineSales) int {
		if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	if len(top) > TopMedicinesLimit {
		top = top[:TopMedicinesLimit]
	}
	out.TopMedicines = top

	return out, nil
}
