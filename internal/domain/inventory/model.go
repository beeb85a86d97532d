package inventory

import "github.com/shopspring/decimal"

// StockStatus se deriva del stock; nunca se persiste.
type StockStatus string

const (
	StatusInStock    StockStatus = "in-stock"
	StatusLowStock   StockStatus = "low-stock"
	StatusOutOfStock StockStatus = "out-of-stock"
)

// LowStockThreshold: con stock <= 50 (y > 0) el medicamento está en low-stock.
const LowStockThreshold = 50

// StatusFor es la única regla de derivación del estado de stock.
func StatusFor(stock int) StockStatus {
	switch {
	case stock > LowStockThreshold:
		return StatusInStock
	case stock > 0:
		return StatusLowStock
	default:
		return StatusOutOfStock
	}
}

// Medicine es una entrada del catálogo de farmacia.
type Medicine struct {
	ID    string
	Name  string
	Stock int
	Price decimal.Decimal
}

// Status se recalcula en cada lectura.
func (m Medicine) Status() StockStatus {
	return StatusFor(m.Stock)
}

// CartItem es una línea del carrito de pedidos (refill/restock).
// Guarda nombre y precio como snapshot: si el medicamento se borra del catálogo
// la línea sigue siendo válida.
type CartItem struct {
	MedicineID string
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// Subtotal = quantity * unit price.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
