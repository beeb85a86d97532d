package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType define cómo se pagó la factura.
// @Enum cash, online
type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentOnline PaymentType = "online"
)

func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentOnline
}

// Stage del armado de una factura: Drafting -> AwaitingPayment -> Finalized.
// Sólo las facturas Finalized se guardan.
type Stage string

const (
	StageDrafting        Stage = "drafting"
	StageAwaitingPayment Stage = "awaiting_payment"
	StageFinalized       Stage = "finalized"
)

// LineItem copia nombre y precio del catálogo al momento de facturar.
type LineItem struct {
	Medicine string
	Quantity int
	Price    decimal.Decimal
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// TotalOf = Σ quantity * price.
func TotalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Bill es inmutable una vez creada.
type Bill struct {
	ID          string
	BillNo      string
	PatientName string
	PaymentType PaymentType
	Amount      decimal.Decimal
	Date        time.Time // sólo fecha (UTC, 00:00)
	Items       []LineItem
}

// Draft es el borrador ya valorizado, esperando medio de pago.
type Draft struct {
	Items []LineItem
	Total decimal.Decimal
	Stage Stage
}

// BillNumber arma "B" + secuencia con 3 dígitos (B001, B011, B1000).
func BillNumber(seq int) string {
	return fmt.Sprintf("B%03d", seq)
}

// DateOf trunca a fecha calendario.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
