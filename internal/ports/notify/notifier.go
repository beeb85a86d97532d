package notify

import (
	"context"
	"time"
)

type Kind string

const (
	// KindCartSubmitted: el carrito de pedidos se envía a proveedor (mail/export).
	KindCartSubmitted Kind = "inventory.cart_submitted"
	// KindPrescriptionDispensed: una receta pasó a dispensed. Quien escuche decide
	// si genera la factura.
	KindPrescriptionDispensed Kind = "prescription.dispensed"
)

// Notification es lo que los módulos entregan hacia afuera (mail, WhatsApp, webhooks).
type Notification struct {
	Kind       Kind      `json:"kind"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// Notifier entrega notificaciones a un colaborador externo.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
