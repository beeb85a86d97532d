package logsink

import (
	"context"

	"hospital-dashboard/internal/platform/logger"
	"hospital-dashboard/internal/ports/notify"
)

// Sink es el notifier por defecto: deja la notificación en el log.
// Reemplaza al envío real de mail/WhatsApp mientras no haya integración.
type Sink struct {
	log logger.Logger
}

func New(log logger.Logger) *Sink {
	if log == nil {
		log = logger.NewNop()
	}
	return &Sink{log: log.With(map[string]any{"component": "notify"})}
}

func (s *Sink) Notify(ctx context.Context, n notify.Notification) error {
	s.log.Info("notification", map[string]any{
		"kind":        string(n.Kind),
		"subject":     n.Subject,
		"occurred_at": n.OccurredAt,
		"payload":     n.Payload,
	})
	return nil
}
