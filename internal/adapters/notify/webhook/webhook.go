package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hospital-dashboard/internal/platform/httpclient"
	"hospital-dashboard/internal/ports/notify"
)

var ErrWebhookNotConfigured = errors.New("webhook url not configured")

// Notifier hace POST de cada notificación (JSON) a una URL fija.
// Del otro lado suele estar el gateway de mail / WhatsApp del hospital.
type Notifier struct {
	http *httpclient.Client
	url  string
}

func New(url string, timeout time.Duration) *Notifier {
	return &Notifier{
		http: httpclient.New(timeout),
		url:  strings.TrimSpace(url),
	}
}

// NewWithClient permite inyectar el client (tests).
func NewWithClient(url string, c *httpclient.Client) *Notifier {
	return &Notifier{http: c, url: strings.TrimSpace(url)}
}

func (n *Notifier) Notify(ctx context.Context, msg notify.Notification) error {
	if n == nil || n.url == "" {
		return ErrWebhookNotConfigured
	}
	headers := map[string]string{"X-Notification-Kind": string(msg.Kind)}
	if err := n.http.DoJSON(ctx, http.MethodPost, n.url, headers, msg, nil); err != nil {
		return fmt.Errorf("webhook notify %s: %w", msg.Kind, err)
	}
	return nil
}
