package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hospital-dashboard/internal/platform/httpclient"
	"hospital-dashboard/internal/ports/notify"
)

func TestNotifier_PostsJSON(t *testing.T) {
	var got map[string]any
	var kind string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		kind = r.Header.Get("X-Notification-Kind")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := New(srv.URL+"/hooks/pharmacy", time.Second)
	err := n.Notify(context.Background(), notify.Notification{
		Kind:       notify.KindCartSubmitted,
		Subject:    "Medicine request (1 items)",
		OccurredAt: time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		Payload:    map[string]int{"items": 1},
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if kind != string(notify.KindCartSubmitted) {
		t.Fatalf("expected kind header, got %q", kind)
	}
	if got["kind"] != string(notify.KindCartSubmitted) || got["subject"] != "Medicine request (1 items)" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestNotifier_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	n := NewWithClient(srv.URL, httpclient.New(time.Second))
	err := n.Notify(context.Background(), notify.Notification{Kind: notify.KindPrescriptionDispensed})
	if err == nil {
		t.Fatalf("expected error")
	}
	if status, ok := httpclient.StatusCode(err); !ok || status != http.StatusServiceUnavailable {
		t.Fatalf("expected wrapped 503, got %v", err)
	}
}

func TestNotifier_NotConfigured(t *testing.T) {
	n := New("  ", time.Second)
	if err := n.Notify(context.Background(), notify.Notification{}); !errors.Is(err, ErrWebhookNotConfigured) {
		t.Fatalf("expected ErrWebhookNotConfigured, got %v", err)
	}
}
