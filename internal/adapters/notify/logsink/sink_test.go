package logsink

import (
	"context"
	"testing"
	"time"

	"hospital-dashboard/internal/platform/logger"
	"hospital-dashboard/internal/ports/notify"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSink_LogsNotification(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := New(logger.FromZap(zap.New(core)))

	err := sink.Notify(context.Background(), notify.Notification{
		Kind:       notify.KindPrescriptionDispensed,
		Subject:    "P001",
		OccurredAt: time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	entries := logs.FilterMessage("notification").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["kind"] != string(notify.KindPrescriptionDispensed) || ctx["subject"] != "P001" {
		t.Fatalf("unexpected fields: %+v", ctx)
	}
	if ctx["component"] != "notify" {
		t.Fatalf("expected component field, got %+v", ctx)
	}
}
