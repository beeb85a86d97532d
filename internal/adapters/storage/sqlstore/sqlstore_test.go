package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"hospital-dashboard/internal/domain/billing"
	"hospital-dashboard/internal/domain/inventory"
	"hospital-dashboard/internal/domain/prescriptions"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestMedicinesRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicinesRepo(openTestDB(t))

	para := inventory.Medicine{ID: "m1", Name: "Paracetamol", Stock: 150, Price: decimal.RequireFromString("5.00")}
	amox := inventory.Medicine{ID: "m2", Name: "Amoxicillin", Stock: 25, Price: decimal.RequireFromString("12.50")}
	for _, m := range []inventory.Medicine{para, amox} {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create %s: %v", m.Name, err)
		}
	}

	got, err := repo.GetByID(ctx, "m2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Stock != 25 || !got.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected medicine: %+v", got)
	}
	if got.Status() != inventory.StatusLowStock {
		t.Fatalf("expected low-stock, got %s", got.Status())
	}

	got.Stock = 35
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Paracetamol" || list[1].Stock != 35 {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := repo.Delete(ctx, "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "m1"); !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "m1"); !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.Update(ctx, inventory.Medicine{ID: "nope", Price: decimal.Zero}); !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}

func TestCartRepo_UpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	cart := NewCartRepo(openTestDB(t))

	price := decimal.RequireFromString("12.50")
	_ = cart.Save(ctx, inventory.CartItem{MedicineID: "a", Name: "Amoxicillin", UnitPrice: price, Quantity: 5})
	_ = cart.Save(ctx, inventory.CartItem{MedicineID: "b", Name: "Aspirin", UnitPrice: price, Quantity: 1})
	if err := cart.Save(ctx, inventory.CartItem{MedicineID: "a", Name: "Amoxicillin", UnitPrice: price, Quantity: 12}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	items, err := cart.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].MedicineID != "a" || items[0].Quantity != 12 {
		t.Fatalf("expected a=12 first, got %+v", items[0])
	}

	if err := cart.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, err := cart.Get(ctx, "missing"); !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := cart.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, _ = cart.List(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d", len(items))
	}
}

func TestBillsRepo_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	repo := NewBillsRepo(openTestDB(t))

	items := []billing.LineItem{
		{Medicine: "Paracetamol", Quantity: 2, Price: decimal.RequireFromString("5.00")},
		{Medicine: "Amoxicillin", Quantity: 3, Price: decimal.RequireFromString("12.50")},
	}
	b1 := billing.Bill{
		ID:          "b1",
		BillNo:      "B001",
		PatientName: "John Doe",
		PaymentType: billing.PaymentCash,
		Amount:      billing.TotalOf(items),
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Items:       items,
	}
	b2 := billing.Bill{
		ID:          "b2",
		BillNo:      "B002",
		PatientName: "Jane Smith",
		PaymentType: billing.PaymentOnline,
		Amount:      decimal.RequireFromString("24.00"),
		Date:        time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		Items:       []billing.LineItem{{Medicine: "Ibuprofen", Quantity: 3, Price: decimal.RequireFromString("8.00")}},
	}
	for _, b := range []billing.Bill{b1, b2} {
		if err := repo.Create(ctx, b); err != nil {
			t.Fatalf("create %s: %v", b.BillNo, err)
		}
	}

	got, err := repo.GetByID(ctx, "b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(decimal.RequireFromString("47.50")) {
		t.Fatalf("expected 47.50, got %s", got.Amount)
	}
	if len(got.Items) != 2 || got.Items[0].Medicine != "Paracetamol" || got.Items[1].Quantity != 3 {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if !got.Date.Equal(b1.Date) {
		t.Fatalf("expected date %s, got %s", b1.Date, got.Date)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected count 2, got %d err=%v", n, err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].BillNo != "B001" || list[1].BillNo != "B002" {
		t.Fatalf("unexpected order: %+v", list)
	}
	if len(list[1].Items) != 1 || list[1].PaymentType != billing.PaymentOnline {
		t.Fatalf("unexpected second bill: %+v", list[1])
	}

	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, billing.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBillsRepo_RejectsDuplicateBillNo(t *testing.T) {
	ctx := context.Background()
	repo := NewBillsRepo(openTestDB(t))

	items := []billing.LineItem{{Medicine: "Paracetamol", Quantity: 1, Price: decimal.RequireFromString("5.00")}}
	first := billing.Bill{ID: "b1", BillNo: "B001", PatientName: "John Doe", PaymentType: billing.PaymentCash,
		Amount: billing.TotalOf(items), Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Items: items}
	second := first
	second.ID = "b2"

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := repo.Create(ctx, second); err == nil {
		t.Fatalf("expected duplicate bill number to be rejected")
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("expected a single stored bill, got %d", n)
	}
}

func TestPrescriptionsRepo_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewPrescriptionsRepo(openTestDB(t))

	p := prescriptions.Prescription{
		ID:      "rx1",
		PID:     "P001",
		Patient: "John Doe",
		Doctor:  "Dr. Smith",
		Date:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:  prescriptions.StatusPending,
		Medicines: []prescriptions.PrescribedMedicine{
			{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3 times daily", Duration: "7 days"},
			{Name: "Paracetamol", Dosage: "650mg", Frequency: "As needed", Duration: "5 days"},
		},
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByPID(ctx, "P001")
	if err != nil {
		t.Fatalf("get by pid: %v", err)
	}
	if got.ID != "rx1" || len(got.Medicines) != 2 || got.Medicines[1].Name != "Paracetamol" {
		t.Fatalf("unexpected prescription: %+v", got)
	}

	got.Status = prescriptions.StatusDispensed
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := repo.GetByID(ctx, "rx1")
	if again.Status != prescriptions.StatusDispensed || len(again.Medicines) != 2 {
		t.Fatalf("unexpected after update: %+v", again)
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 prescription, got %d err=%v", len(list), err)
	}

	if err := repo.Delete(ctx, "rx1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByPID(ctx, "P001"); !errors.Is(err, prescriptions.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "rx1"); !errors.Is(err, prescriptions.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.Update(ctx, got); !errors.Is(err, prescriptions.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
}
