package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hospital-dashboard/internal/ports/notify"

	"github.com/shopspring/decimal"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testRepo struct {
	order []string
	byID  map[string]Medicine
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medicine{}}
}

func (r *testRepo) Create(ctx context.Context, m Medicine) error {
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.order = append(r.order, m.ID)
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medicine) error {
	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medicine, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medicine{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) List(ctx context.Context) ([]Medicine, error) {
	out := make([]Medicine, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

type testCart struct {
	order   []string
	items   map[string]CartItem
	saveErr error
}

func newTestCart() *testCart {
	return &testCart{items: map[string]CartItem{}}
}

func (c *testCart) Get(ctx context.Context, id string) (CartItem, error) {
	it, ok := c.items[id]
	if !ok {
		return CartItem{}, ErrNotFound
	}
	return it, nil
}

func (c *testCart) Save(ctx context.Context, it CartItem) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	if _, ok := c.items[it.MedicineID]; !ok {
		c.order = append(c.order, it.MedicineID)
	}
	c.items[it.MedicineID] = it
	return nil
}

func (c *testCart) Delete(ctx context.Context, id string) error {
	if _, ok := c.items[id]; !ok {
		return nil
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (c *testCart) List(ctx context.Context) ([]CartItem, error) {
	out := make([]CartItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out, nil
}

func (c *testCart) Clear(ctx context.Context) error {
	c.order = nil
	c.items = map[string]CartItem{}
	return nil
}

type recordingNotifier struct {
	got []notify.Notification
	err error
}

func (n *recordingNotifier) Notify(ctx context.Context, in notify.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.got = append(n.got, in)
	return nil
}

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newTestService() (*Service, *testRepo, *testCart) {
	repo := newTestRepo()
	cart := newTestCart()
	return NewService(repo, cart, nil, nil), repo, cart
}

func mustAdd(t *testing.T, svc *Service, name string, stock int, price string) Medicine {
	t.Helper()
	m, err := svc.AddMedicine(context.Background(), AddMedicineInput{Name: name, Stock: intPtr(stock), Price: decPtr(price)})
	if err != nil {
		t.Fatalf("AddMedicine(%s) error: %v", name, err)
	}
	return m
}

// -------------------------
// Tests
// -------------------------

func TestStatusFor_Thresholds(t *testing.T) {
	cases := []struct {
		stock int
		want  StockStatus
	}{
		{0, StatusOutOfStock},
		{1, StatusLowStock},
		{25, StatusLowStock},
		{50, StatusLowStock},
		{51, StatusInStock},
		{150, StatusInStock},
	}
	for _, c := range cases {
		if got := StatusFor(c.stock); got != c.want {
			t.Fatalf("StatusFor(%d) = %s, want %s", c.stock, got, c.want)
		}
	}
}

func TestService_AddMedicine_DerivesStatus(t *testing.T) {
	svc, _, _ := newTestService()

	m := mustAdd(t, svc, " Amoxicillin ", 25, "12.50")
	if m.ID == "" {
		t.Fatalf("expected generated id")
	}
	if m.Name != "Amoxicillin" {
		t.Fatalf("expected trimmed name, got %q", m.Name)
	}
	if m.Status() != StatusLowStock {
		t.Fatalf("expected low-stock, got %s", m.Status())
	}
}

func TestService_AddMedicine_ValidationLeavesCatalogUntouched(t *testing.T) {
	svc, repo, _ := newTestService()

	inputs := []AddMedicineInput{
		{Name: "", Stock: intPtr(1), Price: decPtr("1")},
		{Name: "X", Stock: nil, Price: decPtr("1")},
		{Name: "X", Stock: intPtr(1), Price: nil},
		{Name: "X", Stock: intPtr(-1), Price: decPtr("1")},
		{Name: "X", Stock: intPtr(1), Price: decPtr("-0.01")},
	}
	for i, in := range inputs {
		_, err := svc.AddMedicine(context.Background(), in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no medicine appended, got %d", len(repo.byID))
	}
}

func TestService_Refill_IncreasesStockAndKeepsStatus(t *testing.T) {
	svc, _, _ := newTestService()
	para := mustAdd(t, svc, "Paracetamol", 150, "5.00")

	if _, _, err := svc.Refill(context.Background(), para.ID, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected refill +0 to be rejected, got %v", err)
	}
	got, _ := svc.GetMedicine(context.Background(), para.ID)
	if got.Stock != 150 {
		t.Fatalf("expected stock unchanged after rejected refill, got %d", got.Stock)
	}

	updated, item, err := svc.Refill(context.Background(), para.ID, 10)
	if err != nil {
		t.Fatalf("Refill error: %v", err)
	}
	if updated.Stock != 160 || updated.Status() != StatusInStock {
		t.Fatalf("expected stock 160 in-stock, got %d %s", updated.Stock, updated.Status())
	}
	if item.Quantity != 10 {
		t.Fatalf("expected cart quantity 10, got %d", item.Quantity)
	}
}

func TestService_Refill_MovesOutOfStockToLow(t *testing.T) {
	svc, _, _ := newTestService()
	ibu := mustAdd(t, svc, "Ibuprofen", 0, "8.00")

	updated, _, err := svc.Refill(context.Background(), ibu.ID, 20)
	if err != nil {
		t.Fatalf("Refill error: %v", err)
	}
	if updated.Status() != StatusLowStock {
		t.Fatalf("expected low-stock after refill, got %s", updated.Status())
	}
}

func TestService_Refill_MergesCartEntries(t *testing.T) {
	svc, _, cart := newTestService()
	para := mustAdd(t, svc, "Paracetamol", 150, "5.00")

	if _, _, err := svc.Refill(context.Background(), para.ID, 7); err != nil {
		t.Fatalf("Refill #1 error: %v", err)
	}
	if _, _, err := svc.Refill(context.Background(), para.ID, 5); err != nil {
		t.Fatalf("Refill #2 error: %v", err)
	}

	items, _ := svc.Cart(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected a single cart entry, got %d", len(items))
	}
	if items[0].Quantity != 12 {
		t.Fatalf("expected merged quantity 12, got %d", items[0].Quantity)
	}
	if len(cart.order) != 1 {
		t.Fatalf("expected cart index with one entry, got %d", len(cart.order))
	}
}

func TestService_Refill_UnknownMedicine(t *testing.T) {
	svc, _, _ := newTestService()

	if _, _, err := svc.Refill(context.Background(), "missing", 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DeleteMedicine_KeepsCartSnapshot(t *testing.T) {
	svc, _, _ := newTestService()
	amox := mustAdd(t, svc, "Amoxicillin", 25, "12.50")
	if _, _, err := svc.Refill(context.Background(), amox.ID, 5); err != nil {
		t.Fatalf("Refill error: %v", err)
	}

	if err := svc.DeleteMedicine(context.Background(), amox.ID); err != nil {
		t.Fatalf("DeleteMedicine error: %v", err)
	}
	if _, err := svc.GetMedicine(context.Background(), amox.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected medicine gone, got %v", err)
	}

	items, _ := svc.Cart(context.Background())
	if len(items) != 1 || items[0].Name != "Amoxicillin" || !items[0].UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected cart snapshot to survive deletion, got %#v", items)
	}
}

func TestService_Search_CaseInsensitiveAndRestartable(t *testing.T) {
	svc, _, _ := newTestService()
	mustAdd(t, svc, "Paracetamol", 150, "5.00")
	mustAdd(t, svc, "Amoxicillin", 25, "12.50")
	mustAdd(t, svc, "Aspirin", 200, "3.50")

	seq, err := svc.Search(context.Background(), "IN")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	collect := func() []string {
		var names []string
		for m := range seq {
			names = append(names, m.Name)
		}
		return names
	}

	first := collect()
	second := collect()
	if len(first) != 2 || first[0] != "Amoxicillin" || first[1] != "Aspirin" {
		t.Fatalf("unexpected matches %v", first)
	}
	if len(second) != len(first) {
		t.Fatalf("expected restartable sequence, got %v then %v", first, second)
	}

	// corte temprano
	for range seq {
		break
	}
}

func TestService_SetCartQuantity_ZeroRemoves(t *testing.T) {
	svc, _, _ := newTestService()
	para := mustAdd(t, svc, "Paracetamol", 150, "5.00")
	if _, err := svc.AddToCart(context.Background(), para.ID, 4); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}

	item, kept, err := svc.SetCartQuantity(context.Background(), para.ID, 9)
	if err != nil || !kept || item.Quantity != 9 {
		t.Fatalf("expected quantity 9, got %#v kept=%v err=%v", item, kept, err)
	}

	_, kept, err = svc.SetCartQuantity(context.Background(), para.ID, 0)
	if err != nil || kept {
		t.Fatalf("expected removal, kept=%v err=%v", kept, err)
	}
	items, _ := svc.Cart(context.Background())
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %#v", items)
	}
}

func TestService_AddToCart_DoesNotChangeStock(t *testing.T) {
	svc, _, _ := newTestService()
	para := mustAdd(t, svc, "Paracetamol", 150, "5.00")

	if _, err := svc.AddToCart(context.Background(), para.ID, 3); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}
	got, _ := svc.GetMedicine(context.Background(), para.ID)
	if got.Stock != 150 {
		t.Fatalf("expected stock unchanged, got %d", got.Stock)
	}
}

func TestService_UpdateMedicine_RecomputesStatus(t *testing.T) {
	svc, _, _ := newTestService()
	para := mustAdd(t, svc, "Paracetamol", 150, "5.00")

	updated, err := svc.UpdateMedicine(context.Background(), para.ID, UpdateMedicineInput{Stock: intPtr(0)})
	if err != nil {
		t.Fatalf("UpdateMedicine error: %v", err)
	}
	if updated.Status() != StatusOutOfStock {
		t.Fatalf("expected out-of-stock, got %s", updated.Status())
	}

	if _, err := svc.UpdateMedicine(context.Background(), para.ID, UpdateMedicineInput{Price: decPtr("-1")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	got, _ := svc.GetMedicine(context.Background(), para.ID)
	if !got.Price.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("expected price untouched after rejected update, got %s", got.Price)
	}
}

func TestService_PriceOf(t *testing.T) {
	svc, _, _ := newTestService()
	mustAdd(t, svc, "Paracetamol", 150, "5.00")

	p, err := svc.PriceOf(context.Background(), "paracetamol")
	if err != nil || !p.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected 5.00, got %s err=%v", p, err)
	}
	if _, err := svc.PriceOf(context.Background(), "Unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_SubmitCart_NotifiesWithoutClearing(t *testing.T) {
	repo := newTestRepo()
	cart := newTestCart()
	n := &recordingNotifier{}
	svc := NewService(repo, cart, n, nil)
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.SubmitCart(context.Background()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected empty cart rejection, got %v", err)
	}

	para := mustAdd(t, svc, "Paracetamol", 150, "5.00")
	if _, _, err := svc.Refill(context.Background(), para.ID, 4); err != nil {
		t.Fatalf("Refill error: %v", err)
	}

	req, err := svc.SubmitCart(context.Background())
	if err != nil {
		t.Fatalf("SubmitCart error: %v", err)
	}
	if !req.Total.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("expected total 20, got %s", req.Total)
	}
	if len(n.got) != 1 || n.got[0].Kind != notify.KindCartSubmitted || !n.got[0].OccurredAt.Equal(now) {
		t.Fatalf("unexpected notifications %#v", n.got)
	}

	items, _ := svc.Cart(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected cart kept after submission, got %d items", len(items))
	}
}

func TestService_Refill_ConcurrentKeepsStockAndCartInSync(t *testing.T) {
	svc, _, _ := newTestService()
	para := mustAdd(t, svc, "Paracetamol", 10, "5.00")

	const workers = 200
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.Refill(context.Background(), para.ID, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Refill error: %v", err)
	}

	got, err := svc.GetMedicine(context.Background(), para.ID)
	if err != nil {
		t.Fatalf("GetMedicine error: %v", err)
	}
	if got.Stock != 10+workers {
		t.Fatalf("expected stock %d, got %d", 10+workers, got.Stock)
	}
	items, _ := svc.Cart(context.Background())
	if len(items) != 1 || items[0].Quantity != workers {
		t.Fatalf("expected one cart line with qty %d, got %#v", workers, items)
	}
}

func TestService_Refill_CartFailureLeavesStockUntouched(t *testing.T) {
	svc, _, cart := newTestService()
	para := mustAdd(t, svc, "Paracetamol", 30, "5.00")

	boom := errors.New("cart unavailable")
	cart.saveErr = boom
	if _, _, err := svc.Refill(context.Background(), para.ID, 5); !errors.Is(err, boom) {
		t.Fatalf("expected cart error, got %v", err)
	}

	got, _ := svc.GetMedicine(context.Background(), para.ID)
	if got.Stock != 30 || got.Status() != StatusLowStock {
		t.Fatalf("expected stock 30 (low) after failed refill, got %d (%s)", got.Stock, got.Status())
	}
	if items, _ := svc.Cart(context.Background()); len(items) != 0 {
		t.Fatalf("expected empty cart, got %#v", items)
	}
}
