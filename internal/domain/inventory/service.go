package inventory

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"hospital-dashboard/internal/platform/logger"
	"hospital-dashboard/internal/ports/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	// mu serializa los read-modify-write (stock y carrito) entre requests concurrentes.
	mu sync.Mutex

	repo     Repository
	cart     CartRepository
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

// NewService arma el ledger. notifier y log pueden ser nil.
func NewService(repo Repository, cart CartRepository, notifier notify.Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		cart:     cart,
		notifier: notifier,
		log:      log.With(map[string]any{"module": "inventory"}),
		now:      time.Now,
	}
}

// AddMedicineInput usa punteros para distinguir "no enviado" de cero.
type AddMedicineInput struct {
	Name  string
	Stock *int
	Price *decimal.Decimal
}

func (s *Service) AddMedicine(ctx context.Context, in AddMedicineInput) (Medicine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Medicine{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Stock == nil {
		return Medicine{}, fmt.Errorf("%w: stock is required", ErrInvalidInput)
	}
	if in.Price == nil {
		return Medicine{}, fmt.Errorf("%w: price is required", ErrInvalidInput)
	}
	if err := validateStockAndPrice(*in.Stock, *in.Price); err != nil {
		return Medicine{}, err
	}

	m := Medicine{
		ID:    uuid.NewString(),
		Name:  name,
		Stock: *in.Stock,
		Price: *in.Price,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Medicine{}, err
	}

	s.log.Info("medicine added", map[string]any{"medicine_id": m.ID, "name": m.Name, "status": string(m.Status())})
	return m, nil
}

// UpdateMedicineInput: nil = no tocar.
type UpdateMedicineInput struct {
	Name  *string
	Stock *int
	Price *decimal.Decimal
}

// UpdateMedicine es la edición manual del catálogo.
func (s *Service) UpdateMedicine(ctx context.Context, id string, in UpdateMedicineInput) (Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.GetMedicine(ctx, id)
	if err != nil {
		return Medicine{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Medicine{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		m.Name = name
	}
	if in.Stock != nil {
		m.Stock = *in.Stock
	}
	if in.Price != nil {
		m.Price = *in.Price
	}
	if err := validateStockAndPrice(m.Stock, m.Price); err != nil {
		return Medicine{}, err
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, err
	}
	return m, nil
}

// Refill suma stock y registra el pedido en el carrito (merge por medicamento).
// Si la línea del carrito no se puede guardar, el stock vuelve al valor previo.
func (s *Service) Refill(ctx context.Context, id string, qty int) (Medicine, CartItem, error) {
	if qty <= 0 {
		return Medicine{}, CartItem{}, fmt.Errorf("%w: refill quantity must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.GetMedicine(ctx, id)
	if err != nil {
		return Medicine{}, CartItem{}, err
	}
	item, err := s.mergedCartItem(ctx, m, qty)
	if err != nil {
		return Medicine{}, CartItem{}, err
	}

	before := m
	m.Stock += qty
	if err := s.repo.Update(ctx, m); err != nil {
		return Medicine{}, CartItem{}, err
	}

	if err := s.cart.Save(ctx, item); err != nil {
		if rbErr := s.repo.Update(ctx, before); rbErr != nil {
			s.log.Error("refill rollback failed", map[string]any{"medicine_id": m.ID, "err": rbErr})
		}
		return Medicine{}, CartItem{}, err
	}

	s.log.Info("medicine refilled", map[string]any{
		"medicine_id": m.ID,
		"added":       qty,
		"stock":       m.Stock,
		"status":      string(m.Status()),
		"cart_qty":    item.Quantity,
	})
	return m, item, nil
}

func (s *Service) DeleteMedicine(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: medicine id is required", ErrInvalidInput)
	}
	// El carrito no se toca: sus líneas son snapshots.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("medicine deleted", map[string]any{"medicine_id": id})
	return nil
}

func (s *Service) GetMedicine(ctx context.Context, id string) (Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medicine{}, fmt.Errorf("%w: medicine id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListMedicines(ctx context.Context) ([]Medicine, error) {
	return s.repo.List(ctx)
}

// Search filtra por nombre (substring, case-insensitive).
// La secuencia se puede recorrer varias veces; cada recorrido filtra el mismo snapshot.
func (s *Service) Search(ctx context.Context, term string) (iter.Seq[Medicine], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(term))

	return func(yield func(Medicine) bool) {
		for _, m := range items {
			if q != "" && !strings.Contains(strings.ToLower(m.Name), q) {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}, nil
}

// PriceOf resuelve nombre -> precio (lo usa billing al armar el borrador).
func (s *Service) PriceOf(ctx context.Context, name string) (decimal.Decimal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return decimal.Zero, fmt.Errorf("%w: medicine name is required", ErrInvalidInput)
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, m := range items {
		if strings.EqualFold(m.Name, name) {
			return m.Price, nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: medicine %q", ErrNotFound, name)
}

// -------------------------
// Carrito de pedidos
// -------------------------

func (s *Service) Cart(ctx context.Context) ([]CartItem, error) {
	return s.cart.List(ctx)
}

// AddToCart agrega un pedido manual sin tocar el stock.
func (s *Service) AddToCart(ctx context.Context, medicineID string, qty int) (CartItem, error) {
	if qty <= 0 {
		return CartItem{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.GetMedicine(ctx, medicineID)
	if err != nil {
		return CartItem{}, err
	}
	return s.upsertCart(ctx, m, qty)
}

func (s *Service) RemoveFromCart(ctx context.Context, medicineID string) error {
	medicineID = strings.TrimSpace(medicineID)
	if medicineID == "" {
		return fmt.Errorf("%w: medicine id is required", ErrInvalidInput)
	}
	return s.cart.Delete(ctx, medicineID)
}

// SetCartQuantity reemplaza la cantidad; qty <= 0 equivale a quitar la línea.
// Devuelve false si la línea quedó eliminada.
func (s *Service) SetCartQuantity(ctx context.Context, medicineID string, qty int) (CartItem, bool, error) {
	medicineID = strings.TrimSpace(medicineID)
	if medicineID == "" {
		return CartItem{}, false, fmt.Errorf("%w: medicine id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		if err := s.cart.Delete(ctx, medicineID); err != nil {
			return CartItem{}, false, err
		}
		return CartItem{}, false, nil
	}

	item, err := s.cart.Get(ctx, medicineID)
	if err != nil {
		return CartItem{}, false, err
	}
	item.Quantity = qty
	if err := s.cart.Save(ctx, item); err != nil {
		return CartItem{}, false, err
	}
	return item, true, nil
}

func (s *Service) ClearCart(ctx context.Context) error {
	return s.cart.Clear(ctx)
}

// CartRequest es lo que se envía al proveedor.
type CartRequest struct {
	Items []CartItem
	Total decimal.Decimal
}

// SubmitCart entrega el carrito al notifier (mail/export). No lo vacía.
func (s *Service) SubmitCart(ctx context.Context) (CartRequest, error) {
	items, err := s.cart.List(ctx)
	if err != nil {
		return CartRequest{}, err
	}
	if len(items) == 0 {
		return CartRequest{}, fmt.Errorf("%w: request cart is empty", ErrInvalidInput)
	}

	req := CartRequest{Items: items, Total: decimal.Zero}
	for _, it := range items {
		req.Total = req.Total.Add(it.Subtotal())
	}

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, notify.Notification{
			Kind:       notify.KindCartSubmitted,
			Subject:    fmt.Sprintf("Medicine request (%d items)", len(items)),
			OccurredAt: s.now(),
			Payload:    req,
		})
		if err != nil {
			s.log.Warn("cart submission failed", map[string]any{"err": err})
			return CartRequest{}, err
		}
	}

	s.log.Info("cart submitted", map[string]any{"items": len(items), "total": req.Total.StringFixed(2)})
	return req, nil
}

func (s *Service) upsertCart(ctx context.Context, m Medicine, qty int) (CartItem, error) {
	item, err := s.mergedCartItem(ctx, m, qty)
	if err != nil {
		return CartItem{}, err
	}
	if err := s.cart.Save(ctx, item); err != nil {
		return CartItem{}, err
	}
	return item, nil
}

// mergedCartItem calcula la línea resultante sin escribir nada.
func (s *Service) mergedCartItem(ctx context.Context, m Medicine, qty int) (CartItem, error) {
	item, err := s.cart.Get(ctx, m.ID)
	switch {
	case err == nil:
		item.Quantity += qty
	case errors.Is(err, ErrNotFound):
		item = CartItem{
			MedicineID: m.ID,
			Name:       m.Name,
			UnitPrice:  m.Price,
			Quantity:   qty,
		}
	default:
		return CartItem{}, err
	}
	return item, nil
}

func validateStockAndPrice(stock int, price decimal.Decimal) error {
	if stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidInput)
	}
	return nil
}
