package billing

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"hospital-dashboard/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	// mu cubre Count + Create para que BillNo no se repita.
	mu sync.Mutex

	repo    Repository
	catalog PriceCatalog
	log     logger.Logger
	now     func() time.Time
}

func NewService(repo Repository, catalog PriceCatalog, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:    repo,
		catalog: catalog,
		log:     log.With(map[string]any{"module": "billing"}),
		now:     time.Now,
	}
}

type DraftItemInput struct {
	MedicineName string
	Quantity     int
}

// BuildDraft valoriza las líneas con el precio actual del catálogo.
// No persiste nada: el borrador queda esperando el medio de pago.
func (s *Service) BuildDraft(ctx context.Context, in []DraftItemInput) (Draft, error) {
	if len(in) == 0 {
		return Draft{}, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	if s.catalog == nil {
		return Draft{}, errors.New("billing: price catalog not configured")
	}

	items := make([]LineItem, 0, len(in))
	for i, it := range in {
		name := strings.TrimSpace(it.MedicineName)
		if name == "" {
			return Draft{}, fmt.Errorf("%w: item %d: medicine is required", ErrInvalidInput, i+1)
		}
		if it.Quantity < 1 {
			return Draft{}, fmt.Errorf("%w: item %d: quantity must be >= 1", ErrInvalidInput, i+1)
		}

		price, err := s.catalog.PriceOf(ctx, name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Draft{}, fmt.Errorf("%w: item %d: unknown medicine %q", ErrInvalidInput, i+1, name)
			}
			return Draft{}, err
		}

		items = append(items, LineItem{Medicine: name, Quantity: it.Quantity, Price: price})
	}

	return Draft{
		Items: items,
		Total: TotalOf(items),
		Stage: StageAwaitingPayment,
	}, nil
}

// Finalize cierra el borrador con el medio de pago y guarda la factura.
// El número sale de count+1 (no es un contador durable).
func (s *Service) Finalize(ctx context.Context, patientName string, draft Draft, paymentType PaymentType) (Bill, error) {
	patientName = strings.TrimSpace(patientName)
	if patientName == "" {
		return Bill{}, fmt.Errorf("%w: patient name is required", ErrInvalidInput)
	}
	if len(draft.Items) == 0 {
		return Bill{}, fmt.Errorf("%w: bill has no items", ErrInvalidInput)
	}
	if !paymentType.Valid() {
		return Bill{}, fmt.Errorf("%w: payment type must be cash or online", ErrInvalidInput)
	}

	items := make([]LineItem, len(draft.Items))
	copy(items, draft.Items)
	for i, it := range items {
		if it.Quantity < 1 || it.Price.IsNegative() || strings.TrimSpace(it.Medicine) == "" {
			return Bill{}, fmt.Errorf("%w: item %d is not valid", ErrInvalidInput, i+1)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return Bill{}, err
	}

	b := Bill{
		ID:          uuid.NewString(),
		BillNo:      BillNumber(count + 1),
		PatientName: patientName,
		PaymentType: paymentType,
		Amount:      TotalOf(items),
		Date:        DateOf(s.now()),
		Items:       items,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Bill{}, err
	}

	s.log.Info("bill finalized", map[string]any{
		"bill_id":      b.ID,
		"bill_no":      b.BillNo,
		"payment_type": string(b.PaymentType),
		"amount":       b.Amount.StringFixed(2),
		"items":        len(b.Items),
	})
	return b, nil
}

func (s *Service) GetBill(ctx context.Context, id string) (Bill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Bill{}, fmt.Errorf("%w: bill id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListBills(ctx context.Context) ([]Bill, error) {
	return s.repo.List(ctx)
}

// Search matchea por nombre de paciente o número de factura.
func (s *Service) Search(ctx context.Context, term string) (iter.Seq[Bill], error) {
	bills, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(term))

	return func(yield func(Bill) bool) {
		for _, b := range bills {
			if q != "" &&
				!strings.Contains(strings.ToLower(b.PatientName), q) &&
				!strings.Contains(strings.ToLower(b.BillNo), q) {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}, nil
}
