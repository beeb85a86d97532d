package prescriptions

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
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	// mu serializa la importación por PID y el cambio de status.
	mu sync.Mutex

	repo     Repository
	registry Registry
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, registry Registry, notifier notify.Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		registry: registry,
		notifier: notifier,
		log:      log.With(map[string]any{"module": "prescriptions"}),
		now:      time.Now,
	}
}

// FindByPID busca por PID exacto. Si la receta todavía no está en la lista de
// trabajo se trae del registry y se incorpora como pending.
func (s *Service) FindByPID(ctx context.Context, pid string) (Prescription, error) {
	pid = strings.TrimSpace(pid)
	if pid == "" {
		return Prescription{}, fmt.Errorf("%w: pid is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetByPID(ctx, pid)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Prescription{}, err
	}

	if s.registry == nil {
		return Prescription{}, fmt.Errorf("%w: no prescription for pid %s", ErrNotFound, pid)
	}
	found, err := s.registry.LookupPID(ctx, pid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Prescription{}, fmt.Errorf("%w: no prescription for pid %s", ErrNotFound, pid)
		}
		return Prescription{}, err
	}

	imported := Prescription{
		ID:        uuid.NewString(),
		PID:       pid,
		Patient:   strings.TrimSpace(found.Patient),
		Doctor:    strings.TrimSpace(found.Doctor),
		Date:      found.Date,
		Status:    StatusPending,
		Medicines: append([]PrescribedMedicine(nil), found.Medicines...),
	}
	if err := s.repo.Create(ctx, imported); err != nil {
		return Prescription{}, err
	}

	s.log.Info("prescription imported", map[string]any{"prescription_id": imported.ID, "pid": pid})
	return imported, nil
}

// Dispense: pending -> dispensed. Si ya estaba dispensed es no-op (idempotente)
// y devuelve el estado actual.
func (s *Service) Dispense(ctx context.Context, id string) (Prescription, error) {
	p, changed, err := s.markDispensed(ctx, id)
	if err != nil || !changed {
		return p, err
	}

	s.log.Info("prescription dispensed", map[string]any{"prescription_id": p.ID, "pid": p.PID})

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, notify.Notification{
			Kind:       notify.KindPrescriptionDispensed,
			Subject:    fmt.Sprintf("Prescription %s dispensed for %s", p.PID, p.Patient),
			OccurredAt: s.now(),
			Payload:    p,
		})
		if err != nil {
			// La transición ya quedó hecha; la notificación es best-effort.
			s.log.Warn("dispense notification failed", map[string]any{"prescription_id": p.ID, "err": err})
		}
	}

	return p, nil
}

// markDispensed hace la transición bajo el lock; la notificación queda afuera.
func (s *Service) markDispensed(ctx context.Context, id string) (Prescription, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Prescription{}, false, err
	}

	if p.Status == StatusDispensed {
		return p, false, nil
	}
	if p.Status != StatusPending {
		return Prescription{}, false, fmt.Errorf("%w: unexpected status %q", ErrInvalidInput, p.Status)
	}

	p.Status = StatusDispensed
	if err := s.repo.Update(ctx, p); err != nil {
		return Prescription{}, false, err
	}
	return p, true, nil
}

// Delete borra sin importar el status.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: prescription id is required", ErrInvalidInput)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("prescription deleted", map[string]any{"prescription_id": id})
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Prescription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Prescription{}, fmt.Errorf("%w: prescription id is required", ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Prescription, error) {
	return s.repo.List(ctx)
}

// Search matchea paciente, PID o médico.
func (s *Service) Search(ctx context.Context, term string) (iter.Seq[Prescription], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(term))

	return func(yield func(Prescription) bool) {
		for _, p := range items {
			if q != "" && !matches(p, q) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}, nil
}

func matches(p Prescription, q string) bool {
	return strings.Contains(strings.ToLower(p.Patient), q) ||
		strings.Contains(strings.ToLower(p.PID), q) ||
		strings.Contains(strings.ToLower(p.Doctor), q)
}
