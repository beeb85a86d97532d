package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"hospital-dashboard/internal/adapters/notify/logsink"
	"hospital-dashboard/internal/adapters/registry/static"
	mem "hospital-dashboard/internal/adapters/storage/memory"
	"hospital-dashboard/internal/adapters/storage/sqlstore"
	_ "hospital-dashboard/internal/docs"
	"hospital-dashboard/internal/domain/analytics"
	"hospital-dashboard/internal/domain/billing"
	"hospital-dashboard/internal/domain/inventory"
	"hospital-dashboard/internal/domain/prescriptions"
	"hospital-dashboard/internal/middleware"
	"hospital-dashboard/internal/platform/logger"
	"hospital-dashboard/internal/ports/auth"
	"hospital-dashboard/internal/ports/notify"
	"hospital-dashboard/internal/seed"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa sqlstore (pgx o sqlite). Si no, in-memory.
	DB *sqlx.DB

	Logger logger.Logger // nil => nop

	// Registry de recetas. nil => padrón estático de demo.
	Registry prescriptions.Registry
	// Notifier para carrito y dispensas. nil => log.
	Notifier notify.Notifier

	SeedDemo       bool
	SeedCatalogCSV string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = static.NewDefault()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = logsink.New(log)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		medicineRepo inventory.Repository
		cartRepo     inventory.CartRepository
		billRepo     billing.Repository
		rxRepo       prescriptions.Repository
	)

	if opts.DB != nil {
		medicineRepo = sqlstore.NewMedicinesRepo(opts.DB)
		cartRepo = sqlstore.NewCartRepo(opts.DB)
		billRepo = sqlstore.NewBillsRepo(opts.DB)
		rxRepo = sqlstore.NewPrescriptionsRepo(opts.DB)
	} else {
		medicineRepo = mem.NewMedicineRepo()
		cartRepo = mem.NewCartRepo()
		billRepo = mem.NewBillRepo()
		rxRepo = mem.NewPrescriptionRepo()
	}

	// Services por módulo
	inventorySvc := inventory.NewService(medicineRepo, cartRepo, notifier, log)
	billingSvc := billing.NewService(billRepo, priceCatalog{inv: inventorySvc}, log)
	rxSvc := prescriptions.NewService(rxRepo, registry, notifier, log)
	analyticsSvc := analytics.NewService(billingSvc, inventorySvc)

	seedData(context.Background(), opts, seed.Deps{
		Medicines:     inventorySvc,
		Bills:         billRepo,
		Prescriptions: rxSvc,
	}, log)

	// Rutas de farmacia: sólo usuarios del departamento pharma
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireDepartment(auth.DepartmentPharma))

		inventory.RegisterRoutes(pr, inventorySvc)
		billing.RegisterRoutes(pr, billingSvc)
		prescriptions.RegisterRoutes(pr, rxSvc)
		analytics.RegisterRoutes(pr, analyticsSvc)
	})

	return r
}

// Un seed fallido no impide arrancar; queda en el log.
func seedData(ctx context.Context, opts Options, deps seed.Deps, log logger.Logger) {
	if opts.SeedDemo {
		if err := seed.Demo(ctx, deps, log); err != nil {
			log.Error("demo seed failed", map[string]any{"err": err})
		}
	}
	if opts.SeedCatalogCSV != "" {
		if _, err := seed.LoadCatalogFile(ctx, deps.Medicines, opts.SeedCatalogCSV, log); err != nil {
			log.Error("catalog seed failed", map[string]any{"err": err, "path": opts.SeedCatalogCSV})
		}
	}
}

// priceCatalog adapta el inventario al PriceCatalog de billing
// traduciendo el ErrNotFound de un paquete al otro.
type priceCatalog struct {
	inv *inventory.Service
}

func (c priceCatalog) PriceOf(ctx context.Context, name string) (decimal.Decimal, error) {
	price, err := c.inv.PriceOf(ctx, name)
	if errors.Is(err, inventory.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("%w: %v", billing.ErrNotFound, err)
	}
	return price, err
}
