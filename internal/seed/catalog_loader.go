package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"hospital-dashboard/internal/domain/inventory"
	"hospital-dashboard/internal/platform/logger"

	"github.com/shopspring/decimal"
)

// LoadCatalogFile abre csvPath y lo pasa a LoadCatalog.
func LoadCatalogFile(ctx context.Context, cat MedicineCatalog, csvPath string, log logger.Logger) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open catalog %s: %w", csvPath, err)
	}
	defer f.Close()
	return LoadCatalog(ctx, cat, f, log)
}

// LoadCatalog lee un CSV "name,stock,price" (con header) y da de alta cada fila.
// Filas inválidas se loguean y se saltean; nombres ya cargados (sin distinguir
// mayúsculas) se ignoran. Devuelve cuántos medicamentos se agregaron.
func LoadCatalog(ctx context.Context, cat MedicineCatalog, r io.Reader, log logger.Logger) (int, error) {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.With(map[string]any{"component": "seed"})

	existing, err := cat.ListMedicines(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		seen[strings.ToLower(m.Name)] = struct{}{}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, fmt.Errorf("read catalog header: %w", err)
	}

	added := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("skipping unreadable catalog row", map[string]any{"line": line, "err": err})
			continue
		}
		if len(record) < 3 {
			log.Warn("skipping short catalog row", map[string]any{"line": line})
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			continue
		}
		stock, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			log.Warn("skipping catalog row with bad stock", map[string]any{"line": line, "name": name})
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			log.Warn("skipping catalog row with bad price", map[string]any{"line": line, "name": name})
			continue
		}

		if _, err := cat.AddMedicine(ctx, inventory.AddMedicineInput{Name: name, Stock: &stock, Price: &price}); err != nil {
			if errors.Is(err, inventory.ErrInvalidInput) {
				log.Warn("skipping invalid catalog row", map[string]any{"line": line, "name": name, "err": err})
				continue
			}
			return added, err
		}
		seen[strings.ToLower(name)] = struct{}{}
		added++
	}

	log.Info("seeded medicine catalog", map[string]any{"rows": added})
	return added, nil
}
