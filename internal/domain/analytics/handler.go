package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/analytics/summary", summaryHandler(svc))
}

type medicineSalesResponse struct {
	Name     string      `json:"name"`
	Quantity int         `json:"quantity"`
	Revenue  json.Number `json:"revenue" swaggertype:"number"`
}

type summaryResponse struct {
	TotalRevenue    json.Number             `json:"total_revenue" swaggertype:"number"`
	TotalSales      int                     `json:"total_sales"`
	UnitsInStock    int                     `json:"units_in_stock"`
	PatientsServed  int                     `json:"patients_served"`
	LowStockCount   int                     `json:"low_stock_count"`
	OutOfStockCount int                     `json:"out_of_stock_count"`
	TopMedicines    []medicineSalesResponse `json:"top_medicines"`
}

// summaryHandler godoc
// @Summary Resumen del tablero de farmacia
// @Description Ingresos, ventas, stock, pacientes atendidos y medicamentos más vendidos.
// @Tags analytics
// @Produce json
// @Success 200 {object} summaryResponse
// @Router /analytics/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Summary(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := summaryResponse{
			TotalRevenue:    json.Number(s.TotalRevenue.StringFixed(2)),
			TotalSales:      s.TotalSales,
			UnitsInStock:    s.UnitsInStock,
			PatientsServed:  s.PatientsServed,
			LowStockCount:   s.LowStockCount,
			OutOfStockCount: s.OutOfStockCount,
			TopMedicines:    make([]medicineSalesResponse, 0, len(s.TopMedicines)),
		}
		for _, m := range s.TopMedicines {
			resp.TopMedicines = append(resp.TopMedicines, medicineSalesResponse{
				Name:     m.Name,
				Quantity: m.Quantity,
				Revenue:  json.Number(m.Revenue.StringFixed(2)),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
