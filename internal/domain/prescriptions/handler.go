package prescriptions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/prescriptions", func(pr chi.Router) {
		pr.Get("/", listPrescriptionsHandler(svc))

		// Lookup por PID (manual o leído de QR por el cliente)
		pr.Get("/pid/{pid}", findByPIDHandler(svc))

		pr.Get("/{prescriptionID}", getPrescriptionHandler(svc))
		pr.Post("/{prescriptionID}/dispense", dispenseHandler(svc))
		pr.Delete("/{prescriptionID}", deletePrescriptionHandler(svc))
	})
}

type prescribedMedicineResponse struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

// prescriptionResponse representa una receta de la lista de trabajo.
type prescriptionResponse struct {
	ID        string                       `json:"id"`
	PID       string                       `json:"pid"`
	Patient   string                       `json:"patient"`
	Doctor    string                       `json:"doctor"`
	Date      string                       `json:"date"` // YYYY-MM-DD
	Status    Status                       `json:"status" enums:"pending,dispensed"`
	Medicines []prescribedMedicineResponse `json:"medicines"`
}

// listPrescriptionsHandler godoc
// @Summary Listar / buscar recetas
// @Description Lista las recetas. Con q filtra por paciente, PID o médico.
// @Tags prescriptions
// @Produce json
// @Param q query string false "Texto a buscar"
// @Success 200 {array} prescriptionResponse
// @Router /prescriptions [get]
func listPrescriptionsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]prescriptionResponse, 0)
		for p := range seq {
			out = append(out, toPrescriptionResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// findByPIDHandler godoc
// @Summary Buscar receta por PID
// @Description Match exacto. Si la receta no estaba en la lista se trae del registry como pending.
// @Tags prescriptions
// @Produce json
// @Param pid path string true "Patient ID"
// @Success 200 {object} prescriptionResponse
// @Failure 404 {string} string "no prescription found for this PID"
// @Router /prescriptions/pid/{pid} [get]
func findByPIDHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.FindByPID(r.Context(), chi.URLParam(r, "pid"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

func getPrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "prescriptionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

// dispenseHandler godoc
// @Summary Dispensar receta
// @Description pending -> dispensed. Sobre una receta ya dispensada no hace nada y devuelve el estado actual.
// @Tags prescriptions
// @Produce json
// @Param prescriptionID path string true "ID de la receta"
// @Success 200 {object} prescriptionResponse
// @Failure 404 {string} string "not found"
// @Router /prescriptions/{prescriptionID}/dispense [post]
func dispenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Dispense(r.Context(), chi.URLParam(r, "prescriptionID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

func deletePrescriptionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "prescriptionID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toPrescriptionResponse(p Prescription) prescriptionResponse {
	meds := make([]prescribedMedicineResponse, 0, len(p.Medicines))
	for _, m := range p.Medicines {
		meds = append(meds, prescribedMedicineResponse{
			Name:      m.Name,
			Dosage:    m.Dosage,
			Frequency: m.Frequency,
			Duration:  m.Duration,
		})
	}
	return prescriptionResponse{
		ID:        p.ID,
		PID:       p.PID,
		Patient:   p.Patient,
		Doctor:    p.Doctor,
		Date:      p.Date.Format("2006-01-02"),
		Status:    p.Status,
		Medicines: meds,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
