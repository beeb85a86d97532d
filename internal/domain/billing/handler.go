package billing

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Borrador: Drafting -> AwaitingPayment (no persiste)
	r.Post("/billing/drafts", buildDraftHandler(svc))

	r.Route("/bills", func(br chi.Router) {
		br.Post("/", finalizeBillHandler(svc))
		br.Get("/", listBillsHandler(svc))
		br.Get("/{billID}", getBillHandler(svc))
	})
}

type draftItemRequest struct {
	Medicine string `json:"medicine"`
	Quantity int    `json:"quantity"`
}

type draftRequest struct {
	Items []draftItemRequest `json:"items"`
}

// finalizeBillRequest trae las líneas otra vez: el borrador no se guarda en el servidor.
type finalizeBillRequest struct {
	PatientName string             `json:"patient_name"`
	PaymentType PaymentType        `json:"payment_type" enums:"cash,online"`
	Items       []draftItemRequest `json:"items"`
}

type lineItemResponse struct {
	Medicine string      `json:"medicine"`
	Quantity int         `json:"quantity"`
	Price    json.Number `json:"price" swaggertype:"number"`
}

type draftResponse struct {
	Stage Stage              `json:"stage"`
	Items []lineItemResponse `json:"items"`
	Total json.Number        `json:"total" swaggertype:"number"`
}

// billResponse representa una factura emitida.
type billResponse struct {
	ID          string             `json:"id"`
	BillNo      string             `json:"bill_no"`
	PatientName string             `json:"patient_name"`
	PaymentType PaymentType        `json:"payment_type"`
	Amount      json.Number        `json:"amount" swaggertype:"number"`
	Date        string             `json:"date"` // YYYY-MM-DD
	Items       []lineItemResponse `json:"items"`
}

// buildDraftHandler godoc
// @Summary Valorizar borrador de factura
// @Description Calcula el total de las líneas con el precio vigente del catálogo. No guarda nada.
// @Tags billing
// @Accept json
// @Produce json
// @Param payload body draftRequest true "Líneas del borrador"
// @Success 200 {object} draftResponse
// @Failure 400 {string} string "invalid input"
// @Router /billing/drafts [post]
func buildDraftHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req draftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.BuildDraft(r.Context(), toDraftInput(req.Items))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, draftResponse{
			Stage: d.Stage,
			Items: toLineItemResponses(d.Items),
			Total: json.Number(d.Total.StringFixed(2)),
		})
	}
}

// finalizeBillHandler godoc
// @Summary Emitir factura
// @Description Valoriza las líneas y emite la factura con el medio de pago elegido. Requiere patient_name y al menos una línea.
// @Tags billing
// @Accept json
// @Produce json
// @Param payload body finalizeBillRequest true "Paciente, medio de pago y líneas"
// @Success 201 {object} billResponse
// @Failure 400 {string} string "invalid input"
// @Router /bills [post]
func finalizeBillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req finalizeBillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Mismo orden que la UI: sin paciente no se pasa a pago.
		if strings.TrimSpace(req.PatientName) == "" {
			http.Error(w, "invalid input: patient name is required", http.StatusBadRequest)
			return
		}

		d, err := svc.BuildDraft(r.Context(), toDraftInput(req.Items))
		if err != nil {
			writeError(w, err)
			return
		}

		b, err := svc.Finalize(r.Context(), req.PatientName, d, req.PaymentType)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBillResponse(b))
	}
}

// listBillsHandler godoc
// @Summary Listar / buscar facturas
// @Tags billing
// @Produce json
// @Param q query string false "Texto a buscar en paciente o número de factura"
// @Success 200 {array} billResponse
// @Router /bills [get]
func listBillsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]billResponse, 0)
		for b := range seq {
			out = append(out, toBillResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getBillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := svc.GetBill(r.Context(), chi.URLParam(r, "billID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBillResponse(b))
	}
}

func toDraftInput(items []draftItemRequest) []DraftItemInput {
	out := make([]DraftItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, DraftItemInput{MedicineName: it.Medicine, Quantity: it.Quantity})
	}
	return out
}

func toLineItemResponses(items []LineItem) []lineItemResponse {
	out := make([]lineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, lineItemResponse{
			Medicine: it.Medicine,
			Quantity: it.Quantity,
			Price:    json.Number(it.Price.StringFixed(2)),
		})
	}
	return out
}

func toBillResponse(b Bill) billResponse {
	return billResponse{
		ID:          b.ID,
		BillNo:      b.BillNo,
		PatientName: b.PatientName,
		PaymentType: b.PaymentType,
		Amount:      json.Number(b.Amount.StringFixed(2)),
		Date:        b.Date.Format("2006-01-02"),
		Items:       toLineItemResponses(b.Items),
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
