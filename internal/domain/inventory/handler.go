package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.Route("/medicines", func(mr chi.Router) {
			mr.Post("/", addMedicineHandler(svc))
			mr.Get("/", listMedicinesHandler(svc))
			mr.Get("/{medicineID}", getMedicineHandler(svc))
			mr.Patch("/{medicineID}", updateMedicineHandler(svc))
			mr.Delete("/{medicineID}", deleteMedicineHandler(svc))
			mr.Post("/{medicineID}/refill", refillHandler(svc))
		})

		// Carrito de pedidos
		ir.Route("/cart", func(cr chi.Router) {
			cr.Get("/", getCartHandler(svc))
			cr.Delete("/", clearCartHandler(svc))
			cr.Post("/items", addToCartHandler(svc))
			cr.Put("/items/{medicineID}", setCartQuantityHandler(svc))
			cr.Delete("/items/{medicineID}", removeFromCartHandler(svc))
			cr.Post("/submit", submitCartHandler(svc))
		})
	})
}

// addMedicineRequest: stock y price son punteros para detectar campos ausentes.
type addMedicineRequest struct {
	Name  string           `json:"name"`
	Stock *int             `json:"stock"`
	Price *decimal.Decimal `json:"price" swaggertype:"number"`
}

type updateMedicineRequest struct {
	Name  *string          `json:"name"`
	Stock *int             `json:"stock"`
	Price *decimal.Decimal `json:"price" swaggertype:"number"`
}

type refillRequest struct {
	Quantity int `json:"quantity"`
}

type cartItemRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// medicineResponse es el registro de catálogo devuelto por la API.
type medicineResponse struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Stock  int         `json:"stock"`
	Price  json.Number `json:"price" swaggertype:"number"`
	Status StockStatus `json:"status" enums:"in-stock,low-stock,out-of-stock"`
}

type cartItemResponse struct {
	MedicineID string      `json:"medicine_id"`
	Name       string      `json:"name"`
	UnitPrice  json.Number `json:"unit_price" swaggertype:"number"`
	Quantity   int         `json:"quantity"`
	Subtotal   json.Number `json:"subtotal" swaggertype:"number"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total json.Number        `json:"total" swaggertype:"number"`
}

type refillResponse struct {
	Medicine medicineResponse `json:"medicine"`
	CartItem cartItemResponse `json:"cart_item"`
}

// addMedicineHandler godoc
// @Summary Alta de medicamento
// @Description Agrega un medicamento al catálogo. name, stock y price son obligatorios; el status se deriva del stock.
// @Tags inventory
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Department header string false "Solo en modo dev, departamento (pharma)"
// @Param payload body addMedicineRequest true "Datos del medicamento"
// @Success 201 {object} medicineResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /inventory/medicines [post]
func addMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addMedicineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid input: stock and price must be numeric", http.StatusBadRequest)
			return
		}

		m, err := svc.AddMedicine(r.Context(), AddMedicineInput{
			Name:  req.Name,
			Stock: req.Stock,
			Price: req.Price,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicineResponse(m))
	}
}

// listMedicinesHandler godoc
// @Summary Listar / buscar medicamentos
// @Description Lista el catálogo. Con q filtra por nombre (substring, sin distinguir mayúsculas).
// @Tags inventory
// @Produce json
// @Param q query string false "Texto a buscar en el nombre"
// @Success 200 {array} medicineResponse
// @Failure 401 {string} string "unauthorized"
// @Router /inventory/medicines [get]
func listMedicinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq, err := svc.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]medicineResponse, 0)
		for m := range seq {
			out = append(out, toMedicineResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetMedicine(r.Context(), chi.URLParam(r, "medicineID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func updateMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateMedicineRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.UpdateMedicine(r.Context(), chi.URLParam(r, "medicineID"), UpdateMedicineInput{
			Name:  req.Name,
			Stock: req.Stock,
			Price: req.Price,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicineResponse(m))
	}
}

func deleteMedicineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteMedicine(r.Context(), chi.URLParam(r, "medicineID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// refillHandler godoc
// @Summary Reponer stock
// @Description Suma quantity al stock y agrega el pedido al carrito (si ya existe la línea, incrementa su cantidad). quantity debe ser > 0.
// @Tags inventory
// @Accept json
// @Produce json
// @Param medicineID path string true "ID del medicamento"
// @Param payload body refillRequest true "Cantidad a reponer"
// @Success 200 {object} refillResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "not found"
// @Router /inventory/medicines/{medicineID}/refill [post]
func refillHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refillRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid input: quantity must be numeric", http.StatusBadRequest)
			return
		}

		m, item, err := svc.Refill(r.Context(), chi.URLParam(r, "medicineID"), req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, refillResponse{
			Medicine: toMedicineResponse(m),
			CartItem: toCartItemResponse(item),
		})
	}
}

func getCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Cart(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartResponse(items))
	}
}

func clearCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCart(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func addToCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cartItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		item, err := svc.AddToCart(r.Context(), req.MedicineID, req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCartItemResponse(item))
	}
}

func setCartQuantityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		item, kept, err := svc.SetCartQuantity(r.Context(), chi.URLParam(r, "medicineID"), req.Quantity)
		if err != nil {
			writeError(w, err)
			return
		}
		if !kept {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, toCartItemResponse(item))
	}
}

func removeFromCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveFromCart(r.Context(), chi.URLParam(r, "medicineID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// submitCartHandler godoc
// @Summary Enviar carrito de pedidos
// @Description Entrega el carrito al canal de notificaciones (mail/export). El carrito no se vacía.
// @Tags inventory
// @Produce json
// @Success 202 {object} cartResponse
// @Failure 400 {string} string "request cart is empty"
// @Failure 502 {string} string "notification failed"
// @Router /inventory/cart/submit [post]
func submitCartHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.SubmitCart(r.Context())
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, err)
				return
			}
			http.Error(w, "notification failed", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusAccepted, toCartResponse(req.Items))
	}
}

func toMedicineResponse(m Medicine) medicineResponse {
	return medicineResponse{
		ID:     m.ID,
		Name:   m.Name,
		Stock:  m.Stock,
		Price:  json.Number(m.Price.StringFixed(2)),
		Status: m.Status(),
	}
}

func toCartItemResponse(c CartItem) cartItemResponse {
	return cartItemResponse{
		MedicineID: c.MedicineID,
		Name:       c.Name,
		UnitPrice:  json.Number(c.UnitPrice.StringFixed(2)),
		Quantity:   c.Quantity,
		Subtotal:   json.Number(c.Subtotal().StringFixed(2)),
	}
}

func toCartResponse(items []CartItem) cartResponse {
	out := cartResponse{Items: make([]cartItemResponse, 0, len(items))}
	total := decimal.Zero
	for _, it := range items {
		out.Items = append(out.Items, toCartItemResponse(it))
		total = total.Add(it.Subtotal())
	}
	out.Total = json.Number(total.StringFixed(2))
	return out
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

// writeJSON está duplicado en billing y prescriptions; si se repite en más módulos, extraer a un helper común.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
