package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"family-hub-go/internal/domain/maintenance"
	"family-hub-go/internal/transport/httpserver/middleware"
)

// ===== equipment =====

type equipmentResponse struct {
	ID              string   `json:"id"`
	FamilyID        string   `json:"family_id"`
	OwnerID         *string  `json:"owner_id"`
	Name            string   `json:"name"`
	Type            *string  `json:"type"`
	Brand           *string  `json:"brand"`
	Model           *string  `json:"model"`
	SerialNumber    *string  `json:"serial_number"`
	PurchaseDate    *string  `json:"purchase_date"`
	WarrantyExpiry  *string  `json:"warranty_expiry"`
	ServiceProvider string   `json:"service_provider"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes"`
	Documents       *string  `json:"documents"`
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}

func toEquipmentResponse(e *maintenance.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:              e.ID,
		FamilyID:        e.FamilyID,
		OwnerID:         e.OwnerID,
		Name:            e.Name,
		Type:            e.Type,
		Brand:           e.Brand,
		Model:           e.Model,
		SerialNumber:    e.SerialNumber,
		PurchaseDate:    formatDate(e.PurchaseDate),
		WarrantyExpiry:  formatDate(e.WarrantyExpiry),
		ServiceProvider: e.ServiceProvider,
		Status:          e.Status,
		Notes:           e.Notes,
		Documents:       e.Documents,
	}
}

func (h *Handlers) ListEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.maintenance.ListEquipment(r.Context(), scopeFrom(r), r.URL.Query().Get("type"))
	if err != nil {
		h.respondError(w, err, "list equipment failed")
		return
	}
	responses := make([]equipmentResponse, 0, len(equipment))
	for i := range equipment {
		responses = append(responses, toEquipmentResponse(&equipment[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *Handlers) GetEquipment(w http.ResponseWriter, r *http.Request) {
	equipment, err := h.maintenance.GetEquipment(r.Context(), scopeFrom(r), chi.URLParam(r, "equipment_id"))
	if err != nil {
		h.respondError(w, err, "get equipment failed")
		return
	}
	writeJSON(w, http.StatusOK, toEquipmentResponse(equipment))
}

type equipmentRequest struct {
	Name            string  `json:"name"`
	Type            *string `json:"type"`
	Brand           *string `json:"brand"`
	Model           *string `json:"model"`
	SerialNumber    *string `json:"serial_number"`
	PurchaseDate    *string `json:"purchase_date"`
	WarrantyExpiry  *string `json:"warranty_expiry"`
	ServiceProvider string  `json:"service_provider"`
	Status          string  `json:"status"`
	OwnerID         *string `json:"owner_id"`
	Notes           string  `json:"notes"`
	Documents       *string `json:"documents"`
}

func (h *Handlers) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	familyID, ok := requireFamilyID(w, r)
	if !ok {
		return
	}

	var req equipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	purchaseDate, err := parseDateParam(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid purchase_date")
		return
	}
	warrantyExpiry, err := parseDateParam(req.WarrantyExpiry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid warranty_expiry")
		return
	}

	creator := middleware.UserFrom(r.Context())
	equipment, err := h.maintenance.CreateEquipment(r.Context(), familyID, creator.ID, maintenance.EquipmentInput{
		Name:            req.Name,
		Type:            req.Type,
		Brand:           req.Brand,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		PurchaseDate:    purchaseDate,
		WarrantyExpiry:  warrantyExpiry,
		ServiceProvider: req.ServiceProvider,
		Status:          req.Status,
		OwnerID:         req.OwnerID,
		Notes:           req.Notes,
		Documents:       req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "create equipment failed")
		return
	}
	writeJSON(w, http.StatusCreated, toEquipmentResponse(equipment))
}

type equipmentUpdateRequest struct {
	Name            *string `json:"name"`
	Type            *string `json:"type"`
	Brand           *string `json:"brand"`
	Model           *string `json:"model"`
	SerialNumber    *string `json:"serial_number"`
	PurchaseDate    *string `json:"purchase_date"`
	WarrantyExpiry  *string `json:"warranty_expiry"`
	ServiceProvider *string `json:"service_provider"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
	Documents       *string `json:"documents"`
}

func (h *Handlers) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	var req equipmentUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	purchaseDate, err := parseDateParam(req.PurchaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid purchase_date")
		return
	}
	warrantyExpiry, err := parseDateParam(req.WarrantyExpiry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid warranty_expiry")
		return
	}

	equipment, err := h.maintenance.UpdateEquipment(r.Context(), scopeFrom(r), chi.URLParam(r, "equipment_id"), maintenance.EquipmentUpdate{
		Name:            req.Name,
		Type:            req.Type,
		Brand:           req.Brand,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		PurchaseDate:    purchaseDate,
		WarrantyExpiry:  warrantyExpiry,
		ServiceProvider: req.ServiceProvider,
		Status:          req.Status,
		Notes:           req.Notes,
		Documents:       req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "update equipment failed")
		return
	}
	writeJSON(w, http.StatusOK, toEquipmentResponse(equipment))
}

func (h *Handlers) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenance.DeleteEquipment(r.Context(), scopeFrom(r), chi.URLParam(r, "equipment_id")); err != nil {
		h.respondError(w, err, "delete equipment failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== maintenance orders =====

type orderResponse struct {
	ID                 string   `json:"id"`
	EquipmentID        string   `json:"equipment_id"`
	CreatedByID        string   `json:"created_by_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	Priority           string   `json:"priority"`
	ServiceProvider    string   `json:"service_provider"`
	CompletionDate     *string  `json:"completion_date"`
	Cost               *float64 `json:"cost"`
	WarrantyExpiration *string  `json:"warranty_expiration"`
	WarrantyTerms      string   `json:"warranty_terms"`
	InvoiceNumber      string   `json:"invoice_number"`
	Notes              string   `json:"notes"`
	Documents          *string  `json:"documents"`
}

func toOrderResponse(o *maintenance.MaintenanceOrder) orderResponse {
	return orderResponse{
		ID:                 o.ID,
		EquipmentID:        o.EquipmentID,
		CreatedByID:        o.CreatedByID,
		Title:              o.Title,
		Description:        o.Description,
		Status:             o.Status,
		Priority:           o.Priority,
		ServiceProvider:    o.ServiceProvider,
		CompletionDate:     formatDate(o.CompletionDate),
		Cost:               o.Cost,
		WarrantyExpiration: formatDate(o.WarrantyExpiration),
		WarrantyTerms:      o.WarrantyTerms,
		InvoiceNumber:      o.InvoiceNumber,
		Notes:              o.Notes,
		Documents:          o.Documents,
	}
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.maintenance.ListOrders(r.Context(), scopeFrom(r), r.URL.Query().Get("equipment_id"), r.URL.Query().Get("status"))
	if err != nil {
		h.respondError(w, err, "list orders failed")
		return
	}
	responses := make([]orderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, toOrderResponse(&orders[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.maintenance.GetOrder(r.Context(), scopeFrom(r), chi.URLParam(r, "order_id"))
	if err != nil {
		h.respondError(w, err, "get order failed")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

type orderRequest struct {
	EquipmentID        string   `json:"equipment_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Status             string   `json:"status"`
	Priority           string   `json:"priority"`
	ServiceProvider    string   `json:"service_provider"`
	CompletionDate     *string  `json:"completion_date"`
	Cost               *float64 `json:"cost"`
	WarrantyExpiration *string  `json:"warranty_expiration"`
	WarrantyTerms      string   `json:"warranty_terms"`
	InvoiceNumber      string   `json:"invoice_number"`
	Notes              string   `json:"notes"`
	Documents          *string  `json:"documents"`
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	completionDate, err := parseDateParam(req.CompletionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid completion_date")
		return
	}
	warrantyExpiration, err := parseDateParam(req.WarrantyExpiration)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid warranty_expiration")
		return
	}

	creator := middleware.UserFrom(r.Context())
	order, err := h.maintenance.CreateOrder(r.Context(), scopeFrom(r), creator.ID, maintenance.OrderInput{
		EquipmentID:        req.EquipmentID,
		Title:              req.Title,
		Description:        req.Description,
		Status:             req.Status,
		Priority:           req.Priority,
		ServiceProvider:    req.ServiceProvider,
		CompletionDate:     completionDate,
		Cost:               req.Cost,
		WarrantyExpiration: warrantyExpiration,
		WarrantyTerms:      req.WarrantyTerms,
		InvoiceNumber:      req.InvoiceNumber,
		Notes:              req.Notes,
		Documents:          req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "create order failed")
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

type orderUpdateRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	Status             *string  `json:"status"`
	Priority           *string  `json:"priority"`
	ServiceProvider    *string  `json:"service_provider"`
	CompletionDate     *string  `json:"completion_date"`
	Cost               *float64 `json:"cost"`
	WarrantyExpiration *string  `json:"warranty_expiration"`
	WarrantyTerms      *string  `json:"warranty_terms"`
	InvoiceNumber      *string  `json:"invoice_number"`
	Notes              *string  `json:"notes"`
	Documents          *string  `json:"documents"`
}

func (h *Handlers) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	completionDate, err := parseDateParam(req.CompletionDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid completion_date")
		return
	}
	warrantyExpiration, err := parseDateParam(req.WarrantyExpiration)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid warranty_expiration")
		return
	}

	order, err := h.maintenance.UpdateOrder(r.Context(), scopeFrom(r), chi.URLParam(r, "order_id"), maintenance.OrderUpdate{
		Title:              req.Title,
		Description:        req.Description,
		Status:             req.Status,
		Priority:           req.Priority,
		ServiceProvider:    req.ServiceProvider,
		CompletionDate:     completionDate,
		Cost:               req.Cost,
		WarrantyExpiration: warrantyExpiration,
		WarrantyTerms:      req.WarrantyTerms,
		InvoiceNumber:      req.InvoiceNumber,
		Notes:              req.Notes,
		Documents:          req.Documents,
	})
	if err != nil {
		h.respondError(w, err, "update order failed")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.maintenance.DeleteOrder(r.Context(), scopeFrom(r), chi.URLParam(r, "order_id")); err != nil {
		h.respondError(w, err, "delete order failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MaintenanceStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.maintenance.Stats(r.Context(), scopeFrom(r))
	if err != nil {
		h.respondError(w, err, "maintenance stats failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
