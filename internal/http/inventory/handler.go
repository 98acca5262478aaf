package inventory

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcastellanos/taller/internal/http/middleware"
	"github.com/rcastellanos/taller/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/items", h.createItem)
	r.Get("/items", h.listItems)
	r.Get("/items/{id}", h.getItem)
	r.Patch("/items/{id}", h.updateItem)
	r.Delete("/items/{id}", h.deleteItem)
	r.Get("/items/{id}/transactions", h.listTransactions)
	r.Get("/categories", h.listCategories)
	r.Post("/services", h.createLabor)
	r.Get("/services", h.listLabor)
}

type itemResponse struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	CategoryName  string     `json:"category_name,omitempty"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	UnitPrice     int64      `json:"unit_price"`
	CostPrice     int64      `json:"cost_price"`
	StockQuantity int64      `json:"stock_quantity"`
	MinStockLevel int64      `json:"min_stock_level"`
	Unit          string     `json:"unit"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toItemResponse(item *inventory.Item) itemResponse {
	return itemResponse{
		ID:            item.ID,
		CategoryID:    item.CategoryID,
		CategoryName:  item.CategoryName,
		Code:          item.Code,
		Name:          item.Name,
		Description:   item.Description,
		UnitPrice:     item.UnitPrice,
		CostPrice:     item.CostPrice,
		StockQuantity: item.StockQuantity,
		MinStockLevel: item.MinStockLevel,
		Unit:          item.Unit,
		Active:        item.Active,
		CreatedAt:     item.CreatedAt,
	}
}

type createItemRequest struct {
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	UnitPrice     int64      `json:"unit_price"`
	CostPrice     int64      `json:"cost_price"`
	StockQuantity int64      `json:"stock_quantity"`
	MinStockLevel int64      `json:"min_stock_level"`
	Unit          string     `json:"unit"`
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Code == "" || req.Name == "" {
		http.Error(w, "code and name are required", http.StatusBadRequest)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	item, err := h.svc.CreateItem(r.Context(), inventory.CreateItemParams{
		CategoryID:    req.CategoryID,
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Unit:          req.Unit,
	}, claims.UserID)
	if err != nil {
		if errors.Is(err, inventory.ErrCodeTaken) {
			http.Error(w, "item code already exists", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toItemResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	filter := inventory.ListFilter{}

	if s := r.URL.Query().Get("category_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid category_id", http.StatusBadRequest)
			return
		}

		filter.CategoryID = &id
	}

	if s := r.URL.Query().Get("active"); s != "" {
		active := s == "true"
		filter.Active = &active
	}

	filter.LowStock = r.URL.Query().Get("low_stock") == "true"

	items, err := h.svc.ListItems(r.Context(), filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toItemResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateItemRequest struct {
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	UnitPrice     *int64     `json:"unit_price,omitempty"`
	CostPrice     *int64     `json:"cost_price,omitempty"`
	StockQuantity *int64     `json:"stock_quantity,omitempty"`
	MinStockLevel *int64     `json:"min_stock_level,omitempty"`
	Unit          *string    `json:"unit,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	item, err := h.svc.UpdateItem(r.Context(), id, inventory.UpdateItemParams{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		CostPrice:     req.CostPrice,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Unit:          req.Unit,
		Active:        req.Active,
	}, claims.UserID)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toItemResponse(item)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type transactionResponse struct {
	ID            uuid.UUID  `json:"id"`
	ItemID        uuid.UUID  `json:"item_id"`
	Type          string     `json:"type"`
	Quantity      int64      `json:"quantity"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	txs, err := h.svc.ListTransactions(r.Context(), id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = transactionResponse{
			ID:            tx.ID,
			ItemID:        tx.ItemID,
			Type:          string(tx.Type),
			Quantity:      tx.Quantity,
			ReferenceType: tx.ReferenceType,
			ReferenceID:   tx.ReferenceID,
			Notes:         tx.Notes,
			CreatedBy:     tx.CreatedBy,
			CreatedAt:     tx.CreatedAt,
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type laborResponse struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	DefaultPrice   int64            `json:"default_price"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours,omitempty"`
	Active         bool             `json:"active"`
}

func toLaborResponse(l *inventory.Labor) laborResponse {
	resp := laborResponse{
		ID:           l.ID,
		Code:         l.Code,
		Name:         l.Name,
		Description:  l.Description,
		DefaultPrice: l.DefaultPrice,
		Active:       l.Active,
	}

	if l.EstimatedHours != nil {
		hours := decimal.New(*l.EstimatedHours, -2)
		resp.EstimatedHours = &hours
	}

	return resp
}

type createLaborRequest struct {
	Code           string           `json:"code"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	DefaultPrice   int64            `json:"default_price"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours,omitempty"`
}

func (h *Handler) createLabor(w http.ResponseWriter, r *http.Request) {
	var req createLaborRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Code == "" || req.Name == "" {
		http.Error(w, "code and name are required", http.StatusBadRequest)
		return
	}

	params := inventory.CreateLaborParams{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		DefaultPrice: req.DefaultPrice,
	}

	if req.EstimatedHours != nil {
		hours := req.EstimatedHours.Shift(2).Round(0).IntPart()
		params.EstimatedHours = &hours
	}

	l, err := h.svc.CreateLabor(r.Context(), params)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toLaborResponse(l)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listLabor(w http.ResponseWriter, r *http.Request) {
	var active *bool

	if s := r.URL.Query().Get("active"); s != "" {
		v := s == "true"
		active = &v
	}

	labor, err := h.svc.ListLabor(r.Context(), active)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]laborResponse, len(labor))
	for i, l := range labor {
		resp[i] = toLaborResponse(l)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
