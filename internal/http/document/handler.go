package document

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcastellanos/taller/internal/auth"
	"github.com/rcastellanos/taller/internal/client"
	"github.com/rcastellanos/taller/internal/document"
	"github.com/rcastellanos/taller/internal/http/middleware"
	"github.com/rcastellanos/taller/internal/user"
)

// Handler serves work orders, budgets and invoices. The three route sets
// share one service and one response shape because the documents share the
// numbering and transactional write machinery underneath.
type Handler struct {
	svc     *document.Service
	clients *client.Service
}

func NewHandler(svc *document.Service, clients *client.Service) *Handler {
	return &Handler{svc: svc, clients: clients}
}

func (h *Handler) WorkOrderRoutes(r chi.Router) {
	frontDesk := middleware.RequireRole(user.RoleAdmin, user.RoleReceptionist)
	workshop := middleware.RequireRole(user.RoleAdmin, user.RoleReceptionist, user.RoleMechanic)

	r.With(frontDesk).Post("/", h.createWorkOrder)
	r.Get("/", h.listKind(document.KindWorkOrder))
	r.Get("/{id}", h.getKind(document.KindWorkOrder))
	r.With(workshop).Patch("/{id}", h.updateWorkOrder)
	r.With(middleware.RequireRole(user.RoleAdmin)).Delete("/{id}", h.deleteKind(document.KindWorkOrder))
}

func (h *Handler) BudgetRoutes(r chi.Router) {
	frontDesk := middleware.RequireRole(user.RoleAdmin, user.RoleReceptionist)

	r.With(frontDesk).Post("/", h.createBudget)
	r.Get("/", h.listKind(document.KindBudget))
	r.Get("/{id}", h.getKind(document.KindBudget))
	r.With(frontDesk).Patch("/{id}", h.updateBudget)
	r.With(middleware.RequireRole(user.RoleAdmin)).Delete("/{id}", h.deleteKind(document.KindBudget))
}

func (h *Handler) InvoiceRoutes(r chi.Router) {
	frontDesk := middleware.RequireRole(user.RoleAdmin, user.RoleReceptionist)

	r.With(frontDesk).Post("/", h.createInvoice)
	r.With(frontDesk).Post("/from-work-order/{id}", h.invoiceWorkOrder)
	r.Get("/", h.listKind(document.KindInvoice))
	r.Get("/{id}", h.getKind(document.KindInvoice))
	r.With(frontDesk).Patch("/{id}", h.updateInvoice)
	r.With(middleware.RequireRole(user.RoleAdmin)).Delete("/{id}", h.deleteKind(document.KindInvoice))
	r.With(frontDesk).Post("/{id}/payments", h.addPayment)
}

func writeError(w http.ResponseWriter, err error) {
	var verr *document.ValidationError

	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, document.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, document.ErrAlreadyInvoiced):
		http.Error(w, "work order already invoiced", http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type partRequest struct {
	InventoryItemID *uuid.UUID `json:"inventory_item_id,omitempty"`
	Description     string     `json:"description"`
	Quantity        int64      `json:"quantity"`
	UnitPrice       int64      `json:"unit_price"`
}

type laborRequest struct {
	ServiceID   *uuid.UUID      `json:"service_id,omitempty"`
	Description string          `json:"description"`
	Hours       decimal.Decimal `json:"hours"`
	Rate        int64           `json:"rate"`
}

func toPartParams(parts []partRequest) []document.PartParams {
	params := make([]document.PartParams, len(parts))
	for i, p := range parts {
		params[i] = document.PartParams{
			InventoryItemID: p.InventoryItemID,
			Description:     p.Description,
			Quantity:        p.Quantity,
			UnitPrice:       p.UnitPrice,
		}
	}

	return params
}

func toLaborParams(labor []laborRequest) []document.LaborParams {
	params := make([]document.LaborParams, len(labor))
	for i, l := range labor {
		params[i] = document.LaborParams{
			ServiceID:   l.ServiceID,
			Description: l.Description,
			Hours:       l.Hours.Shift(2).Round(0).IntPart(),
			Rate:        l.Rate,
		}
	}

	return params
}

// ownClientID resolves the client profile behind a client-role account.
func (h *Handler) ownClientID(r *http.Request, claims *auth.Claims) (uuid.UUID, error) {
	c, err := h.clients.GetByUserID(r.Context(), claims.UserID)
	if err != nil {
		return uuid.Nil, err
	}

	return c.ID, nil
}

// scopeFilter narrows a list to what the caller may see: clients see their
// own documents, mechanics see their assigned work orders.
func (h *Handler) scopeFilter(r *http.Request, kind document.Kind, filter *document.ListFilter) error {
	claims := middleware.ClaimsFromContext(r.Context())

	switch user.Role(claims.Role) {
	case user.RoleClient:
		clientID, err := h.ownClientID(r, claims)
		if err != nil {
			return err
		}

		filter.ClientID = &clientID
	case user.RoleMechanic:
		if kind == document.KindWorkOrder {
			filter.MechanicID = &claims.UserID
		}
	}

	return nil
}

// mayView reports whether the caller is allowed to read the document.
func (h *Handler) mayView(r *http.Request, doc *document.Document) bool {
	claims := middleware.ClaimsFromContext(r.Context())

	if user.Role(claims.Role) != user.RoleClient {
		return true
	}

	clientID, err := h.ownClientID(r, claims)
	if err != nil {
		return false
	}

	return doc.ClientID == clientID
}

type createWorkOrderRequest struct {
	ClientID                uuid.UUID      `json:"client_id"`
	VehicleID               uuid.UUID      `json:"vehicle_id"`
	AssignedMechanicID      *uuid.UUID     `json:"assigned_mechanic_id,omitempty"`
	ProblemDescription      string         `json:"problem_description"`
	Priority                string         `json:"priority"`
	EstimatedCompletionDate *time.Time     `json:"estimated_completion_date,omitempty"`
	MileageIn               *int64         `json:"mileage_in,omitempty"`
	Notes                   string         `json:"notes"`
	Parts                   []partRequest  `json:"parts"`
	Labor                   []laborRequest `json:"labor"`
}

func (h *Handler) createWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req createWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	doc, err := h.svc.CreateWorkOrder(r.Context(), document.CreateWorkOrderParams{
		ClientID:                req.ClientID,
		VehicleID:               req.VehicleID,
		AssignedMechanicID:      req.AssignedMechanicID,
		ProblemDescription:      req.ProblemDescription,
		Priority:                req.Priority,
		EstimatedCompletionDate: req.EstimatedCompletionDate,
		MileageIn:               req.MileageIn,
		Notes:                   req.Notes,
		Parts:                   toPartParams(req.Parts),
		Labor:                   toLaborParams(req.Labor),
	}, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(doc))
}

type createBudgetRequest struct {
	ClientID    uuid.UUID      `json:"client_id"`
	VehicleID   *uuid.UUID     `json:"vehicle_id,omitempty"`
	Description string         `json:"description"`
	ValidUntil  *time.Time     `json:"valid_until,omitempty"`
	Notes       string         `json:"notes"`
	Parts       []partRequest  `json:"parts"`
	Labor       []laborRequest `json:"labor"`
}

func (h *Handler) createBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	doc, err := h.svc.CreateBudget(r.Context(), document.CreateBudgetParams{
		ClientID:    req.ClientID,
		VehicleID:   req.VehicleID,
		Description: req.Description,
		ValidUntil:  req.ValidUntil,
		Notes:       req.Notes,
		Parts:       toPartParams(req.Parts),
		Labor:       toLaborParams(req.Labor),
	}, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(doc))
}

type createInvoiceRequest struct {
	ClientID       uuid.UUID     `json:"client_id"`
	IssueDate      *time.Time    `json:"issue_date,omitempty"`
	DueDate        *time.Time    `json:"due_date,omitempty"`
	DiscountAmount int64         `json:"discount_amount"`
	Notes          string        `json:"notes"`
	Items          []partRequest `json:"items"`
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	doc, err := h.svc.CreateInvoice(r.Context(), document.CreateInvoiceParams{
		ClientID:       req.ClientID,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		DiscountAmount: req.DiscountAmount,
		Notes:          req.Notes,
		Parts:          toPartParams(req.Items),
	}, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(doc))
}

func (h *Handler) invoiceWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	inv, err := h.svc.CreateInvoiceFromWorkOrder(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) listKind(kind document.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := document.ListFilter{}

		if s := r.URL.Query().Get("status"); s != "" {
			status := document.Status(s)
			filter.Status = &status
		}

		if s := r.URL.Query().Get("client_id"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				http.Error(w, "invalid client_id", http.StatusBadRequest)
				return
			}

			filter.ClientID = &id
		}

		if err := h.scopeFilter(r, kind, &filter); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		docs, err := h.svc.List(r.Context(), kind, filter)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toResponseList(docs))
	}
}

func (h *Handler) getKind(kind document.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		doc, err := h.svc.Get(r.Context(), kind, id)
		if err != nil {
			writeError(w, err)
			return
		}

		if !h.mayView(r, doc) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toResponse(doc))
	}
}

type updateWorkOrderRequest struct {
	Status               *document.Status `json:"status,omitempty"`
	AssignedMechanicID   *uuid.UUID       `json:"assigned_mechanic_id,omitempty"`
	Diagnosis            *string          `json:"diagnosis,omitempty"`
	WorkPerformed        *string          `json:"work_performed,omitempty"`
	ActualCompletionDate *time.Time       `json:"actual_completion_date,omitempty"`
	MileageOut           *int64           `json:"mileage_out,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}

func (h *Handler) updateWorkOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.svc.UpdateWorkOrder(r.Context(), id, document.UpdateWorkOrderParams{
		Status:               req.Status,
		AssignedMechanicID:   req.AssignedMechanicID,
		Diagnosis:            req.Diagnosis,
		WorkPerformed:        req.WorkPerformed,
		ActualCompletionDate: req.ActualCompletionDate,
		MileageOut:           req.MileageOut,
		Notes:                req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(doc))
}

type updateBudgetRequest struct {
	Status      *document.Status `json:"status,omitempty"`
	Description *string          `json:"description,omitempty"`
	ValidUntil  *time.Time       `json:"valid_until,omitempty"`
	Notes       *string          `json:"notes,omitempty"`
}

func (h *Handler) updateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.svc.UpdateBudget(r.Context(), id, document.UpdateBudgetParams{
		Status:      req.Status,
		Description: req.Description,
		ValidUntil:  req.ValidUntil,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(doc))
}

type updateInvoiceRequest struct {
	Status        *document.Status `json:"status,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	PaymentDate   *time.Time       `json:"payment_date,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.svc.UpdateInvoice(r.Context(), id, document.UpdateInvoiceParams{
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   req.PaymentDate,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(doc))
}

func (h *Handler) deleteKind(kind document.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}

		if err := h.svc.Delete(r.Context(), kind, id); err != nil {
			writeError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type addPaymentRequest struct {
	Amount          int64     `json:"amount"`
	Method          string    `json:"payment_method"`
	Date            time.Time `json:"payment_date"`
	ReferenceNumber string    `json:"reference_number"`
	Notes           string    `json:"notes"`
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())

	inv, err := h.svc.AddPayment(r.Context(), id, document.PaymentParams{
		Amount:          req.Amount,
		Method:          req.Method,
		Date:            req.Date,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(inv))
}
