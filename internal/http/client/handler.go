package client

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rcastellanos/taller/internal/client"
	"github.com/rcastellanos/taller/internal/vehicle"
)

type Handler struct {
	svc      *client.Service
	vehicles *vehicle.Service
}

func NewHandler(svc *client.Service, vehicles *vehicle.Service) *Handler {
	return &Handler{svc: svc, vehicles: vehicles}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Get("/{id}/vehicles", h.listVehicles)
}

type clientResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	TaxID       string    `json:"tax_id,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	ZipCode     string    `json:"zip_code,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Username:    c.Username,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Phone:       c.Phone,
		CompanyName: c.CompanyName,
		TaxID:       c.TaxID,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		ZipCode:     c.ZipCode,
		Notes:       c.Notes,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]clientResponse, len(clients))
	for i, c := range clients {
		resp[i] = toResponse(c)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateClientRequest struct {
	CompanyName *string `json:"company_name,omitempty"`
	TaxID       *string `json:"tax_id,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	ZipCode     *string `json:"zip_code,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			http.Error(w, "client not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.CompanyName != nil {
		c.CompanyName = *req.CompanyName
	}

	if req.TaxID != nil {
		c.TaxID = *req.TaxID
	}

	if req.Address != nil {
		c.Address = *req.Address
	}

	if req.City != nil {
		c.City = *req.City
	}

	if req.State != nil {
		c.State = *req.State
	}

	if req.ZipCode != nil {
		c.ZipCode = *req.ZipCode
	}

	if req.Notes != nil {
		c.Notes = *req.Notes
	}

	if err := h.svc.Update(r.Context(), c); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(c)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	vehicles, err := h.vehicles.List(r.Context(), &id)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(vehicleResponses(vehicles)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type vehicleResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	PlateNumber string     `json:"plate_number"`
	Brand       string     `json:"brand"`
	Model       string     `json:"model"`
	Year        int        `json:"year"`
	VIN         string     `json:"vin,omitempty"`
	Color       string     `json:"color,omitempty"`
	Mileage     *int64     `json:"mileage,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func vehicleResponses(vehicles []*vehicle.Vehicle) []vehicleResponse {
	resp := make([]vehicleResponse, len(vehicles))
	for i, v := range vehicles {
		resp[i] = vehicleResponse{
			ID:          v.ID,
			ClientID:    v.ClientID,
			PlateNumber: v.PlateNumber,
			Brand:       v.Brand,
			Model:       v.Model,
			Year:        v.Year,
			VIN:         v.VIN,
			Color:       v.Color,
			Mileage:     v.Mileage,
			Notes:       v.Notes,
			CreatedAt:   v.CreatedAt,
		}
	}

	return resp
}
