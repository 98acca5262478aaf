package vehicle

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rcastellanos/taller/internal/vehicle"
)

type Handler struct {
	svc *vehicle.Service
}

func NewHandler(svc *vehicle.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Put("/{id}/client", h.associate)
	r.Delete("/{id}", h.delete)
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

func toResponse(v *vehicle.Vehicle) vehicleResponse {
	return vehicleResponse{
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

type createVehicleRequest struct {
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	PlateNumber string     `json:"plate_number"`
	Brand       string     `json:"brand"`
	Model       string     `json:"model"`
	Year        int        `json:"year"`
	VIN         string     `json:"vin"`
	Color       string     `json:"color"`
	Mileage     *int64     `json:"mileage,omitempty"`
	Notes       string     `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.PlateNumber == "" || req.Brand == "" || req.Model == "" {
		http.Error(w, "plate_number, brand and model are required", http.StatusBadRequest)
		return
	}

	v, err := h.svc.Create(r.Context(), vehicle.CreateParams{
		ClientID:    req.ClientID,
		PlateNumber: req.PlateNumber,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		VIN:         req.VIN,
		Color:       req.Color,
		Mileage:     req.Mileage,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, vehicle.ErrPlateTaken) {
			http.Error(w, "plate number already exists", http.StatusConflict)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(v)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var clientID *uuid.UUID

	if s := r.URL.Query().Get("client_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid client_id", http.StatusBadRequest)
			return
		}

		clientID = &id
	}

	vehicles, err := h.svc.List(r.Context(), clientID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]vehicleResponse, len(vehicles))
	for i, v := range vehicles {
		resp[i] = toResponse(v)
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

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			http.Error(w, "vehicle not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(v)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateVehicleRequest struct {
	Brand   *string `json:"brand,omitempty"`
	Model   *string `json:"model,omitempty"`
	Year    *int    `json:"year,omitempty"`
	VIN     *string `json:"vin,omitempty"`
	Color   *string `json:"color,omitempty"`
	Mileage *int64  `json:"mileage,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			http.Error(w, "vehicle not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	if req.Brand != nil {
		v.Brand = *req.Brand
	}

	if req.Model != nil {
		v.Model = *req.Model
	}

	if req.Year != nil {
		v.Year = *req.Year
	}

	if req.VIN != nil {
		v.VIN = *req.VIN
	}

	if req.Color != nil {
		v.Color = *req.Color
	}

	if req.Mileage != nil {
		v.Mileage = req.Mileage
	}

	if req.Notes != nil {
		v.Notes = *req.Notes
	}

	if err := h.svc.Update(r.Context(), v); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(v)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type associateRequest struct {
	ClientID uuid.UUID `json:"client_id"`
}

func (h *Handler) associate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req associateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Associate(r.Context(), id, req.ClientID); err != nil {
		switch {
		case errors.Is(err, vehicle.ErrMissingClient):
			http.Error(w, "client_id is required", http.StatusBadRequest)
		case errors.Is(err, vehicle.ErrNotFound):
			http.Error(w, "vehicle not found", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			http.Error(w, "vehicle not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
