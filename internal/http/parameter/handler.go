package parameter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rcastellanos/taller/internal/parameter"
)

type Handler struct {
	svc *parameter.Service
}

func NewHandler(svc *parameter.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{key}", h.get)
	r.Put("/{key}", h.update)
}

type parameterResponse struct {
	Category    string     `json:"category"`
	Key         string     `json:"key"`
	Value       any        `json:"value"`
	Type        string     `json:"type"`
	Description string     `json:"description,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toResponse(p *parameter.Parameter) parameterResponse {
	return parameterResponse{
		Category:    p.Category,
		Key:         p.Key,
		Value:       p.TypedValue(),
		Type:        p.Type,
		Description: p.Description,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params, err := h.svc.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]parameterResponse, len(params))
	for i, p := range params {
		resp[i] = toResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, parameter.ErrNotFound) {
			http.Error(w, "parameter not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateParameterRequest struct {
	Value string `json:"value"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateParameterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "key"), req.Value)
	if err != nil {
		if errors.Is(err, parameter.ErrNotFound) {
			http.Error(w, "parameter not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(p)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
