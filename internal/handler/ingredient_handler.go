package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
	"github.com/momentocake/backend/internal/service"
)

// IngredientHandler は材料の HTTP ハンドラ
type IngredientHandler struct {
	svc service.IngredientService
}

// NewIngredientHandler は IngredientHandler を生成する
func NewIngredientHandler(svc service.IngredientService) *IngredientHandler {
	return &IngredientHandler{svc: svc}
}

func writeIngredientError(w http.ResponseWriter, err error, op, id string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "ingredient_not_found")
	case errors.Is(err, service.ErrValidation):
		writeErrorMessage(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		slog.Error("ingredient "+op+" failed", "error", err, "ingredient_id", id)
		writeError(w, http.StatusInternalServerError, op+"_failed")
	}
}

// List handles GET /api/ingredients?search=
func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ingredients, err := h.svc.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeIngredientError(w, err, "list", "")
		return
	}
	if ingredients == nil {
		ingredients = []*model.Ingredient{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"ingredients": ingredients})
}

// Get handles GET /api/ingredients/{id}
func (h *IngredientHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	ingredient, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeIngredientError(w, err, "get", id)
		return
	}
	_ = json.NewEncoder(w).Encode(ingredient)
}

// Create handles POST /api/ingredients
func (h *IngredientHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		Name             string  `json:"name"`
		Unit             string  `json:"unit"`
		MeasurementValue float64 `json:"measurement_value"`
		CurrentPrice     float64 `json:"current_price"`
		CurrentStock     float64 `json:"current_stock"`
		MinStock         float64 `json:"min_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	ingredient := &model.Ingredient{
		Name:             req.Name,
		Unit:             req.Unit,
		MeasurementValue: req.MeasurementValue,
		CurrentPrice:     req.CurrentPrice,
		CurrentStock:     req.CurrentStock,
		MinStock:         req.MinStock,
	}
	if err := h.svc.Create(r.Context(), ingredient); err != nil {
		writeIngredientError(w, err, "create", "")
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(ingredient)
}

// Update handles PUT /api/ingredients/{id}
func (h *IngredientHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	var req struct {
		Name             *string  `json:"name"`
		Unit             *string  `json:"unit"`
		MeasurementValue *float64 `json:"measurement_value"`
		CurrentPrice     *float64 `json:"current_price"`
		CurrentStock     *float64 `json:"current_stock"`
		MinStock         *float64 `json:"min_stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	patch := model.IngredientPatch{
		Name:             req.Name,
		Unit:             req.Unit,
		MeasurementValue: req.MeasurementValue,
		CurrentPrice:     req.CurrentPrice,
		CurrentStock:     req.CurrentStock,
		MinStock:         req.MinStock,
	}
	ingredient, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeIngredientError(w, err, "update", id)
		return
	}
	_ = json.NewEncoder(w).Encode(ingredient)
}

// Delete handles DELETE /api/ingredients/{id}
func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeIngredientError(w, err, "delete", id)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
