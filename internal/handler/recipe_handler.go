package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/momentocake/backend/internal/costing"
	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
	"github.com/momentocake/backend/internal/service"
)

// RecipeHandler はレシピと原価計算の HTTP ハンドラ
type RecipeHandler struct {
	svc service.RecipeService
}

// NewRecipeHandler は RecipeHandler を生成する
func NewRecipeHandler(svc service.RecipeService) *RecipeHandler {
	return &RecipeHandler{svc: svc}
}

type recipeRequest struct {
	Name                   string                 `json:"name"`
	Description            string                 `json:"description"`
	Category               model.RecipeCategory   `json:"category"`
	Difficulty             model.RecipeDifficulty `json:"difficulty"`
	GeneratedAmount        float64                `json:"generated_amount"`
	GeneratedUnit          string                 `json:"generated_unit"`
	Servings               int                    `json:"servings"`
	PreparationTimeMinutes float64                `json:"preparation_time_minutes"`
	Items                  []model.RecipeItem     `json:"recipe_items"`
	Steps                  []model.RecipeStep     `json:"steps"`
	Notes                  string                 `json:"notes"`
}

func (req recipeRequest) toRecipe(id string) *model.Recipe {
	return &model.Recipe{
		ID:                     id,
		Name:                   req.Name,
		Description:            req.Description,
		Category:               req.Category,
		Difficulty:             req.Difficulty,
		GeneratedAmount:        req.GeneratedAmount,
		GeneratedUnit:          req.GeneratedUnit,
		Servings:               req.Servings,
		PreparationTimeMinutes: req.PreparationTimeMinutes,
		Items:                  req.Items,
		Steps:                  req.Steps,
		Notes:                  req.Notes,
	}
}

// writeRecipeError maps service and engine errors to HTTP responses.
func writeRecipeError(w http.ResponseWriter, err error, op, id string) {
	switch {
	case errors.Is(err, costing.ErrRecipeNotFound), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "recipe_not_found")
	case errors.Is(err, service.ErrValidation):
		writeErrorMessage(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, service.ErrInactiveSubRecipe):
		writeErrorMessage(w, http.StatusBadRequest, "inactive_sub_recipe", err.Error())
	case errors.Is(err, service.ErrDuplicateName):
		writeErrorMessage(w, http.StatusConflict, "duplicate_name", err.Error())
	case errors.Is(err, service.ErrCircularDependency):
		writeErrorMessage(w, http.StatusConflict, "circular_dependency", err.Error())
	default:
		slog.Error("recipe "+op+" failed", "error", err, "recipe_id", id)
		writeError(w, http.StatusInternalServerError, op+"_failed")
	}
}

// List handles GET /api/recipes?category=&search=
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	filter := model.RecipeFilter{
		Category: model.RecipeCategory(r.URL.Query().Get("category")),
		Search:   r.URL.Query().Get("search"),
	}
	recipes, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeRecipeError(w, err, "list", "")
		return
	}
	if recipes == nil {
		recipes = []*model.Recipe{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"recipes": recipes})
}

// Get handles GET /api/recipes/{id}
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	recipe, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeRecipeError(w, err, "get", id)
		return
	}
	_ = json.NewEncoder(w).Encode(recipe)
}

// Create handles POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	recipe := req.toRecipe("")
	if err := h.svc.Create(r.Context(), recipe); err != nil {
		writeRecipeError(w, err, "create", "")
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(recipe)
}

// Update handles PUT /api/recipes/{id}
func (h *RecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	recipe := req.toRecipe(id)
	if err := h.svc.Update(r.Context(), recipe); err != nil {
		writeRecipeError(w, err, "update", id)
		return
	}
	_ = json.NewEncoder(w).Encode(recipe)
}

// Delete handles DELETE /api/recipes/{id}
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeRecipeError(w, err, "delete", id)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Duplicate handles POST /api/recipes/{id}/duplicate. The body is optional.
func (h *RecipeHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
	}

	dup, err := h.svc.Duplicate(r.Context(), id, req.Name)
	if err != nil {
		writeRecipeError(w, err, "duplicate", id)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(dup)
}

// Costs handles GET /api/recipes/{id}/costs
func (h *RecipeHandler) Costs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	costs, err := h.svc.CalculateCosts(r.Context(), id)
	if err != nil {
		writeRecipeError(w, err, "calculate_costs", id)
		return
	}
	_ = json.NewEncoder(w).Encode(costs)
}

// RecalculateCosts handles POST /api/recipes/{id}/costs/recalculate
func (h *RecipeHandler) RecalculateCosts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	costs, err := h.svc.RecalculateCosts(r.Context(), id)
	if err != nil {
		writeRecipeError(w, err, "recalculate_costs", id)
		return
	}
	_ = json.NewEncoder(w).Encode(costs)
}

// CostReport handles POST /api/recipes/{id}/costs/report
func (h *RecipeHandler) CostReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := r.PathValue("id")
	report, err := h.svc.ExportCostReport(r.Context(), id)
	if err != nil {
		writeRecipeError(w, err, "cost_report", id)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(report)
}

// Cycles handles GET /api/recipes/cycles
func (h *RecipeHandler) Cycles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	edges, err := h.svc.FindCycles(r.Context())
	if err != nil {
		writeRecipeError(w, err, "find_cycles", "")
		return
	}
	if edges == nil {
		edges = []costing.CycleEdge{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"cycles": edges})
}
