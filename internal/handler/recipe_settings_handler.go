package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/service"
)

// RecipeSettingsHandler は原価計算設定の HTTP ハンドラ
type RecipeSettingsHandler struct {
	svc service.RecipeSettingsService
}

// NewRecipeSettingsHandler は RecipeSettingsHandler を生成する
func NewRecipeSettingsHandler(svc service.RecipeSettingsService) *RecipeSettingsHandler {
	return &RecipeSettingsHandler{svc: svc}
}

// Get handles GET /api/recipe-settings
func (h *RecipeSettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		slog.Error("recipe settings get failed", "error", err)
		writeError(w, http.StatusInternalServerError, "get_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(settings)
}

// Update handles PUT /api/recipe-settings (partial update)
func (h *RecipeSettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req struct {
		LaborHourRate     *float64                         `json:"labor_hour_rate"`
		DefaultMargin     *float64                         `json:"default_margin"`
		MarginsByCategory map[model.RecipeCategory]float64 `json:"margins_by_category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	settings, err := h.svc.Update(r.Context(), model.RecipeSettingsPatch{
		LaborHourRate:     req.LaborHourRate,
		DefaultMargin:     req.DefaultMargin,
		MarginsByCategory: req.MarginsByCategory,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeErrorMessage(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		slog.Error("recipe settings update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "update_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(settings)
}
