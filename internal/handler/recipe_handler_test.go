package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/momentocake/backend/internal/costing"
	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
	"github.com/momentocake/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock RecipeService
// ---------------------------------------------------------------------------

type mockRecipeService struct {
	listFunc             func(ctx context.Context, filter model.RecipeFilter) ([]*model.Recipe, error)
	getFunc              func(ctx context.Context, id string) (*model.Recipe, error)
	createFunc           func(ctx context.Context, recipe *model.Recipe) error
	updateFunc           func(ctx context.Context, recipe *model.Recipe) error
	deleteFunc           func(ctx context.Context, id string) error
	duplicateFunc        func(ctx context.Context, id, name string) (*model.Recipe, error)
	calculateCostsFunc   func(ctx context.Context, id string) (*model.CostBreakdown, error)
	recalculateCostsFunc func(ctx context.Context, id string) (*model.CostBreakdown, error)
	exportCostReportFunc func(ctx context.Context, id string) (*model.CostReport, error)
	findCyclesFunc       func(ctx context.Context) ([]costing.CycleEdge, error)
}

func (m *mockRecipeService) List(ctx context.Context, filter model.RecipeFilter) ([]*model.Recipe, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}
func (m *mockRecipeService) Get(ctx context.Context, id string) (*model.Recipe, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockRecipeService) Create(ctx context.Context, recipe *model.Recipe) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, recipe)
	}
	return nil
}
func (m *mockRecipeService) Update(ctx context.Context, recipe *model.Recipe) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, recipe)
	}
	return nil
}
func (m *mockRecipeService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockRecipeService) Duplicate(ctx context.Context, id, name string) (*model.Recipe, error) {
	if m.duplicateFunc != nil {
		return m.duplicateFunc(ctx, id, name)
	}
	return nil, repository.ErrNotFound
}
func (m *mockRecipeService) CalculateCosts(ctx context.Context, id string) (*model.CostBreakdown, error) {
	if m.calculateCostsFunc != nil {
		return m.calculateCostsFunc(ctx, id)
	}
	return nil, costing.ErrRecipeNotFound
}
func (m *mockRecipeService) RecalculateCosts(ctx context.Context, id string) (*model.CostBreakdown, error) {
	if m.recalculateCostsFunc != nil {
		return m.recalculateCostsFunc(ctx, id)
	}
	return nil, costing.ErrRecipeNotFound
}
func (m *mockRecipeService) ExportCostReport(ctx context.Context, id string) (*model.CostReport, error) {
	if m.exportCostReportFunc != nil {
		return m.exportCostReportFunc(ctx, id)
	}
	return nil, costing.ErrRecipeNotFound
}
func (m *mockRecipeService) FindCycles(ctx context.Context) ([]costing.CycleEdge, error) {
	if m.findCyclesFunc != nil {
		return m.findCyclesFunc(ctx)
	}
	return nil, nil
}

func newRecipeMux(h *RecipeHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/recipes", h.List)
	mux.HandleFunc("POST /api/recipes", h.Create)
	mux.HandleFunc("GET /api/recipes/cycles", h.Cycles)
	mux.HandleFunc("GET /api/recipes/{id}", h.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", h.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", h.Delete)
	mux.HandleFunc("POST /api/recipes/{id}/duplicate", h.Duplicate)
	mux.HandleFunc("GET /api/recipes/{id}/costs", h.Costs)
	mux.HandleFunc("POST /api/recipes/{id}/costs/recalculate", h.RecalculateCosts)
	mux.HandleFunc("POST /api/recipes/{id}/costs/report", h.CostReport)
	return mux
}

func serve(mux http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp["error"]
}

// ---------------------------------------------------------------------------
// GET /api/recipes
// ---------------------------------------------------------------------------

func TestRecipeHandler_List_PassesFilter(t *testing.T) {
	var got model.RecipeFilter
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		listFunc: func(_ context.Context, f model.RecipeFilter) ([]*model.Recipe, error) {
			got = f
			return []*model.Recipe{{ID: "r1", Name: "Cake"}}, nil
		},
	}))

	rec := serve(mux, http.MethodGet, "/api/recipes?category=cakes&search=choc", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Category != model.CategoryCakes || got.Search != "choc" {
		t.Errorf("unexpected filter: %+v", got)
	}
	var resp struct {
		Recipes []*model.Recipe `json:"recipes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Recipes) != 1 || resp.Recipes[0].ID != "r1" {
		t.Errorf("unexpected recipes: %v", resp.Recipes)
	}
}

func TestRecipeHandler_List_EmptyIsArray(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{}))

	rec := serve(mux, http.MethodGet, "/api/recipes", "")

	if !strings.Contains(rec.Body.String(), `"recipes":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// POST /api/recipes, PUT /api/recipes/{id}
// ---------------------------------------------------------------------------

func TestRecipeHandler_Create_Success(t *testing.T) {
	var created *model.Recipe
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		createFunc: func(_ context.Context, r *model.Recipe) error {
			r.ID = "new-id"
			created = r
			return nil
		},
	}))

	body := `{"name":"Cake","category":"cakes","generated_amount":1,"servings":8,
		"recipe_items":[{"type":"ingredient","ingredient":{"ingredient_id":"flour"},"quantity":100,"unit":"g"}]}`
	rec := serve(mux, http.MethodPost, "/api/recipes", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if created == nil || created.Name != "Cake" || len(created.Items) != 1 {
		t.Fatalf("unexpected recipe passed to service: %+v", created)
	}
	if created.Items[0].Ingredient == nil || created.Items[0].Ingredient.IngredientID != "flour" {
		t.Errorf("item not decoded: %+v", created.Items[0])
	}
}

func TestRecipeHandler_Create_InvalidJSON(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{}))

	rec := serve(mux, http.MethodPost, "/api/recipes", "{")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "invalid_json" {
		t.Errorf("expected invalid_json, got %q", code)
	}
}

func TestRecipeHandler_Create_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: name is required", service.ErrValidation), http.StatusBadRequest, "validation_failed"},
		{service.ErrInactiveSubRecipe, http.StatusBadRequest, "inactive_sub_recipe"},
		{service.ErrDuplicateName, http.StatusConflict, "duplicate_name"},
		{service.ErrCircularDependency, http.StatusConflict, "circular_dependency"},
		{errors.New("db down"), http.StatusInternalServerError, "create_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
				createFunc: func(_ context.Context, _ *model.Recipe) error { return tt.err },
			}))

			rec := serve(mux, http.MethodPost, "/api/recipes", `{"name":"x"}`)

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			if code := errorCode(t, rec); code != tt.code {
				t.Errorf("expected %q, got %q", tt.code, code)
			}
		})
	}
}

func TestRecipeHandler_Update_UsesPathID(t *testing.T) {
	var gotID string
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		updateFunc: func(_ context.Context, r *model.Recipe) error {
			gotID = r.ID
			return nil
		},
	}))

	rec := serve(mux, http.MethodPut, "/api/recipes/r1", `{"name":"Cake","generated_amount":1,"servings":1}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotID != "r1" {
		t.Errorf("expected id=r1, got %q", gotID)
	}
}

func TestRecipeHandler_Update_NotFound(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		updateFunc: func(_ context.Context, _ *model.Recipe) error { return repository.ErrNotFound },
	}))

	rec := serve(mux, http.MethodPut, "/api/recipes/ghost", `{"name":"x"}`)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET / DELETE /api/recipes/{id}, POST duplicate
// ---------------------------------------------------------------------------

func TestRecipeHandler_Get(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		getFunc: func(_ context.Context, id string) (*model.Recipe, error) {
			if id == "r1" {
				return &model.Recipe{ID: "r1", Name: "Cake"}, nil
			}
			return nil, repository.ErrNotFound
		},
	}))

	if rec := serve(mux, http.MethodGet, "/api/recipes/r1", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	rec := serve(mux, http.MethodGet, "/api/recipes/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "recipe_not_found" {
		t.Errorf("expected recipe_not_found, got %q", code)
	}
}

func TestRecipeHandler_Delete(t *testing.T) {
	var deletedID string
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		deleteFunc: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}))

	rec := serve(mux, http.MethodDelete, "/api/recipes/r1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deletedID != "r1" {
		t.Errorf("expected Delete called with r1, got %q", deletedID)
	}
}

func TestRecipeHandler_Duplicate(t *testing.T) {
	var gotName string
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		duplicateFunc: func(_ context.Context, id, name string) (*model.Recipe, error) {
			gotName = name
			return &model.Recipe{ID: "copy", Name: "Cake (copy)"}, nil
		},
	}))

	if rec := serve(mux, http.MethodPost, "/api/recipes/r1/duplicate", ""); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 without body, got %d", rec.Code)
	}
	if gotName != "" {
		t.Errorf("expected empty name, got %q", gotName)
	}
	if rec := serve(mux, http.MethodPost, "/api/recipes/r1/duplicate", `{"name":"Cake II"}`); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if gotName != "Cake II" {
		t.Errorf("expected name=Cake II, got %q", gotName)
	}
}

// ---------------------------------------------------------------------------
// Costs
// ---------------------------------------------------------------------------

func TestRecipeHandler_Costs_Success(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		calculateCostsFunc: func(_ context.Context, id string) (*model.CostBreakdown, error) {
			return &model.CostBreakdown{RecipeID: id, TotalCost: 20.6, CostPerServing: 2.575}, nil
		},
	}))

	rec := serve(mux, http.MethodGet, "/api/recipes/r1/costs", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got model.CostBreakdown
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RecipeID != "r1" || got.TotalCost != 20.6 {
		t.Errorf("unexpected breakdown: %+v", got)
	}
}

func TestRecipeHandler_Costs_RecipeNotFound(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		calculateCostsFunc: func(_ context.Context, id string) (*model.CostBreakdown, error) {
			return nil, fmt.Errorf("%w: %s", costing.ErrRecipeNotFound, id)
		},
	}))

	rec := serve(mux, http.MethodGet, "/api/recipes/ghost/costs", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "recipe_not_found" {
		t.Errorf("expected recipe_not_found, got %q", code)
	}
}

func TestRecipeHandler_Costs_InternalError(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		calculateCostsFunc: func(_ context.Context, _ string) (*model.CostBreakdown, error) {
			return nil, errors.New("settings unavailable")
		},
	}))

	rec := serve(mux, http.MethodGet, "/api/recipes/r1/costs", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "calculate_costs_failed" {
		t.Errorf("expected calculate_costs_failed, got %q", code)
	}
}

func TestRecipeHandler_RecalculateCosts(t *testing.T) {
	called := false
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		recalculateCostsFunc: func(_ context.Context, id string) (*model.CostBreakdown, error) {
			called = true
			return &model.CostBreakdown{RecipeID: id}, nil
		},
	}))

	rec := serve(mux, http.MethodPost, "/api/recipes/r1/costs/recalculate", "")

	if rec.Code != http.StatusOK || !called {
		t.Errorf("expected 200 and service call, got %d (called=%v)", rec.Code, called)
	}
}

func TestRecipeHandler_CostReport(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		exportCostReportFunc: func(_ context.Context, id string) (*model.CostReport, error) {
			return &model.CostReport{RecipeID: id, Key: id + "/x.json", URL: "/reports/" + id + "/x.json"}, nil
		},
	}))

	rec := serve(mux, http.MethodPost, "/api/recipes/r1/costs/report", "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var got model.CostReport
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.URL != "/reports/r1/x.json" {
		t.Errorf("unexpected url %q", got.URL)
	}
}

// ---------------------------------------------------------------------------
// GET /api/recipes/cycles
// ---------------------------------------------------------------------------

func TestRecipeHandler_Cycles_Empty(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		getFunc: func(ctx context.Context, id string) (*model.Recipe, error) {
			t.Errorf("cycles must not route to Get (id=%q)", id)
			return nil, repository.ErrNotFound
		},
	}))

	rec := serve(mux, "GET", "/api/recipes/cycles", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"cycles":[]}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestRecipeHandler_Cycles_ReturnsEdges(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		findCyclesFunc: func(ctx context.Context) ([]costing.CycleEdge, error) {
			return []costing.CycleEdge{{RecipeID: "a", SubRecipeID: "b", Path: []string{"a", "b", "a"}}}, nil
		},
	}))

	rec := serve(mux, "GET", "/api/recipes/cycles", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Cycles []costing.CycleEdge `json:"cycles"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Cycles) != 1 || resp.Cycles[0].RecipeID != "a" || len(resp.Cycles[0].Path) != 3 {
		t.Errorf("unexpected cycles: %+v", resp.Cycles)
	}
}

func TestRecipeHandler_Cycles_Error(t *testing.T) {
	mux := newRecipeMux(NewRecipeHandler(&mockRecipeService{
		findCyclesFunc: func(ctx context.Context) ([]costing.CycleEdge, error) {
			return nil, errors.New("db down")
		},
	}))

	rec := serve(mux, "GET", "/api/recipes/cycles", "")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "find_cycles_failed" {
		t.Errorf("expected find_cycles_failed, got %q", code)
	}
}
