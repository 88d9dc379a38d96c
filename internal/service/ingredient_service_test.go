package service

import (
	"context"
	"errors"
	"testing"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock IngredientRepository
// ---------------------------------------------------------------------------

type mockIngredientRepository struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Ingredient, error)
	listFunc    func(ctx context.Context, search string) ([]*model.Ingredient, error)
	createFunc  func(ctx context.Context, ingredient *model.Ingredient) error
	updateFunc  func(ctx context.Context, ingredient *model.Ingredient) error
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockIngredientRepository) GetByID(ctx context.Context, id string) (*model.Ingredient, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockIngredientRepository) List(ctx context.Context, search string) ([]*model.Ingredient, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, search)
	}
	return nil, nil
}
func (m *mockIngredientRepository) Create(ctx context.Context, ingredient *model.Ingredient) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, ingredient)
	}
	return nil
}
func (m *mockIngredientRepository) Update(ctx context.Context, ingredient *model.Ingredient) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, ingredient)
	}
	return nil
}
func (m *mockIngredientRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestIngredientService_List_TrimsSearch(t *testing.T) {
	var gotSearch string
	svc := NewIngredientService(&mockIngredientRepository{
		listFunc: func(_ context.Context, search string) ([]*model.Ingredient, error) {
			gotSearch = search
			return []*model.Ingredient{{ID: "i1"}}, nil
		},
	})

	got, err := svc.List(context.Background(), "  flour ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSearch != "flour" {
		t.Errorf("search = %q, want flour", gotSearch)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 ingredient, got %d", len(got))
	}
}

func TestIngredientService_Create_Success(t *testing.T) {
	var created *model.Ingredient
	svc := NewIngredientService(&mockIngredientRepository{
		createFunc: func(_ context.Context, i *model.Ingredient) error {
			i.ID = "new-id"
			created = i
			return nil
		},
	})

	in := &model.Ingredient{Name: " Flour ", Unit: "g", MeasurementValue: 1000, CurrentPrice: 5}
	if err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil || created.ID != "new-id" {
		t.Fatalf("expected repository Create to be called, got %+v", created)
	}
	if created.Name != "Flour" || !created.IsActive {
		t.Errorf("unexpected created ingredient: %+v", created)
	}
}

func TestIngredientService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   model.Ingredient
	}{
		{"missing name", model.Ingredient{Unit: "g", MeasurementValue: 1}},
		{"missing unit", model.Ingredient{Name: "x", MeasurementValue: 1}},
		{"zero measurement", model.Ingredient{Name: "x", Unit: "g"}},
		{"negative price", model.Ingredient{Name: "x", Unit: "g", MeasurementValue: 1, CurrentPrice: -1}},
		{"negative stock", model.Ingredient{Name: "x", Unit: "g", MeasurementValue: 1, CurrentStock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIngredientService(&mockIngredientRepository{
				createFunc: func(_ context.Context, _ *model.Ingredient) error {
					t.Error("Create must not be called")
					return nil
				},
			})
			in := tt.in
			if err := svc.Create(context.Background(), &in); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestIngredientService_Update_AppliesPatch(t *testing.T) {
	existing := &model.Ingredient{ID: "i1", Name: "Flour", Unit: "g", MeasurementValue: 1000, CurrentPrice: 5, IsActive: true}
	svc := NewIngredientService(&mockIngredientRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Ingredient, error) {
			if id == "i1" {
				return existing, nil
			}
			return nil, repository.ErrNotFound
		},
	})

	price := 6.5
	got, err := svc.Update(context.Background(), "i1", model.IngredientPatch{CurrentPrice: &price})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CurrentPrice != 6.5 || got.Name != "Flour" {
		t.Errorf("unexpected ingredient: %+v", got)
	}
}

func TestIngredientService_Update_NotFound(t *testing.T) {
	svc := NewIngredientService(&mockIngredientRepository{})

	_, err := svc.Update(context.Background(), "no-such", model.IngredientPatch{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIngredientService_Update_InvalidPatch(t *testing.T) {
	svc := NewIngredientService(&mockIngredientRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Ingredient, error) {
			return &model.Ingredient{ID: id, Name: "Flour", Unit: "g", MeasurementValue: 1000}, nil
		},
		updateFunc: func(_ context.Context, _ *model.Ingredient) error {
			t.Error("Update must not be called")
			return nil
		},
	})

	zero := 0.0
	_, err := svc.Update(context.Background(), "i1", model.IngredientPatch{MeasurementValue: &zero})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestIngredientService_Delete(t *testing.T) {
	var deletedID string
	svc := NewIngredientService(&mockIngredientRepository{
		deleteFunc: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	})

	if err := svc.Delete(context.Background(), "i1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedID != "i1" {
		t.Errorf("expected Delete called with i1, got %q", deletedID)
	}
}
