package costing

import (
	"context"
	"slices"

	"github.com/momentocake/backend/internal/model"
)

// FindCycle reports whether using subRecipeID as a component of recipeID
// would close a loop in the recipe graph. When it would, the returned path
// starts and ends with recipeID. Recipes that cannot be resolved during the
// walk are treated as leaves; only context cancellation is returned as an
// error.
func FindCycle(ctx context.Context, recipes RecipeLookup, recipeID, subRecipeID string) ([]string, bool, error) {
	if recipeID == subRecipeID {
		return []string{recipeID, subRecipeID}, true, nil
	}

	visited := make(map[string]bool)
	var walk func(id string, trail []string) ([]string, bool, error)
	walk = func(id string, trail []string) ([]string, bool, error) {
		trail = append(slices.Clip(trail), id)
		if id == recipeID {
			return trail, true, nil
		}
		if visited[id] {
			return nil, false, nil
		}
		visited[id] = true

		r, ok, err := findRecipe(ctx, recipes, id)
		if err != nil || !ok {
			return nil, false, err
		}
		for _, item := range r.Items {
			if item.Type != model.ItemTypeRecipe || item.SubRecipe == nil {
				continue
			}
			found, ok, err := walk(item.SubRecipe.SubRecipeID, trail)
			if err != nil || ok {
				return found, ok, err
			}
		}
		return nil, false, nil
	}

	return walk(subRecipeID, []string{recipeID})
}

// CycleEdge is a sub-recipe reference that closes a loop.
type CycleEdge struct {
	RecipeID    string   `json:"recipe_id"`
	SubRecipeID string   `json:"sub_recipe_id"`
	Path        []string `json:"path"`
}

// FindCycleEdges checks every sub-recipe reference of the given recipes and
// returns the ones that close a loop.
func FindCycleEdges(ctx context.Context, recipes RecipeLookup, all []*model.Recipe) ([]CycleEdge, error) {
	var edges []CycleEdge
	for _, r := range all {
		for _, item := range r.Items {
			if item.Type != model.ItemTypeRecipe || item.SubRecipe == nil {
				continue
			}
			p, ok, err := FindCycle(ctx, recipes, r.ID, item.SubRecipe.SubRecipeID)
			if err != nil {
				return nil, err
			}
			if ok {
				edges = append(edges, CycleEdge{RecipeID: r.ID, SubRecipeID: item.SubRecipe.SubRecipeID, Path: p})
			}
		}
	}
	return edges, nil
}
