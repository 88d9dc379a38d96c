// Package costing computes recipe costs bottom-up through the graph of
// recipes and sub-recipes.
package costing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
)

// RecipeLookup resolves a recipe by id. A missing recipe is reported with
// an error wrapping repository.ErrNotFound (or a nil recipe).
type RecipeLookup interface {
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
}

// IngredientLookup resolves an ingredient by id, with the same not-found
// contract as RecipeLookup.
type IngredientLookup interface {
	GetIngredient(ctx context.Context, id string) (*model.Ingredient, error)
}

// SettingsProvider returns the pricing settings in effect.
type SettingsProvider interface {
	GetSettings(ctx context.Context) (*model.RecipeSettings, error)
}

// ErrRecipeNotFound is returned by Engine.Calculate when the requested
// recipe does not exist. Missing entities deeper in the tree never surface
// as errors.
var ErrRecipeNotFound = errors.New("recipe not found")

// findIngredient resolves a nested ingredient reference. Any lookup failure
// other than context cancellation is reported as ok == false.
func findIngredient(ctx context.Context, l IngredientLookup, id string) (ing *model.Ingredient, ok bool, err error) {
	ing, lerr := l.GetIngredient(ctx, id)
	if cerr := ctx.Err(); cerr != nil {
		return nil, false, cerr
	}
	if lerr != nil {
		if !errors.Is(lerr, repository.ErrNotFound) {
			slog.Warn("ingredient lookup failed", "ingredient_id", id, "error", lerr)
		}
		return nil, false, nil
	}
	return ing, ing != nil, nil
}

// findRecipe resolves a nested recipe reference, see findIngredient.
func findRecipe(ctx context.Context, l RecipeLookup, id string) (r *model.Recipe, ok bool, err error) {
	r, lerr := l.GetRecipe(ctx, id)
	if cerr := ctx.Err(); cerr != nil {
		return nil, false, cerr
	}
	if lerr != nil {
		if !errors.Is(lerr, repository.ErrNotFound) {
			slog.Warn("recipe lookup failed", "recipe_id", id, "error", lerr)
		}
		return nil, false, nil
	}
	return r, r != nil, nil
}

// RecipeLookupFunc adapts a function (such as a repository's GetByID) to
// RecipeLookup.
type RecipeLookupFunc func(ctx context.Context, id string) (*model.Recipe, error)

// GetRecipe calls f(ctx, id).
func (f RecipeLookupFunc) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	return f(ctx, id)
}

// IngredientLookupFunc adapts a function to IngredientLookup.
type IngredientLookupFunc func(ctx context.Context, id string) (*model.Ingredient, error)

// GetIngredient calls f(ctx, id).
func (f IngredientLookupFunc) GetIngredient(ctx context.Context, id string) (*model.Ingredient, error) {
	return f(ctx, id)
}

// SettingsProviderFunc adapts a function to SettingsProvider.
type SettingsProviderFunc func(ctx context.Context) (*model.RecipeSettings, error)

// GetSettings calls f(ctx).
func (f SettingsProviderFunc) GetSettings(ctx context.Context) (*model.RecipeSettings, error) {
	return f(ctx)
}
