package model

import (
	"errors"
	"fmt"
)

// ItemType is the discriminant of a RecipeItem.
type ItemType string

const (
	ItemTypeIngredient ItemType = "ingredient"
	ItemTypeRecipe     ItemType = "recipe"
)

// IngredientRef points a recipe item at an ingredient.
type IngredientRef struct {
	IngredientID string `json:"ingredient_id"`
	Name         string `json:"name,omitempty"` // denormalized for display
}

// SubRecipeRef points a recipe item at another recipe.
type SubRecipeRef struct {
	SubRecipeID string `json:"sub_recipe_id"`
	Name        string `json:"name,omitempty"` // denormalized for display
}

// RecipeItem is one component line of a recipe. Exactly one of Ingredient
// or SubRecipe is set, matching Type.
type RecipeItem struct {
	ID         string         `json:"id"`
	Type       ItemType       `json:"type"`
	Ingredient *IngredientRef `json:"ingredient,omitempty"`
	SubRecipe  *SubRecipeRef  `json:"sub_recipe,omitempty"`

	// Quantity is consumed in the referenced entity's own unit; no
	// conversion is applied.
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Notes     string  `json:"notes,omitempty"`
	SortOrder int     `json:"sort_order"`
}

// NewIngredientItem builds an ingredient line.
func NewIngredientItem(id, ingredientID string, quantity float64, unit string) RecipeItem {
	return RecipeItem{
		ID:         id,
		Type:       ItemTypeIngredient,
		Ingredient: &IngredientRef{IngredientID: ingredientID},
		Quantity:   quantity,
		Unit:       unit,
	}
}

// NewSubRecipeItem builds a sub-recipe line.
func NewSubRecipeItem(id, subRecipeID string, quantity float64, unit string) RecipeItem {
	return RecipeItem{
		ID:        id,
		Type:      ItemTypeRecipe,
		SubRecipe: &SubRecipeRef{SubRecipeID: subRecipeID},
		Quantity:  quantity,
		Unit:      unit,
	}
}

// DisplayName returns the denormalized name of the referenced entity.
func (it RecipeItem) DisplayName() string {
	switch it.Type {
	case ItemTypeIngredient:
		if it.Ingredient != nil {
			return it.Ingredient.Name
		}
	case ItemTypeRecipe:
		if it.SubRecipe != nil {
			return it.SubRecipe.Name
		}
	}
	return ""
}

// ErrInvalidItem is returned by RecipeItem.Validate.
var ErrInvalidItem = errors.New("invalid recipe item")

// Validate checks that the discriminant and the populated reference agree.
func (it RecipeItem) Validate() error {
	if it.Quantity < 0 {
		return fmt.Errorf("%w: negative quantity", ErrInvalidItem)
	}
	switch it.Type {
	case ItemTypeIngredient:
		if it.Ingredient == nil || it.Ingredient.IngredientID == "" {
			return fmt.Errorf("%w: ingredient item without ingredient_id", ErrInvalidItem)
		}
		if it.SubRecipe != nil {
			return fmt.Errorf("%w: ingredient item carries sub_recipe", ErrInvalidItem)
		}
	case ItemTypeRecipe:
		if it.SubRecipe == nil || it.SubRecipe.SubRecipeID == "" {
			return fmt.Errorf("%w: recipe item without sub_recipe_id", ErrInvalidItem)
		}
		if it.Ingredient != nil {
			return fmt.Errorf("%w: recipe item carries ingredient", ErrInvalidItem)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidItem, it.Type)
	}
	return nil
}
