package repository

import (
	"context"

	"github.com/momentocake/backend/internal/model"
)

// IngredientRepository は材料永続化のインターフェース
type IngredientRepository interface {
	GetByID(ctx context.Context, id string) (*model.Ingredient, error)
	List(ctx context.Context, search string) ([]*model.Ingredient, error)
	Create(ctx context.Context, ingredient *model.Ingredient) error
	Update(ctx context.Context, ingredient *model.Ingredient) error
	Delete(ctx context.Context, id string) error
}
