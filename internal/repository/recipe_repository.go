package repository

import (
	"context"

	"github.com/momentocake/backend/internal/model"
)

// RecipeRepository はレシピ永続化のインターフェース
type RecipeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	List(ctx context.Context, filter model.RecipeFilter) ([]*model.Recipe, error)
	ListAll(ctx context.Context) ([]*model.Recipe, error)
	ExistsActiveName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	UpdateCosts(ctx context.Context, id string, costs *model.CostBreakdown) error
	Delete(ctx context.Context, id string) error
}
