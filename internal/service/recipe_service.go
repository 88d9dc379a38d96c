package service

import (
	"context"

	"github.com/momentocake/backend/internal/costing"
	"github.com/momentocake/backend/internal/model"
)

// RecipeService はレシピと原価計算のビジネスロジック
type RecipeService interface {
	List(ctx context.Context, filter model.RecipeFilter) ([]*model.Recipe, error)
	Get(ctx context.Context, id string) (*model.Recipe, error)
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id, name string) (*model.Recipe, error)
	CalculateCosts(ctx context.Context, id string) (*model.CostBreakdown, error)
	RecalculateCosts(ctx context.Context, id string) (*model.CostBreakdown, error)
	ExportCostReport(ctx context.Context, id string) (*model.CostReport, error)
	FindCycles(ctx context.Context) ([]costing.CycleEdge, error)
}

// CostCalculator はレシピ原価を計算する（costing.Engine が実装）
type CostCalculator interface {
	Calculate(ctx context.Context, recipeID string) (*model.CostBreakdown, error)
}
