package costing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 8
	defaultMaxDepth    = 32
)

// Options tunes an Engine. Zero values select the defaults.
type Options struct {
	// Concurrency bounds the sibling items resolved in parallel per recipe.
	Concurrency int
	// MaxDepth bounds sub-recipe nesting independently of cycle detection.
	MaxDepth int
	// Now stamps CalculatedAt. Defaults to time.Now.
	Now func() time.Time
}

// Engine computes CostBreakdowns. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	recipes     RecipeLookup
	ingredients IngredientLookup
	settings    SettingsProvider
	opts        Options
}

// NewEngine wires an Engine to its lookups.
func NewEngine(recipes RecipeLookup, ingredients IngredientLookup, settings SettingsProvider, opts Options) *Engine {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{recipes: recipes, ingredients: ingredients, settings: settings, opts: opts}
}

// path is the chain of recipe ids on the active descent. It is immutable:
// push returns a new node, so siblings never observe each other's branches.
type path struct {
	id     string
	parent *path
	depth  int
}

func (p *path) push(id string) *path {
	return &path{id: id, parent: p, depth: p.depth + 1}
}

func (p *path) contains(id string) bool {
	for n := p; n != nil; n = n.parent {
		if n.id == id {
			return true
		}
	}
	return false
}

// Calculate resolves recipeID and returns its cost breakdown with the full
// nested audit trail. Only a missing root recipe (ErrRecipeNotFound), a
// failing root or settings lookup, or context cancellation return an error.
func (e *Engine) Calculate(ctx context.Context, recipeID string) (*model.CostBreakdown, error) {
	start := time.Now()
	b, err := e.calculate(ctx, recipeID)
	calculationDuration.Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		calculationsTotal.WithLabelValues("ok").Inc()
		slog.Info("recipe costs calculated",
			"recipe_id", recipeID,
			"total_cost", b.TotalCost,
			"ingredient_cost", b.IngredientCost,
			"sub_recipe_cost", b.SubRecipeCost,
			"labor_cost", b.LaborCost,
			"cost_per_serving", b.CostPerServing,
			"suggested_price", b.SuggestedPrice,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	case errors.Is(err, ErrRecipeNotFound):
		calculationsTotal.WithLabelValues("not_found").Inc()
	default:
		calculationsTotal.WithLabelValues("error").Inc()
	}
	return b, err
}

func (e *Engine) calculate(ctx context.Context, recipeID string) (*model.CostBreakdown, error) {
	recipe, err := e.recipes.GetRecipe(ctx, recipeID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && recipe == nil) {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe %s: %w", recipeID, err)
	}

	settings, err := e.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recipe settings: %w", err)
	}
	if settings == nil {
		settings = model.DefaultRecipeSettings()
	}

	return e.breakdown(ctx, recipe, settings, &path{id: recipe.ID})
}

// breakdown costs one recipe node. Sibling items are resolved concurrently
// and summed in item order so the floating point result is deterministic.
func (e *Engine) breakdown(ctx context.Context, recipe *model.Recipe, settings *model.RecipeSettings, visiting *path) (*model.CostBreakdown, error) {
	itemCosts := make([]model.ItemCost, len(recipe.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)
	for i, item := range recipe.Items {
		g.Go(func() error {
			ic, err := e.itemCost(gctx, recipe, item, settings, visiting)
			if err != nil {
				return err
			}
			itemCosts[i] = ic
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &model.CostBreakdown{
		RecipeID:        recipe.ID,
		RecipeName:      recipe.Name,
		Category:        recipe.Category,
		Servings:        recipe.Servings,
		GeneratedAmount: recipe.GeneratedAmount,
		GeneratedUnit:   recipe.GeneratedUnit,
		ItemCosts:       itemCosts,
		CalculatedAt:    e.opts.Now(),
	}
	for _, ic := range itemCosts {
		switch ic.Type {
		case model.ItemTypeIngredient:
			b.IngredientCost += ic.Cost
		case model.ItemTypeRecipe:
			b.SubRecipeCost += ic.Cost
		}
	}
	b.TotalItemCost = b.IngredientCost + b.SubRecipeCost
	b.LaborCost = settings.LaborCost(recipe.PreparationTimeMinutes)
	b.TotalCost = b.TotalItemCost + b.LaborCost

	b.CostPerServing = b.TotalCost / float64(max(recipe.Servings, 1))
	b.Margin = settings.MarginFor(recipe.Category)
	b.SuggestedPrice = b.CostPerServing * (1 + b.Margin/100)
	b.ProfitAmount = b.SuggestedPrice - b.CostPerServing
	if b.CostPerServing > 0 {
		b.ProfitPercentage = b.ProfitAmount / b.CostPerServing * 100
	}
	return b, nil
}

func (e *Engine) itemCost(ctx context.Context, parent *model.Recipe, item model.RecipeItem, settings *model.RecipeSettings, visiting *path) (model.ItemCost, error) {
	ic := model.ItemCost{
		ItemID:   item.ID,
		Type:     item.Type,
		Name:     item.DisplayName(),
		Quantity: item.Quantity,
		Unit:     item.Unit,
	}

	switch item.Type {
	case model.ItemTypeIngredient:
		if item.Ingredient == nil || item.Ingredient.IngredientID == "" {
			return degrade(parent, ic, model.IssueMissingReference), nil
		}
		ic.RefID = item.Ingredient.IngredientID

		ing, ok, err := findIngredient(ctx, e.ingredients, ic.RefID)
		if err != nil {
			return ic, err
		}
		if !ok {
			return degrade(parent, ic, model.IssueIngredientNotFound), nil
		}
		if ic.Name == "" {
			ic.Name = ing.Name
		}
		ic.UnitCost = ing.UnitPrice()
		ic.Cost = item.Quantity * ic.UnitCost
		return ic, nil

	case model.ItemTypeRecipe:
		if item.SubRecipe == nil || item.SubRecipe.SubRecipeID == "" {
			return degrade(parent, ic, model.IssueMissingReference), nil
		}
		subID := item.SubRecipe.SubRecipeID
		ic.RefID = subID

		if visiting.contains(subID) {
			return degrade(parent, ic, model.IssueCircularReference), nil
		}
		if visiting.depth+1 > e.opts.MaxDepth {
			return degrade(parent, ic, model.IssueMaxDepthExceeded), nil
		}

		sub, ok, err := findRecipe(ctx, e.recipes, subID)
		if err != nil {
			return ic, err
		}
		if !ok {
			return degrade(parent, ic, model.IssueRecipeNotFound), nil
		}
		if ic.Name == "" {
			ic.Name = sub.Name
		}

		subBreakdown, err := e.breakdown(ctx, sub, settings, visiting.push(subID))
		if err != nil {
			return ic, err
		}
		ic.SubRecipeBreakdown = subBreakdown

		proportion := 0.0
		if sub.GeneratedAmount <= 0 {
			ic.ProportionUsed = &proportion
			return degrade(parent, ic, model.IssueZeroYield), nil
		}
		proportion = item.Quantity / sub.GeneratedAmount
		ic.ProportionUsed = &proportion
		ic.UnitCost = subBreakdown.TotalCost / sub.GeneratedAmount
		ic.Cost = item.Quantity * ic.UnitCost
		return ic, nil
	}

	return degrade(parent, ic, model.IssueMissingReference), nil
}

// degrade zeroes an item that could not be costed and records why.
func degrade(parent *model.Recipe, ic model.ItemCost, issue model.CostIssue) model.ItemCost {
	ic.UnitCost = 0
	ic.Cost = 0
	ic.Issue = issue
	degradedItemsTotal.WithLabelValues(string(issue)).Inc()
	slog.Warn("recipe item costed as zero",
		"recipe_id", parent.ID,
		"item_id", ic.ItemID,
		"ref_id", ic.RefID,
		"reason", string(issue),
	)
	return ic
}
