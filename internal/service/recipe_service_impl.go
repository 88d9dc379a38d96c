package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momentocake/backend/internal/costing"
	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
	"github.com/momentocake/backend/internal/storage"
)

// RecipeServiceImpl は RecipeService の実装
type RecipeServiceImpl struct {
	recipeRepo     repository.RecipeRepository
	ingredientRepo repository.IngredientRepository
	calculator     CostCalculator
	reports        storage.Storage
	now            func() time.Time
}

// NewRecipeService は RecipeServiceImpl を生成する（DI: リポジトリ・原価計算・レポート保存先を注入）
func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	ingredientRepo repository.IngredientRepository,
	calculator CostCalculator,
	reports storage.Storage,
) RecipeService {
	return &RecipeServiceImpl{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		calculator:     calculator,
		reports:        reports,
		now:            time.Now,
	}
}

// List は有効なレシピ一覧を返す
func (s *RecipeServiceImpl) List(ctx context.Context, filter model.RecipeFilter) ([]*model.Recipe, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, filter.Category)
	}
	return s.recipeRepo.List(ctx, filter)
}

// Get は ID でレシピを取得する
func (s *RecipeServiceImpl) Get(ctx context.Context, id string) (*model.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, id)
}

// Create はレシピを検証して作成し、原価を計算して保存する。
// 原価計算の失敗は作成自体を失敗させない。
func (s *RecipeServiceImpl) Create(ctx context.Context, recipe *model.Recipe) error {
	recipe.ID = ""
	s.normalize(recipe)
	if err := s.validate(ctx, recipe); err != nil {
		return err
	}
	recipe.IsActive = true
	resetCosts(recipe)
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return err
	}
	s.refreshCosts(ctx, recipe)
	return nil
}

// Update はレシピを検証して更新する。原価に影響する項目が変わった場合は原価を再計算する。
func (s *RecipeServiceImpl) Update(ctx context.Context, recipe *model.Recipe) error {
	existing, err := s.recipeRepo.GetByID(ctx, recipe.ID)
	if err != nil {
		return err
	}
	s.normalize(recipe)
	if err := s.validate(ctx, recipe); err != nil {
		return err
	}

	recipe.IsActive = existing.IsActive
	recipe.CreatedAt = existing.CreatedAt
	recipe.TotalCost = existing.TotalCost
	recipe.CostPerServing = existing.CostPerServing
	recipe.LaborCost = existing.LaborCost
	recipe.SuggestedPrice = existing.SuggestedPrice
	recipe.CostsCalculatedAt = existing.CostsCalculatedAt

	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return err
	}
	if costInputsChanged(existing, recipe) {
		s.refreshCosts(ctx, recipe)
	}
	return nil
}

// Delete はレシピを論理削除する
func (s *RecipeServiceImpl) Delete(ctx context.Context, id string) error {
	return s.recipeRepo.Delete(ctx, id)
}

// Duplicate はレシピを新しい名前で複製する。name が空なら "<元の名前> (copy)" とする
func (s *RecipeServiceImpl) Duplicate(ctx context.Context, id, name string) (*model.Recipe, error) {
	src, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = src.Name + " (copy)"
	}

	dup := *src
	dup.Name = name
	dup.Items = make([]model.RecipeItem, len(src.Items))
	for i, it := range src.Items {
		it.ID = ""
		if it.Ingredient != nil {
			ref := *it.Ingredient
			it.Ingredient = &ref
		}
		if it.SubRecipe != nil {
			ref := *it.SubRecipe
			it.SubRecipe = &ref
		}
		dup.Items[i] = it
	}
	dup.Steps = make([]model.RecipeStep, len(src.Steps))
	for i, st := range src.Steps {
		st.ID = ""
		dup.Steps[i] = st
	}
	if err := s.Create(ctx, &dup); err != nil {
		return nil, err
	}
	return &dup, nil
}

// CalculateCosts はレシピの原価をサブレシピまで再帰的に計算する（保存はしない）
func (s *RecipeServiceImpl) CalculateCosts(ctx context.Context, id string) (*model.CostBreakdown, error) {
	return s.calculator.Calculate(ctx, id)
}

// RecalculateCosts は原価を計算し、レシピに保存する
func (s *RecipeServiceImpl) RecalculateCosts(ctx context.Context, id string) (*model.CostBreakdown, error) {
	costs, err := s.calculator.Calculate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.recipeRepo.UpdateCosts(ctx, id, costs); err != nil {
		return nil, err
	}
	return costs, nil
}

// ExportCostReport は原価を計算し、JSON レポートとして保存する
func (s *RecipeServiceImpl) ExportCostReport(ctx context.Context, id string) (*model.CostReport, error) {
	costs, err := s.calculator.Calculate(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	report := &model.CostReport{
		RecipeID:  id,
		Key:       fmt.Sprintf("%s/%s-%s.json", id, now.Format("20060102T150405Z"), uuid.NewString()[:8]),
		CreatedAt: now,
		Costs:     costs,
	}
	url, err := storage.SaveJSON(ctx, s.reports, report.Key, report)
	if err != nil {
		return nil, fmt.Errorf("save cost report: %w", err)
	}
	report.URL = url
	slog.Info("cost report saved", "recipe_id", id, "key", report.Key)
	return report, nil
}

// FindCycles は保存済みの全レシピ（論理削除済みを含む）から循環参照を検出する。
// 書き込み時の検証をすり抜けたデータ（手動投入など）の点検用
func (s *RecipeServiceImpl) FindCycles(ctx context.Context) ([]costing.CycleEdge, error) {
	all, err := s.recipeRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Recipe, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	lookup := costing.RecipeLookupFunc(func(_ context.Context, id string) (*model.Recipe, error) {
		if r, ok := byID[id]; ok {
			return r, nil
		}
		return nil, repository.ErrNotFound
	})
	edges, err := costing.FindCycleEdges(ctx, lookup, all)
	if err != nil {
		return nil, err
	}
	if len(edges) > 0 {
		slog.Warn("circular recipe references found", "count", len(edges))
	}
	return edges, nil
}

// normalize は入力の空白除去・ID 採番・手順番号の振り直しを行う
func (s *RecipeServiceImpl) normalize(recipe *model.Recipe) {
	recipe.Name = strings.TrimSpace(recipe.Name)
	recipe.GeneratedUnit = strings.TrimSpace(recipe.GeneratedUnit)
	if recipe.GeneratedUnit == "" {
		recipe.GeneratedUnit = "g"
	}
	if recipe.Category == "" {
		recipe.Category = model.CategoryOther
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = model.DifficultyEasy
	}
	for i := range recipe.Items {
		if recipe.Items[i].ID == "" {
			recipe.Items[i].ID = uuid.NewString()
		}
		recipe.Items[i].SortOrder = i
	}
	for i := range recipe.Steps {
		if recipe.Steps[i].ID == "" {
			recipe.Steps[i].ID = uuid.NewString()
		}
		recipe.Steps[i].StepNumber = i + 1
	}
	// 手順がある場合、作業時間は手順の合計
	if len(recipe.Steps) > 0 {
		recipe.PreparationTimeMinutes = model.StepsDuration(recipe.Steps)
	}
}

// validate は入力値・名前の重複・参照先・循環参照を検証し、参照先の名前を埋める
func (s *RecipeServiceImpl) validate(ctx context.Context, recipe *model.Recipe) error {
	switch {
	case recipe.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case !recipe.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrValidation, recipe.Category)
	case recipe.GeneratedAmount <= 0:
		return fmt.Errorf("%w: generated_amount must be greater than 0", ErrValidation)
	case recipe.Servings <= 0:
		return fmt.Errorf("%w: servings must be greater than 0", ErrValidation)
	case recipe.PreparationTimeMinutes < 0:
		return fmt.Errorf("%w: preparation_time_minutes must not be negative", ErrValidation)
	}

	exists, err := s.recipeRepo.ExistsActiveName(ctx, recipe.Name, recipe.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, recipe.Name)
	}

	for i := range recipe.Items {
		item := &recipe.Items[i]
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: item %d: %v", ErrValidation, i+1, err)
		}
		switch item.Type {
		case model.ItemTypeIngredient:
			if err := s.resolveIngredient(ctx, item); err != nil {
				return err
			}
		case model.ItemTypeRecipe:
			if err := s.resolveSubRecipe(ctx, recipe.ID, item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *RecipeServiceImpl) resolveIngredient(ctx context.Context, item *model.RecipeItem) error {
	ing, err := s.ingredientRepo.GetByID(ctx, item.Ingredient.IngredientID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: ingredient %s not found", ErrValidation, item.Ingredient.IngredientID)
	}
	if err != nil {
		return err
	}
	item.Ingredient.Name = ing.Name
	return nil
}

func (s *RecipeServiceImpl) resolveSubRecipe(ctx context.Context, recipeID string, item *model.RecipeItem) error {
	subID := item.SubRecipe.SubRecipeID
	if recipeID != "" && subID == recipeID {
		return fmt.Errorf("%w: recipe cannot contain itself", ErrCircularDependency)
	}
	sub, err := s.recipeRepo.GetByID(ctx, subID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: sub-recipe %s not found", ErrValidation, subID)
	}
	if err != nil {
		return err
	}
	if !sub.IsActive {
		return fmt.Errorf("%w: %s", ErrInactiveSubRecipe, sub.Name)
	}
	item.SubRecipe.Name = sub.Name

	// 新規作成のレシピはまだ誰からも参照されていないため循環し得ない
	if recipeID == "" {
		return nil
	}
	path, cyclic, err := costing.FindCycle(ctx, costing.RecipeLookupFunc(s.recipeRepo.GetByID), recipeID, subID)
	if err != nil {
		return err
	}
	if cyclic {
		return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(path, " -> "))
	}
	return nil
}

// refreshCosts は原価を計算してレシピに保存する。失敗はログに残すのみ
func (s *RecipeServiceImpl) refreshCosts(ctx context.Context, recipe *model.Recipe) {
	costs, err := s.calculator.Calculate(ctx, recipe.ID)
	if err == nil {
		err = s.recipeRepo.UpdateCosts(ctx, recipe.ID, costs)
	}
	if err != nil {
		slog.Warn("recipe cost refresh failed", "recipe_id", recipe.ID, "error", err)
		return
	}
	calculatedAt := costs.CalculatedAt
	recipe.TotalCost = costs.TotalCost
	recipe.CostPerServing = costs.CostPerServing
	recipe.LaborCost = costs.LaborCost
	recipe.SuggestedPrice = costs.SuggestedPrice
	recipe.CostsCalculatedAt = &calculatedAt
}

func resetCosts(recipe *model.Recipe) {
	recipe.TotalCost = 0
	recipe.CostPerServing = 0
	recipe.LaborCost = 0
	recipe.SuggestedPrice = 0
	recipe.CostsCalculatedAt = nil
}

// costInputsChanged は原価計算に影響する項目が変わったかを判定する
func costInputsChanged(before, after *model.Recipe) bool {
	return before.Category != after.Category ||
		before.GeneratedAmount != after.GeneratedAmount ||
		before.Servings != after.Servings ||
		before.PreparationTimeMinutes != after.PreparationTimeMinutes ||
		!reflect.DeepEqual(before.Items, after.Items)
}
