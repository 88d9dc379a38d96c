package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
)

// IngredientService は材料のビジネスロジック
type IngredientService interface {
	List(ctx context.Context, search string) ([]*model.Ingredient, error)
	Get(ctx context.Context, id string) (*model.Ingredient, error)
	Create(ctx context.Context, ingredient *model.Ingredient) error
	Update(ctx context.Context, id string, patch model.IngredientPatch) (*model.Ingredient, error)
	Delete(ctx context.Context, id string) error
}

// IngredientServiceImpl は IngredientService の実装
type IngredientServiceImpl struct {
	repo repository.IngredientRepository
}

// NewIngredientService は IngredientServiceImpl を生成する
func NewIngredientService(repo repository.IngredientRepository) IngredientService {
	return &IngredientServiceImpl{repo: repo}
}

// List は有効な材料一覧を返す
func (s *IngredientServiceImpl) List(ctx context.Context, search string) ([]*model.Ingredient, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get は ID で材料を取得する
func (s *IngredientServiceImpl) Get(ctx context.Context, id string) (*model.Ingredient, error) {
	return s.repo.GetByID(ctx, id)
}

// Create は材料を検証して作成する
func (s *IngredientServiceImpl) Create(ctx context.Context, ingredient *model.Ingredient) error {
	ingredient.Name = strings.TrimSpace(ingredient.Name)
	ingredient.Unit = strings.TrimSpace(ingredient.Unit)
	if err := validateIngredient(ingredient); err != nil {
		return err
	}
	ingredient.IsActive = true
	return s.repo.Create(ctx, ingredient)
}

// Update は指定された項目のみ更新する
func (s *IngredientServiceImpl) Update(ctx context.Context, id string, patch model.IngredientPatch) (*model.Ingredient, error) {
	ingredient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		ingredient.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Unit != nil {
		ingredient.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.MeasurementValue != nil {
		ingredient.MeasurementValue = *patch.MeasurementValue
	}
	if patch.CurrentPrice != nil {
		ingredient.CurrentPrice = *patch.CurrentPrice
	}
	if patch.CurrentStock != nil {
		ingredient.CurrentStock = *patch.CurrentStock
	}
	if patch.MinStock != nil {
		ingredient.MinStock = *patch.MinStock
	}
	if err := validateIngredient(ingredient); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// Delete は材料を論理削除する。既存レシピからの参照は原価計算時に 0 として扱われる
func (s *IngredientServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateIngredient(i *model.Ingredient) error {
	switch {
	case i.Name == "":
		return fmt.Errorf("%w: name is required", ErrValidation)
	case i.Unit == "":
		return fmt.Errorf("%w: unit is required", ErrValidation)
	case i.MeasurementValue <= 0:
		return fmt.Errorf("%w: measurement_value must be greater than 0", ErrValidation)
	case i.CurrentPrice < 0:
		return fmt.Errorf("%w: current_price must not be negative", ErrValidation)
	case i.CurrentStock < 0 || i.MinStock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	return nil
}
