package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/momentocake/backend/internal/model"
	"github.com/momentocake/backend/internal/repository"
)

// RecipeSettingsService は原価計算設定（時給・利益率）のビジネスロジック。
// costing.SettingsProvider としてエンジンにも渡される。
type RecipeSettingsService interface {
	GetSettings(ctx context.Context) (*model.RecipeSettings, error)
	Update(ctx context.Context, patch model.RecipeSettingsPatch) (*model.RecipeSettings, error)
}

// RecipeSettingsServiceImpl は RecipeSettingsService の実装
type RecipeSettingsServiceImpl struct {
	repo repository.RecipeSettingsRepository
}

// NewRecipeSettingsService は RecipeSettingsServiceImpl を生成する
func NewRecipeSettingsService(repo repository.RecipeSettingsRepository) RecipeSettingsService {
	return &RecipeSettingsServiceImpl{repo: repo}
}

// GetSettings は保存済みの設定を返す。未保存の場合はデフォルト設定を返す。
func (s *RecipeSettingsServiceImpl) GetSettings(ctx context.Context) (*model.RecipeSettings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return model.DefaultRecipeSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Update は指定された項目のみ更新して保存する
func (s *RecipeSettingsServiceImpl) Update(ctx context.Context, patch model.RecipeSettingsPatch) (*model.RecipeSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if patch.LaborHourRate != nil {
		if *patch.LaborHourRate < 0 {
			return nil, fmt.Errorf("%w: labor_hour_rate must not be negative", ErrValidation)
		}
		settings.LaborHourRate = *patch.LaborHourRate
	}
	if patch.DefaultMargin != nil {
		if *patch.DefaultMargin < 0 {
			return nil, fmt.Errorf("%w: default_margin must not be negative", ErrValidation)
		}
		settings.DefaultMargin = *patch.DefaultMargin
	}
	if len(patch.MarginsByCategory) > 0 {
		merged := make(map[model.RecipeCategory]float64, len(settings.MarginsByCategory)+len(patch.MarginsByCategory))
		for c, m := range settings.MarginsByCategory {
			merged[c] = m
		}
		for c, m := range patch.MarginsByCategory {
			if !c.Valid() {
				return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, c)
			}
			if m < 0 {
				return nil, fmt.Errorf("%w: margin for %s must not be negative", ErrValidation, c)
			}
			merged[c] = m
		}
		settings.MarginsByCategory = merged
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
