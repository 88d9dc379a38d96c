package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/momentocake/backend/internal/model"
)

// PgRecipeSettingsRepository は RecipeSettingsRepository の PostgreSQL 実装
type PgRecipeSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPgRecipeSettingsRepository は PgRecipeSettingsRepository を生成する
func NewPgRecipeSettingsRepository(pool *pgxpool.Pool) *PgRecipeSettingsRepository {
	return &PgRecipeSettingsRepository{pool: pool}
}

// Get は保存済みの設定を返す。未保存なら ErrNotFound
func (r *PgRecipeSettingsRepository) Get(ctx context.Context) (*model.RecipeSettings, error) {
	var s model.RecipeSettings
	err := r.pool.QueryRow(ctx,
		`SELECT id, labor_hour_rate, default_margin, margins_by_category, updated_at
		 FROM recipe_settings ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&s.ID, &s.LaborHourRate, &s.DefaultMargin, &s.MarginsByCategory, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.MarginsByCategory == nil {
		s.MarginsByCategory = map[model.RecipeCategory]float64{}
	}
	return &s, nil
}

// Save は設定を保存する。ID が未保存（空または default）の場合は新規作成する
func (r *PgRecipeSettingsRepository) Save(ctx context.Context, settings *model.RecipeSettings) error {
	if settings.MarginsByCategory == nil {
		settings.MarginsByCategory = map[model.RecipeCategory]float64{}
	}
	if settings.ID == "" || settings.ID == model.DefaultSettingsID {
		return r.pool.QueryRow(ctx,
			`INSERT INTO recipe_settings (labor_hour_rate, default_margin, margins_by_category)
			 VALUES ($1, $2, $3)
			 RETURNING id, updated_at`,
			settings.LaborHourRate, settings.DefaultMargin, settings.MarginsByCategory,
		).Scan(&settings.ID, &settings.UpdatedAt)
	}
	err := r.pool.QueryRow(ctx,
		`UPDATE recipe_settings SET labor_hour_rate=$1, default_margin=$2, margins_by_category=$3, updated_at=NOW()
		 WHERE id=$4
		 RETURNING updated_at`,
		settings.LaborHourRate, settings.DefaultMargin, settings.MarginsByCategory, settings.ID,
	).Scan(&settings.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
