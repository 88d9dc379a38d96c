package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/momentocake/backend/internal/model"
)

// PgIngredientRepository は IngredientRepository の PostgreSQL 実装
type PgIngredientRepository struct {
	pool *pgxpool.Pool
}

// NewPgIngredientRepository は PgIngredientRepository を生成する
func NewPgIngredientRepository(pool *pgxpool.Pool) *PgIngredientRepository {
	return &PgIngredientRepository{pool: pool}
}

// GetByID は ID で材料を取得する
func (r *PgIngredientRepository) GetByID(ctx context.Context, id string) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, unit, measurement_value, current_price, current_stock, min_stock, is_active, created_at, updated_at
		 FROM ingredients WHERE id = $1`,
		id,
	).Scan(&i.ID, &i.Name, &i.Unit, &i.MeasurementValue, &i.CurrentPrice, &i.CurrentStock, &i.MinStock, &i.IsActive, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// List は有効な材料を名前順で返す
func (r *PgIngredientRepository) List(ctx context.Context, search string) ([]*model.Ingredient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, unit, measurement_value, current_price, current_stock, min_stock, is_active, created_at, updated_at
		 FROM ingredients
		 WHERE is_active AND ($1::text = '' OR name ILIKE '%' || $1::text || '%')
		 ORDER BY name`,
		search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []*model.Ingredient
	for rows.Next() {
		var i model.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Unit, &i.MeasurementValue, &i.CurrentPrice, &i.CurrentStock, &i.MinStock, &i.IsActive, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, &i)
	}
	return ingredients, rows.Err()
}

// Create は材料を作成する
func (r *PgIngredientRepository) Create(ctx context.Context, ingredient *model.Ingredient) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO ingredients (name, unit, measurement_value, current_price, current_stock, min_stock, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		ingredient.Name, ingredient.Unit, ingredient.MeasurementValue, ingredient.CurrentPrice,
		ingredient.CurrentStock, ingredient.MinStock, ingredient.IsActive,
	).Scan(&ingredient.ID, &ingredient.CreatedAt, &ingredient.UpdatedAt)
}

// Update は材料を更新する
func (r *PgIngredientRepository) Update(ctx context.Context, ingredient *model.Ingredient) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ingredients SET name=$1, unit=$2, measurement_value=$3, current_price=$4,
		   current_stock=$5, min_stock=$6, updated_at=NOW()
		 WHERE id=$7`,
		ingredient.Name, ingredient.Unit, ingredient.MeasurementValue, ingredient.CurrentPrice,
		ingredient.CurrentStock, ingredient.MinStock, ingredient.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete は材料を論理削除する
func (r *PgIngredientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ingredients SET is_active=FALSE, updated_at=NOW() WHERE id=$1 AND is_active`,
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
