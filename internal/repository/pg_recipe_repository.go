package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/momentocake/backend/internal/model"
)

const recipeColumns = `id, name, description, category, difficulty, generated_amount, generated_unit,
	servings, preparation_time_minutes, recipe_items, steps, notes, is_active,
	total_cost, cost_per_serving, labor_cost, suggested_price, costs_calculated_at,
	created_at, updated_at`

// PgRecipeRepository は RecipeRepository の PostgreSQL 実装
type PgRecipeRepository struct {
	pool *pgxpool.Pool
}

// NewPgRecipeRepository は PgRecipeRepository を生成する
func NewPgRecipeRepository(pool *pgxpool.Pool) *PgRecipeRepository {
	return &PgRecipeRepository{pool: pool}
}

func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var rec model.Recipe
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Description, &rec.Category, &rec.Difficulty,
		&rec.GeneratedAmount, &rec.GeneratedUnit, &rec.Servings, &rec.PreparationTimeMinutes,
		&rec.Items, &rec.Steps, &rec.Notes, &rec.IsActive,
		&rec.TotalCost, &rec.CostPerServing, &rec.LaborCost, &rec.SuggestedPrice, &rec.CostsCalculatedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.ApplyLoadDefaults()
	return &rec, nil
}

// GetByID は ID でレシピを取得する（論理削除済みも含む）
func (r *PgRecipeRepository) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	rec, err := scanRecipe(r.pool.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List は有効なレシピを名前順で返す。category / search が空でなければ絞り込む
func (r *PgRecipeRepository) List(ctx context.Context, filter model.RecipeFilter) ([]*model.Recipe, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recipeColumns+` FROM recipes
		 WHERE is_active
		   AND ($1::text = '' OR category = $1::text)
		   AND ($2::text = '' OR name ILIKE '%' || $2::text || '%' OR description ILIKE '%' || $2::text || '%')
		 ORDER BY name`,
		string(filter.Category), filter.Search,
	)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

// ListAll は論理削除済みを含む全レシピを返す
func (r *PgRecipeRepository) ListAll(ctx context.Context) ([]*model.Recipe, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

func collectRecipes(rows pgx.Rows) ([]*model.Recipe, error) {
	defer rows.Close()
	var recipes []*model.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// ExistsActiveName は同名の有効なレシピが excludeID 以外に存在するか判定する
func (r *PgRecipeRepository) ExistsActiveName(ctx context.Context, name, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM recipes WHERE name = $1 AND is_active AND id != $2)`,
		name, excludeID,
	).Scan(&exists)
	return exists, err
}

// Create はレシピを作成する
func (r *PgRecipeRepository) Create(ctx context.Context, recipe *model.Recipe) error {
	normalizeRecipeDocs(recipe)
	return r.pool.QueryRow(ctx,
		`INSERT INTO recipes (name, description, category, difficulty, generated_amount, generated_unit,
		   servings, preparation_time_minutes, recipe_items, steps, notes, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		recipe.Name, recipe.Description, recipe.Category, recipe.Difficulty,
		recipe.GeneratedAmount, recipe.GeneratedUnit, recipe.Servings, recipe.PreparationTimeMinutes,
		recipe.Items, recipe.Steps, recipe.Notes, recipe.IsActive,
	).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
}

// Update はレシピの定義部分を更新する（原価キャッシュは UpdateCosts で更新する）
func (r *PgRecipeRepository) Update(ctx context.Context, recipe *model.Recipe) error {
	normalizeRecipeDocs(recipe)
	err := r.pool.QueryRow(ctx,
		`UPDATE recipes SET name=$1, description=$2, category=$3, difficulty=$4, generated_amount=$5,
		   generated_unit=$6, servings=$7, preparation_time_minutes=$8, recipe_items=$9, steps=$10,
		   notes=$11, is_active=$12, updated_at=NOW()
		 WHERE id=$13
		 RETURNING updated_at`,
		recipe.Name, recipe.Description, recipe.Category, recipe.Difficulty,
		recipe.GeneratedAmount, recipe.GeneratedUnit, recipe.Servings, recipe.PreparationTimeMinutes,
		recipe.Items, recipe.Steps, recipe.Notes, recipe.IsActive, recipe.ID,
	).Scan(&recipe.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// UpdateCosts は最後に計算した原価をレシピに保存する
func (r *PgRecipeRepository) UpdateCosts(ctx context.Context, id string, costs *model.CostBreakdown) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE recipes SET total_cost=$1, cost_per_serving=$2, labor_cost=$3, suggested_price=$4,
		   costs_calculated_at=$5, updated_at=NOW()
		 WHERE id=$6`,
		costs.TotalCost, costs.CostPerServing, costs.LaborCost, costs.SuggestedPrice, costs.CalculatedAt, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete はレシピを論理削除する（is_active を false に更新）
func (r *PgRecipeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE recipes SET is_active=FALSE, updated_at=NOW() WHERE id=$1 AND is_active`,
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

// normalizeRecipeDocs は JSONB 列に null ではなく空配列を書き込むための補正
func normalizeRecipeDocs(recipe *model.Recipe) {
	if recipe.Items == nil {
		recipe.Items = []model.RecipeItem{}
	}
	if recipe.Steps == nil {
		recipe.Steps = []model.RecipeStep{}
	}
}
