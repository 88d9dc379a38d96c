package repository

import (
	"context"

	"github.com/momentocake/backend/internal/model"
)

// RecipeSettingsRepository はレシピ原価設定の永続化インターフェース。
// 設定は 1 行のみ保持する。未保存の場合 Get は ErrNotFound を返す。
type RecipeSettingsRepository interface {
	Get(ctx context.Context) (*model.RecipeSettings, error)
	Save(ctx context.Context, settings *model.RecipeSettings) error
}
