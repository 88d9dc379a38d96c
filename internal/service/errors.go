package service

import "errors"

var (
	// ErrValidation は入力値が不正な場合に返す（メッセージは %w でラップして付与する）
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateName は同名の有効なレシピが既に存在する場合に返す
	ErrDuplicateName = errors.New("recipe name already exists")
	// ErrCircularDependency はサブレシピの追加で循環参照が生じる場合に返す
	ErrCircularDependency = errors.New("circular recipe dependency")
	// ErrInactiveSubRecipe は削除済みのレシピをサブレシピに指定した場合に返す
	ErrInactiveSubRecipe = errors.New("sub-recipe is inactive")
)
