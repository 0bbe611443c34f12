package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type FoodListQuery struct {
	Page       int
	Limit      int
	Q          string
	ActiveOnly bool
}

// 料理とレシピの保存先
type FoodRepository interface {
	//レシピごと作成
	Create(ctx context.Context, f model.Food) (model.Food, error)

	//レシピ込みで取得
	FindByID(ctx context.Context, foodID string) (model.Food, error)
	List(ctx context.Context, q FoodListQuery) ([]model.Food, int64, error)
}
