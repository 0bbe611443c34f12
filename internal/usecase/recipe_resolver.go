package usecase

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

// レシピの1行（料理1個あたりの材料）
type RecipeLine struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// RecipeResolver は料理IDからレシピを引く。読むだけ
type RecipeResolver struct {
	foods repo.FoodRepository
}

func NewRecipeResolver(foods repo.FoodRepository) *RecipeResolver {
	return &RecipeResolver{foods: foods}
}

// Food は注文できる料理を返す。ない・停止中・レシピなしは NotFound
func (r *RecipeResolver) Food(ctx context.Context, foodID string) (model.Food, error) {
	f, err := r.foods.FindByID(ctx, foodID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Food{}, NewHTTPError(ErrNotFound, "order.food_not_found", foodID)
	}
	if err != nil {
		return model.Food{}, dbError(err)
	}
	if !f.IsActive {
		return model.Food{}, NewHTTPError(ErrNotFound, "order.food_not_found", foodID)
	}
	if len(f.Recipe) == 0 {
		return model.Food{}, NewHTTPError(ErrNotFound, "order.recipe_missing", f.Name)
	}
	return f, nil
}

func (r *RecipeResolver) Resolve(ctx context.Context, foodID string) ([]RecipeLine, error) {
	f, err := r.Food(ctx, foodID)
	if err != nil {
		return nil, err
	}
	return recipeLines(f), nil
}

func recipeLines(f model.Food) []RecipeLine {
	lines := make([]RecipeLine, 0, len(f.Recipe))
	for _, fm := range f.Recipe {
		lines = append(lines, RecipeLine{MaterialID: fm.MaterialID, Quantity: fm.Quantity})
	}
	return lines
}
