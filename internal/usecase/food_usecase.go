package usecase

import (
	"context"
	"errors"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
	"restaurant/internal/validator"

	"github.com/shopspring/decimal"
)

type FoodUsecase struct {
	foods     repo.FoodRepository
	materials repo.MaterialRepository
	idGen     IDGenerator
	clock     Clock
}

func NewFoodUsecase(foods repo.FoodRepository, materials repo.MaterialRepository, idGen IDGenerator, clock Clock) *FoodUsecase {
	return &FoodUsecase{foods: foods, materials: materials, idGen: idGen, clock: clock}
}

type RecipeItemInput struct {
	MaterialID string          `json:"materialId"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type CreateFoodInput struct {
	Name      string            `json:"name"`
	Price     decimal.Decimal   `json:"price"`
	IsActive  *bool             `json:"isActive"`
	Materials []RecipeItemInput `json:"materials"`
}

// Create はレシピ付きで料理を作る
func (u *FoodUsecase) Create(ctx context.Context, in CreateFoodInput) (model.Food, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Food{}, NewHTTPError(ErrInvalidInput, "food.name_invalid")
	}
	if in.Price.IsNegative() {
		return model.Food{}, NewHTTPError(ErrInvalidInput, "food.price_invalid")
	}
	if len(in.Materials) == 0 {
		return model.Food{}, NewHTTPError(ErrInvalidInput, "food.recipe_empty")
	}

	foodID := u.idGen.NewID()
	seen := map[string]bool{}
	recipe := make([]model.FoodMaterial, 0, len(in.Materials))
	for _, item := range in.Materials {
		if validator.ParseID(item.MaterialID) != nil {
			return model.Food{}, NewHTTPError(ErrInvalidInput, "id.invalid")
		}
		if !item.Quantity.IsPositive() {
			return model.Food{}, NewHTTPError(ErrInvalidInput, "food.recipe_quantity_invalid")
		}
		if seen[item.MaterialID] {
			return model.Food{}, NewHTTPError(ErrInvalidInput, "food.recipe_duplicate")
		}
		seen[item.MaterialID] = true

		if _, err := u.materials.FindByID(ctx, item.MaterialID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return model.Food{}, NewHTTPError(ErrNotFound, "inventory.material_not_found", item.MaterialID)
			}
			return model.Food{}, dbError(err)
		}
		recipe = append(recipe, model.FoodMaterial{FoodID: foodID, MaterialID: item.MaterialID, Quantity: item.Quantity})
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := u.clock.Now()

	created, err := u.foods.Create(ctx, model.Food{
		ID:        foodID,
		Name:      name,
		Price:     in.Price,
		IsActive:  active,
		Recipe:    recipe,
		CreatedAt: now,
		UpdatedAt: now,
	})
	switch {
	case errors.Is(err, repo.ErrConflict):
		return model.Food{}, NewHTTPError(ErrConflict, "food.name_taken", name)
	case errors.Is(err, repo.ErrReferenced):
		return model.Food{}, NewHTTPError(ErrInvalidInput, "food.recipe_material_invalid")
	case err != nil:
		return model.Food{}, dbError(err)
	}
	return created, nil
}

type FoodListQuery struct {
	Page       int
	Limit      int
	Q          string
	ActiveOnly bool
}

type FoodListOutput struct {
	Items     []model.Food `json:"items"`
	Total     int64        `json:"total"`
	PageCount int64        `json:"pageCount"`
}

func (u *FoodUsecase) List(ctx context.Context, q FoodListQuery) (FoodListOutput, error) {
	if q.Page < 0 {
		return FoodListOutput{}, NewHTTPError(ErrInvalidInput, "page.invalid")
	}
	if q.Limit < 0 || q.Limit > 100 {
		return FoodListOutput{}, NewHTTPError(ErrInvalidInput, "limit.invalid")
	}
	if len(q.Q) > 100 {
		return FoodListOutput{}, NewHTTPError(ErrInvalidInput, "query.invalid")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}

	items, total, err := u.foods.List(ctx, repo.FoodListQuery{
		Page:       q.Page,
		Limit:      q.Limit,
		Q:          q.Q,
		ActiveOnly: q.ActiveOnly,
	})
	if err != nil {
		return FoodListOutput{}, dbError(err)
	}
	return FoodListOutput{Items: items, Total: total, PageCount: pageCount(total, q.Limit)}, nil
}

func (u *FoodUsecase) Get(ctx context.Context, foodID string) (model.Food, error) {
	if validator.ParseID(foodID) != nil {
		return model.Food{}, NewHTTPError(ErrInvalidInput, "id.invalid")
	}
	f, err := u.foods.FindByID(ctx, foodID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Food{}, NewHTTPError(ErrNotFound, "food.not_found")
	}
	if err != nil {
		return model.Food{}, dbError(err)
	}
	return f, nil
}
