package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialUsecase_CreateRenameDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.materials.Create(ctx, CreateMaterialInput{Name: "  Brown Sugar ", Unit: "KG"})
	require.NoError(t, err)
	assert.Equal(t, "brown sugar", m.Name)
	assert.Equal(t, "Brown Sugar", m.DisplayName)
	assert.Equal(t, "kg", m.Unit)

	_, err = f.materials.Create(ctx, CreateMaterialInput{Name: "brown sugar", Unit: "kg"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = f.materials.Create(ctx, CreateMaterialInput{Name: "Salt", Unit: "cup"})
	assert.Equal(t, "material.unit_invalid", codeOf(t, err))
	neg := dec("-1")
	_, err = f.materials.Create(ctx, CreateMaterialInput{Name: "Salt", Unit: "g", LowStockThreshold: &neg})
	assert.Equal(t, "inventory.threshold_invalid", codeOf(t, err))

	renamed, err := f.materials.Rename(ctx, m.ID, "Cane Sugar")
	require.NoError(t, err)
	assert.Equal(t, "cane sugar", renamed.Name)

	//台帳で使われていると消せない
	f.restock("cane sugar", "1")
	err = f.materials.Delete(ctx, m.ID)
	assert.Equal(t, "material.in_use", codeOf(t, err))

	salt := f.material("Salt")
	require.NoError(t, f.materials.Delete(ctx, salt.ID))
	err = f.materials.Delete(ctx, salt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFoodUsecase_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material("Flour")

	cases := []struct {
		name string
		in   CreateFoodInput
		code string
	}{
		{"no name", CreateFoodInput{Price: dec("1"), Materials: []RecipeItemInput{{MaterialID: m.ID, Quantity: dec("1")}}}, "food.name_invalid"},
		{"negative price", CreateFoodInput{Name: "X", Price: dec("-1"), Materials: []RecipeItemInput{{MaterialID: m.ID, Quantity: dec("1")}}}, "food.price_invalid"},
		{"no recipe", CreateFoodInput{Name: "X", Price: dec("1")}, "food.recipe_empty"},
		{"zero quantity", CreateFoodInput{Name: "X", Price: dec("1"), Materials: []RecipeItemInput{{MaterialID: m.ID}}}, "food.recipe_quantity_invalid"},
		{"duplicate", CreateFoodInput{Name: "X", Price: dec("1"), Materials: []RecipeItemInput{
			{MaterialID: m.ID, Quantity: dec("1")}, {MaterialID: m.ID, Quantity: dec("2")},
		}}, "food.recipe_duplicate"},
		{"unknown material", CreateFoodInput{Name: "X", Price: dec("1"), Materials: []RecipeItemInput{{MaterialID: uuid.NewString(), Quantity: dec("1")}}}, "inventory.material_not_found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.foods.Create(ctx, tc.in)
			assert.Equal(t, tc.code, codeOf(t, err))
		})
	}
}

func TestFoodUsecase_ListAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material("Flour")

	bread := f.food("Bread", "2", map[string]string{m.ID: "0.5"})
	f.food("Baguette", "3", map[string]string{m.ID: "0.7"})
	f.food("Cake", "5", map[string]string{m.ID: "0.3"})

	got, err := f.foods.Get(ctx, bread.ID)
	require.NoError(t, err)
	require.Len(t, got.Recipe, 1)
	assert.True(t, got.Recipe[0].Quantity.Equal(dec("0.5")))

	out, err := f.foods.List(ctx, FoodListQuery{Q: "ba"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)

	out, err = f.foods.List(ctx, FoodListQuery{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.Total)
	assert.EqualValues(t, 2, out.PageCount)

	_, err = f.foods.Get(ctx, uuid.NewString())
	assert.Equal(t, "food.not_found", codeOf(t, err))
}

func TestStockAggregator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ten := dec("10")
	milk, err := f.materials.Create(ctx, CreateMaterialInput{Name: "Milk", Unit: "l", LowStockThreshold: &ten})
	require.NoError(t, err)
	flour := f.material("Flour")
	f.restock("milk", "4")
	f.restock("flour", "50")

	all, err := f.stock.StockAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, flour.ID, all[0].Material.ID)
	assert.True(t, all[1].Stock.Equal(dec("4")))

	//材料ごとのしきい値（Flourはしきい値なし）
	low, err := f.stock.LowStock(ctx, nil)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, milk.ID, low[0].Material.ID)

	limit := dec("100")
	low, err = f.stock.LowStock(ctx, &limit)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	neg := dec("-1")
	_, err = f.stock.LowStock(ctx, &neg)
	assert.Equal(t, "inventory.threshold_invalid", codeOf(t, err))

	_, err = f.stock.StockOf(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
