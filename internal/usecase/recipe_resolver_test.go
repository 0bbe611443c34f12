package usecase

import (
	"context"
	"testing"

	"restaurant/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeResolver_Resolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.material("Flour")
	bread := f.food("Bread", "2", map[string]string{m.ID: "0.25"})

	r := NewRecipeResolver(f.store.Foods())

	lines, err := r.Resolve(ctx, bread.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, m.ID, lines[0].MaterialID)
	assert.True(t, lines[0].Quantity.Equal(dec("0.25")))

	//レシピなし
	empty, err := f.store.Foods().Create(ctx, model.Food{ID: uuid.NewString(), Name: "Water", IsActive: true})
	require.NoError(t, err)
	_, err = r.Resolve(ctx, empty.ID)
	assert.Equal(t, "order.recipe_missing", codeOf(t, err))

	_, err = r.Resolve(ctx, uuid.NewString())
	assert.Equal(t, "order.food_not_found", codeOf(t, err))
}
