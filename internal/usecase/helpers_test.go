package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/infra/memory"
	repo "restaurant/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type uuidGen struct{}

func (uuidGen) NewID() string { return uuid.NewString() }

// 進められる時計
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// memoryドライバで組み立てた一式
type fixture struct {
	t         *testing.T
	store     *memory.Store
	clock     *testClock
	orders    *OrderUsecase
	inventory *InventoryUsecase
	stock     *StockAggregator
	materials *MaterialUsecase
	foods     *FoodUsecase
	userID    string
	adminID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	t.Cleanup(func() { _ = s.Close() })

	clock := newTestClock()
	ids := uuidGen{}
	log := zap.NewNop()

	f := &fixture{t: t, store: s, clock: clock}
	f.stock = NewStockAggregator(s.Stock(), s.Materials())
	f.orders = NewOrderUsecase(s.TxManager(), s.Users(), s.Orders(), s.Ledger(), ids, clock, log).
		WithRetryPolicy(RetryPolicy{Attempts: 3, Backoff: time.Millisecond})
	f.inventory = NewInventoryUsecase(s.TxManager(), s.Ledger(), ids, clock, log)
	f.materials = NewMaterialUsecase(s.Materials(), f.stock, ids, clock)
	f.foods = NewFoodUsecase(s.Foods(), s.Materials(), ids, clock)

	f.userID = f.user(model.RoleUser, "user@example.com")
	f.adminID = f.user(model.RoleAdmin, "admin@example.com")
	return f
}

func (f *fixture) user(role model.Role, email string) string {
	f.t.Helper()
	u := &model.User{ID: uuid.NewString(), Email: email, Role: role, IsActive: true}
	require.NoError(f.t, f.store.Users().Create(context.Background(), u))
	return u.ID
}

func (f *fixture) material(name string) model.Material {
	f.t.Helper()
	m, err := f.materials.Create(context.Background(), CreateMaterialInput{Name: name, Unit: "kg"})
	require.NoError(f.t, err)
	return m
}

func (f *fixture) restock(name string, qty string) {
	f.t.Helper()
	_, err := f.inventory.AddEntry(context.Background(), f.adminID, AddEntryInput{
		Name: name, Quantity: dec(qty), Message: "Initial stock",
	})
	require.NoError(f.t, err)
}

// recipeは材料ID→1個あたりの量
func (f *fixture) food(name string, price string, recipe map[string]string) model.Food {
	f.t.Helper()
	in := CreateFoodInput{Name: name, Price: dec(price)}
	for id, qty := range recipe {
		in.Materials = append(in.Materials, RecipeItemInput{MaterialID: id, Quantity: dec(qty)})
	}
	food, err := f.foods.Create(context.Background(), in)
	require.NoError(f.t, err)
	return food
}

func (f *fixture) stockOf(materialID string) decimal.Decimal {
	f.t.Helper()
	ms, err := f.stock.StockOf(context.Background(), materialID)
	require.NoError(f.t, err)
	return ms.Stock
}

func (f *fixture) ledgerSize() int64 {
	f.t.Helper()
	_, total, err := f.store.Ledger().List(context.Background(), repo.LedgerFilter{Page: 1, Limit: 1})
	require.NoError(f.t, err)
	return total
}

func (f *fixture) taggedEntries(orderID string) int64 {
	f.t.Helper()
	_, total, err := f.store.Ledger().List(context.Background(), repo.LedgerFilter{Message: orderID, Page: 1, Limit: 100})
	require.NoError(f.t, err)
	return total
}

func (f *fixture) orderCount() int64 {
	f.t.Helper()
	_, total, err := f.store.Orders().List(context.Background(), repo.OrderListFilter{Page: 1, Limit: 1})
	require.NoError(f.t, err)
	return total
}

func (f *fixture) order(foodID string, qty int64) PlaceOrderInput {
	return PlaceOrderInput{
		CostumerID:      f.userID,
		OrderedProducts: []OrderLineInput{{FoodID: foodID, Quantity: qty}},
	}
}
