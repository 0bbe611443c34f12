package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedMaterial(t *testing.T, s *Store, id, name string) model.Material {
	t.Helper()
	m, err := s.Materials().Create(context.Background(), model.Material{
		ID: id, Name: model.CanonicalMaterialName(name), DisplayName: name, Unit: "kg",
	})
	require.NoError(t, err)
	return m
}

func entry(id, materialID string, qty int64, msg string) model.StockEntry {
	return model.StockEntry{
		ID: id, MaterialID: materialID, Quantity: decimal.NewFromInt(qty),
		Message: msg, CreatedAt: time.Now(),
	}
}

func TestLedger_AppendAndAggregate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedMaterial(t, s, "m1", "Flour")
	seedMaterial(t, s, "m2", "Milk")

	_, err := s.Ledger().Append(ctx, entry("e1", "m1", 100, "delivery"))
	require.NoError(t, err)
	_, err = s.Ledger().Append(ctx, entry("e2", "m1", -30, "order-1"))
	require.NoError(t, err)

	got, err := s.Stock().CurrentStock(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(70)))

	//行がない材料は0
	got, err = s.Stock().CurrentStock(ctx, "m2")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	all, err := s.Stock().CurrentStockAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLedger_AppendUnknownMaterial(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Ledger().Append(context.Background(), entry("e1", "nope", 1, "x"))
	assert.ErrorIs(t, err, repo.ErrReferenced)
}

func TestLedger_DeleteByReasonIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedMaterial(t, s, "m1", "Flour")

	for i, e := range []model.StockEntry{
		entry("e1", "m1", 10, "delivery"),
		entry("e2", "m1", -1, "order-1"),
		entry("e3", "m1", -2, "order-1"),
	} {
		_, err := s.Ledger().Append(ctx, e)
		require.NoError(t, err, i)
	}

	n, err := s.Ledger().DeleteByReason(ctx, "order-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = s.Ledger().DeleteByReason(ctx, "order-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	got, err := s.Stock().CurrentStock(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(10)))
}

func TestLedger_ListFiltersAndPaginates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedMaterial(t, s, "m1", "Flour")
	seedMaterial(t, s, "m2", "Milk")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := entry(string(rune('a'+i)), "m1", int64(i+1), "delivery")
		e.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := s.Ledger().Append(ctx, e)
		require.NoError(t, err)
	}
	_, err := s.Ledger().Append(ctx, entry("z", "m2", 7, "delivery"))
	require.NoError(t, err)

	items, total, err := s.Ledger().List(ctx, repo.LedgerFilter{Name: "flo", Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "e", items[0].ID)
	require.NotNil(t, items[0].Material)
	assert.Equal(t, "Flour", items[0].Material.DisplayName)

	minQty := decimal.NewFromInt(3)
	items, total, err = s.Ledger().List(ctx, repo.LedgerFilter{MaterialID: "m1", MinQuantity: &minQty})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 3)

	//% と _ は文字として比べる
	for _, name := range []string{"%", "_"} {
		_, total, err = s.Ledger().List(ctx, repo.LedgerFilter{Name: name})
		require.NoError(t, err)
		assert.EqualValues(t, 0, total, name)
	}
}

func TestOrders_MarkTimeOnlyOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	o, err := s.Orders().Create(ctx, model.Order{ID: "o1", CostumerID: "u1", OrderedTime: time.Now()})
	require.NoError(t, err)
	assert.EqualValues(t, 1, o.OrderNumber)

	ok, err := s.Orders().MarkTime(ctx, "o1", model.OrderFinishedCokingTime, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Orders().MarkTime(ctx, "o1", model.OrderFinishedCokingTime, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Orders().ClearTime(ctx, "o1", model.OrderFinishedCokingTime))
	require.NoError(t, s.Orders().ClearTime(ctx, "o1", model.OrderFinishedCokingTime))

	_, err = s.Orders().MarkTime(ctx, "missing", model.OrderFinishedTime, time.Now())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrders_UnfinishedNeedsBothTimesEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"o1", "o2", "o3"} {
		_, err := s.Orders().Create(ctx, model.Order{ID: id, CostumerID: "u1", OrderedTime: time.Now()})
		require.NoError(t, err)
	}
	_, err := s.Orders().MarkTime(ctx, "o1", model.OrderFinishedTime, time.Now())
	require.NoError(t, err)
	_, err = s.Orders().MarkTime(ctx, "o2", model.OrderFinishedCokingTime, time.Now())
	require.NoError(t, err)

	items, total, err := s.Orders().List(ctx, repo.OrderListFilter{Unfinished: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "o3", items[0].ID)
}

func TestOrders_NumbersIncrease(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Orders().Create(ctx, model.Order{ID: string(rune('A' + i)), OrderedTime: time.Now()})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	items, total, err := s.Orders().List(ctx, repo.OrderListFilter{Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 20, total)
	for i, o := range items {
		assert.EqualValues(t, i+1, o.OrderNumber)
	}
}

func TestMaterials_DeleteReferenced(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedMaterial(t, s, "m1", "Flour")
	seedMaterial(t, s, "m2", "Salt")

	_, err := s.Ledger().Append(ctx, entry("e1", "m1", 1, "delivery"))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Materials().Delete(ctx, "m1"), repo.ErrReferenced)
	assert.NoError(t, s.Materials().Delete(ctx, "m2"))
	assert.ErrorIs(t, s.Materials().Delete(ctx, "m2"), repo.ErrNotFound)
}

func TestMaterials_UniqueName(t *testing.T) {
	s := newTestStore(t)
	seedMaterial(t, s, "m1", "Flour")

	_, err := s.Materials().Create(context.Background(), model.Material{ID: "m2", Name: "flour"})
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestWithinTx_SerializesAndHasNoRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedMaterial(t, s, "m1", "Flour")

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Ledger().Append(ctx, entry("e1", "m1", 5, "delivery")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	//ロールバックはない
	got, err := s.Stock().CurrentStock(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(5)))
}

func TestWithinTx_RecoversPanic(t *testing.T) {
	s := newTestStore(t)

	err := s.WithinTx(context.Background(), func(r repo.TxRepos) error {
		panic("kaboom")
	})
	assert.ErrorContains(t, err, "kaboom")

	//goroutineはまだ動いている
	_, err = s.Materials().List(context.Background())
	assert.NoError(t, err)
}

func TestStore_ClosedAndCanceled(t *testing.T) {
	s := NewStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Materials().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Materials().List(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
