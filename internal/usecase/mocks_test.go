package usecase

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders    repo.OrderRepository
	ledger    repo.LedgerRepository
	stock     repo.StockRepository
	materials repo.MaterialRepository
	foods     repo.FoodRepository
	audit     repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository       { return r.orders }
func (r *TxReposMock) Ledger() repo.LedgerRepository      { return r.ledger }
func (r *TxReposMock) Stock() repo.StockRepository        { return r.stock }
func (r *TxReposMock) Materials() repo.MaterialRepository { return r.materials }
func (r *TxReposMock) Foods() repo.FoodRepository         { return r.foods }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.audit }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkTime(ctx context.Context, orderID string, field model.OrderTimeField, at time.Time) (bool, error) {
	args := m.Called(ctx, orderID, field, at)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) ClearTime(ctx context.Context, orderID string, field model.OrderTimeField) error {
	args := m.Called(ctx, orderID, field)
	return args.Error(0)
}

type LedgerRepoMock struct{ mock.Mock }

func (m *LedgerRepoMock) Append(ctx context.Context, entry model.StockEntry) (model.StockEntry, error) {
	args := m.Called(ctx, entry)
	e, _ := args.Get(0).(model.StockEntry)
	return e, args.Error(1)
}

func (m *LedgerRepoMock) DeleteByReason(ctx context.Context, reason string) (int64, error) {
	args := m.Called(ctx, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LedgerRepoMock) FindByID(ctx context.Context, entryID string) (model.StockEntry, error) {
	args := m.Called(ctx, entryID)
	e, _ := args.Get(0).(model.StockEntry)
	return e, args.Error(1)
}

func (m *LedgerRepoMock) List(ctx context.Context, f repo.LedgerFilter) ([]model.StockEntry, int64, error) {
	args := m.Called(ctx, f)
	entries, _ := args.Get(0).([]model.StockEntry)
	return entries, args.Get(1).(int64), args.Error(2)
}

func (m *LedgerRepoMock) Update(ctx context.Context, entry model.StockEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *LedgerRepoMock) Delete(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

type StockRepoMock struct{ mock.Mock }

func (m *StockRepoMock) CurrentStock(ctx context.Context, materialID string) (decimal.Decimal, error) {
	args := m.Called(ctx, materialID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *StockRepoMock) CurrentStockAll(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).(map[string]decimal.Decimal)
	return out, args.Error(1)
}

func (m *StockRepoMock) CurrentStockOf(ctx context.Context, materialIDs []string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, materialIDs)
	out, _ := args.Get(0).(map[string]decimal.Decimal)
	return out, args.Error(1)
}

type MaterialRepoMock struct{ mock.Mock }

func (m *MaterialRepoMock) Create(ctx context.Context, mat model.Material) (model.Material, error) {
	args := m.Called(ctx, mat)
	out, _ := args.Get(0).(model.Material)
	return out, args.Error(1)
}

func (m *MaterialRepoMock) FindByID(ctx context.Context, materialID string) (model.Material, error) {
	args := m.Called(ctx, materialID)
	out, _ := args.Get(0).(model.Material)
	return out, args.Error(1)
}

func (m *MaterialRepoMock) FindByName(ctx context.Context, name string) (model.Material, error) {
	args := m.Called(ctx, name)
	out, _ := args.Get(0).(model.Material)
	return out, args.Error(1)
}

func (m *MaterialRepoMock) List(ctx context.Context) ([]model.Material, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Material)
	return out, args.Error(1)
}

func (m *MaterialRepoMock) Rename(ctx context.Context, materialID string, name string, displayName string) error {
	args := m.Called(ctx, materialID, name, displayName)
	return args.Error(0)
}

func (m *MaterialRepoMock) Delete(ctx context.Context, materialID string) error {
	args := m.Called(ctx, materialID)
	return args.Error(0)
}

func (m *MaterialRepoMock) LockForUpdate(ctx context.Context, materialIDs []string) ([]model.Material, error) {
	args := m.Called(ctx, materialIDs)
	out, _ := args.Get(0).([]model.Material)
	return out, args.Error(1)
}

type FoodRepoMock struct{ mock.Mock }

func (m *FoodRepoMock) Create(ctx context.Context, f model.Food) (model.Food, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).(model.Food)
	return out, args.Error(1)
}

func (m *FoodRepoMock) FindByID(ctx context.Context, foodID string) (model.Food, error) {
	args := m.Called(ctx, foodID)
	out, _ := args.Get(0).(model.Food)
	return out, args.Error(1)
}

func (m *FoodRepoMock) List(ctx context.Context, q repo.FoodListQuery) ([]model.Food, int64, error) {
	args := m.Called(ctx, q)
	out, _ := args.Get(0).([]model.Food)
	return out, args.Get(1).(int64), args.Error(2)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	panic("not used in usecase tests")
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
