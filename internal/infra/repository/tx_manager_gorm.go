package repository

import (
	"context"

	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders    repo.OrderRepository
	ledger    repo.LedgerRepository
	stock     repo.StockRepository
	materials repo.MaterialRepository
	foods     repo.FoodRepository
	auditLogs repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository       { return r.orders }
func (r *txReposGorm) Ledger() repo.LedgerRepository      { return r.ledger }
func (r *txReposGorm) Stock() repo.StockRepository        { return r.stock }
func (r *txReposGorm) Materials() repo.MaterialRepository { return r.materials }
func (r *txReposGorm) Foods() repo.FoodRepository         { return r.foods }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:    NewOrderGormRepository(tx),
			ledger:    NewLedgerGormRepository(tx),
			stock:     NewStockGormRepository(tx),
			materials: NewMaterialGormRepository(tx),
			foods:     NewFoodGormRepository(tx),
			auditLogs: NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
