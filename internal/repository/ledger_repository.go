package repository

import (
	"context"
	"time"

	"restaurant/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 台帳の絞り込み条件
type LedgerFilter struct {
	Page        int
	Limit       int
	MaterialID  string
	Name        string // 材料名（部分一致）
	Message     string
	MinQuantity *decimal.Decimal
	MaxQuantity *decimal.Decimal
	From        *time.Time
	To          *time.Time
}

// 在庫台帳（追記のみ）の保存先
type LedgerRepository interface {
	//1件追記
	Append(ctx context.Context, entry model.StockEntry) (model.StockEntry, error)

	//Messageが一致する行をまとめて消す（取り消し用）。0件でもエラーにしない
	DeleteByReason(ctx context.Context, reason string) (int64, error)

	FindByID(ctx context.Context, entryID string) (model.StockEntry, error)
	List(ctx context.Context, f LedgerFilter) ([]model.StockEntry, int64, error)

	//管理者による修正（数量・メッセージのみ）
	Update(ctx context.Context, entry model.StockEntry) error
	Delete(ctx context.Context, entryID string) error
}

// 台帳を集計して現在庫を返す
type StockRepository interface {
	//行がなければ0
	CurrentStock(ctx context.Context, materialID string) (decimal.Decimal, error)

	//1回のクエリで全材料を集計（スナップショット）
	CurrentStockAll(ctx context.Context) (map[string]decimal.Decimal, error)

	//指定した材料だけ集計。行がない材料も0で入る
	CurrentStockOf(ctx context.Context, materialIDs []string) (map[string]decimal.Decimal, error)
}
