package repository

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
)

type OrderListFilter struct {
	Page       int
	Limit      int
	CostumerID string
	//調理も受け渡しもまだのものだけ
	Unfinished bool
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	//明細ごと作成。OrderNumberが埋まったものを返す
	Create(ctx context.Context, order model.Order) (model.Order, error)
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	//明細ごと削除。0件でもエラーにしない
	Delete(ctx context.Context, orderID string) error

	//カラムがnullのときだけ時刻をセット。セットできたらtrue
	MarkTime(ctx context.Context, orderID string, field model.OrderTimeField, at time.Time) (bool, error)

	//カラムをnullに戻す。注文がなければ ErrNotFound
	ClearTime(ctx context.Context, orderID string, field model.OrderTimeField) error
}
