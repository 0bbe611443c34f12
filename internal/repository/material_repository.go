package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type MaterialRepository interface {
	Create(ctx context.Context, m model.Material) (model.Material, error)
	FindByID(ctx context.Context, materialID string) (model.Material, error)

	//正規化済みの名前で検索
	FindByName(ctx context.Context, name string) (model.Material, error)
	List(ctx context.Context) ([]model.Material, error)
	Rename(ctx context.Context, materialID string, name string, displayName string) error

	//台帳やレシピから参照されていれば ErrReferenced
	Delete(ctx context.Context, materialID string) error

	//行ロック（FOR UPDATE）。ID順に取るのでデッドロックしない
	LockForUpdate(ctx context.Context, materialIDs []string) ([]model.Material, error)
}
