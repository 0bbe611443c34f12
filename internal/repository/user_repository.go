package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。なければ ErrNotFound
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを一件取得する。なければ ErrNotFound
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ユーザー情報の更新
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID string) error
}
