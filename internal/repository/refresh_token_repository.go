package repository

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
)

// リフレッシュトークンの保存・取得・更新・削除
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	//なければ ErrNotFound
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	//未使用・未失効のときだけ使用済みにする。できたらtrue
	MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) (bool, error)
	Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error
	//ユーザーの有効なトークンを全部失効
	RevokeAllByUserID(ctx context.Context, userID string, revokedAt time.Time) error
	//期限切れを掃除
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
