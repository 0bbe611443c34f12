package auth

import (
	"context"
	"errors"
	"time"

	"restaurant/internal/repository"
	"restaurant/internal/usecase"
	"restaurant/internal/validator"

	"go.uber.org/zap"
)

type RefreshInput struct {
	RefreshToken string
	UserAgent    string
}

type RefreshSideEffect struct {
	PlainRefreshToken string
}

var (
	ErrRefreshInvalid = errors.New("refresh token invalid")
	// 使用済みのトークンがもう一度来た（盗まれた可能性）
	ErrRefreshReused = errors.New("refresh token reused")
)

type RefreshUsecase struct {
	userRepo repository.UserRepository
	rtRepo   repository.RefreshTokenRepository
	clock    Clock
	tokens   tokenPair
	log      *zap.Logger
}

func NewRefreshUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
	log *zap.Logger,
) *RefreshUsecase {
	return &RefreshUsecase{
		userRepo: userRepo,
		rtRepo:   rtRepo,
		clock:    clock,
		tokens: tokenPair{
			rtRepo:     rtRepo,
			issuer:     issuer,
			idGen:      idGen,
			refreshTTL: refreshTTL,
		},
		log: log,
	}
}

func refreshInvalid() error {
	return usecase.WrapHTTPError(usecase.ErrUnauthorized, ErrRefreshInvalid, "auth.refresh_invalid")
}

// Execute はリフレッシュトークンを使い捨てで回転させる
// 使用済みが再利用されたら、そのユーザーのトークンを全部失効させる
func (u *RefreshUsecase) Execute(ctx context.Context, in RefreshInput) (JwtAccessToken, RefreshSideEffect, error) {
	var side RefreshSideEffect

	if err := validator.ValidateRefresh(in.RefreshToken); err != nil {
		return JwtAccessToken{}, side, refreshInvalid()
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(in.RefreshToken))
	if errors.Is(err, repository.ErrNotFound) {
		return JwtAccessToken{}, side, refreshInvalid()
	}
	if err != nil {
		return JwtAccessToken{}, side, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}

	now := u.clock.Now()
	if rt.UsedAt != nil {
		return JwtAccessToken{}, side, u.reused(ctx, rt.UserID, now)
	}
	if !rt.Active(now) {
		return JwtAccessToken{}, side, refreshInvalid()
	}

	//同時に使われたら片方だけ通す
	ok, err := u.rtRepo.MarkUsed(ctx, rt.ID, now)
	if err != nil {
		return JwtAccessToken{}, side, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}
	if !ok {
		return JwtAccessToken{}, side, u.reused(ctx, rt.UserID, now)
	}

	user, err := u.userRepo.FindByID(ctx, rt.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return JwtAccessToken{}, side, refreshInvalid()
	}
	if err != nil {
		return JwtAccessToken{}, side, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}
	if !user.IsActive {
		return JwtAccessToken{}, side, usecase.WrapHTTPError(usecase.ErrForbidden, ErrUserInactive, "auth.user_inactive")
	}

	token, plain, err := u.tokens.issue(ctx, user, in.UserAgent, now)
	if err != nil {
		return JwtAccessToken{}, side, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}
	side.PlainRefreshToken = plain
	return token, side, nil
}

// 再利用を検知したら全トークン失効＋アクセストークンも無効化
func (u *RefreshUsecase) reused(ctx context.Context, userID string, now time.Time) error {
	u.log.Warn("refresh_token_reused", zap.String("user_id", userID))

	if err := u.rtRepo.RevokeAllByUserID(ctx, userID, now); err != nil {
		return usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}
	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}
	return usecase.WrapHTTPError(usecase.ErrUnauthorized, ErrRefreshReused, "auth.refresh_reused")
}
