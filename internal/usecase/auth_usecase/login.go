package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"
	"restaurant/internal/usecase"
	"restaurant/internal/validator"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
}

// handlerがJSONにして返す
type LoginOutput struct {
	User  model.User     `json:"user"`
	Token JwtAccessToken `json:"token"`
}

// handlerがCookieに詰めるために必要な値
type LoginSideEffect struct {
	PlainRefreshToken string
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 停止済みユーザー
var ErrUserInactive = errors.New("user is inactive")

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	clock    Clock
	tokens   tokenPair
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		clock:    clock,
		tokens: tokenPair{
			rtRepo:     rtRepo,
			issuer:     issuer,
			idGen:      idGen,
			refreshTTL: refreshTTL,
		},
	}
}

func invalidCredentials() error {
	return usecase.WrapHTTPError(usecase.ErrUnauthorized, ErrInvalidCredentials, "auth.invalid_credentials")
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, LoginSideEffect, error) {
	var out LoginOutput
	var side LoginSideEffect
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validator.ValidateLogin(email, in.Password); err != nil {
		return out, side, usecase.WrapHTTPError(usecase.ErrInvalidInput, err, "request.invalid_body")
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, side, invalidCredentials()
		}
		return out, side, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return out, side, usecase.WrapHTTPError(usecase.ErrForbidden, ErrUserInactive, "auth.user_inactive")
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, side, invalidCredentials()
	}

	now := u.clock.Now()
	token, plainRefresh, err := u.tokens.issue(ctx, user, in.UserAgent, now)
	if err != nil {
		return out, side, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return out, side, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}

	out.User = *user
	out.Token = token
	side.PlainRefreshToken = plainRefresh
	return out, side, nil
}
