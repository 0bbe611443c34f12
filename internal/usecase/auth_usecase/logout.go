package auth

import (
	"context"
	"errors"
	"strings"

	"restaurant/internal/repository"
	"restaurant/internal/usecase"
)

type LogoutUsecase struct {
	rtRepo repository.RefreshTokenRepository
	clock  Clock
}

func NewLogoutUsecase(rtRepo repository.RefreshTokenRepository, clock Clock) *LogoutUsecase {
	return &LogoutUsecase{rtRepo: rtRepo, clock: clock}
}

// Execute はリフレッシュトークンを失効させる。何度呼んでも成功
func (u *LogoutUsecase) Execute(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshToken))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}

	if err := u.rtRepo.Revoke(ctx, rt.ID, u.clock.Now()); err != nil {
		return usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}
	return nil
}
