package auth

import (
	"context"
	"time"

	"restaurant/internal/repository"

	"go.uber.org/zap"
)

// TokenSweeper は期限切れのリフレッシュトークンを定期的に消す
type TokenSweeper struct {
	rtRepo   repository.RefreshTokenRepository
	clock    Clock
	interval time.Duration
	log      *zap.Logger
}

func NewTokenSweeper(rtRepo repository.RefreshTokenRepository, clock Clock, interval time.Duration, log *zap.Logger) *TokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TokenSweeper{rtRepo: rtRepo, clock: clock, interval: interval, log: log}
}

// SweepOnce は1回だけ掃除する
func (s *TokenSweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.rtRepo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("refresh_tokens_swept", zap.Int64("deleted", n))
	}
	return n, nil
}

// Run はctxが終わるまで動く。掃除の失敗では止まらない
func (s *TokenSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("refresh_token_sweep_failed", zap.Error(err))
			}
		}
	}
}
