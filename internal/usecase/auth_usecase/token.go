package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"
)

// token 形（JwtAccessToken相当）
type JwtAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID string, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// アクセストークンとリフレッシュトークンをまとめて発行する
type tokenPair struct {
	rtRepo     repository.RefreshTokenRepository
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	refreshTTL time.Duration
}

func (p tokenPair) issue(ctx context.Context, user *model.User, userAgent string, now time.Time) (JwtAccessToken, string, error) {
	//AccessToken発行
	accessToken, accessExp, err := p.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return JwtAccessToken{}, "", err
	}

	//RefreshToken生成
	plainRefresh, err := generateSecureToken(32)
	if err != nil {
		return JwtAccessToken{}, "", err
	}

	refresh := &model.RefreshToken{
		ID:        p.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashToken(plainRefresh),
		UserAgent: userAgent,
		ExpiresAt: now.Add(p.refreshTTL),
		CreatedAt: now,
	}
	if err := p.rtRepo.Create(ctx, refresh); err != nil {
		return JwtAccessToken{}, "", err
	}

	return JwtAccessToken{
		AccessToken:  accessToken,
		ExpiresIn:    int(accessExp.Sub(now).Seconds()),
		TokenVersion: user.TokenVersion,
	}, plainRefresh, nil
}

// DBにはハッシュだけ保存
func hashToken(plain string) string {
	hash := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(hash[:])
}

func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", fmt.Errorf("bytesLen must be positive")
	}

	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
