package handler

import (
	"restaurant/internal/config"
	"restaurant/internal/middleware"
	"restaurant/internal/repository"

	"github.com/labstack/echo/v4"
)

// Guards はルートごとに付けるミドルウェアの組み合わせ
type Guards struct {
	// ログイン済み + token_version一致
	Auth []echo.MiddlewareFunc
	// Auth + ADMIN
	Admin []echo.MiddlewareFunc
}

func NewGuards(cfg config.Config, userRepo repository.UserRepository) Guards {
	authJWT := middleware.AuthJWT(cfg)
	tvGuard := middleware.TokenVersionGuard(userRepo)
	return Guards{
		Auth:  []echo.MiddlewareFunc{authJWT, tvGuard},
		Admin: []echo.MiddlewareFunc{authJWT, tvGuard, middleware.AdminRoleGuard()},
	}
}
