package middleware

import (
	"errors"
	"strings"

	"restaurant/internal/config"
	"restaurant/internal/usecase"
	"restaurant/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // string
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

// アクセストークンのclaims。subはユーザーID
type accessClaims struct {
	Role string `json:"role"`
	TV   *int   `json:"tv"`
	jwt.RegisteredClaims
}

func unauthorized() error {
	return usecase.NewHTTPError(usecase.ErrUnauthorized, "auth.unauthorized")
}

// bearerAuth用のJWT検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized()
			}

			//署名・exp を検証してclaimsを取り出す
			var claims accessClaims
			token, err := jwt.ParseWithClaims(raw, &claims, keyFunc)
			if err != nil || !token.Valid {
				return unauthorized()
			}
			if validator.ParseID(claims.Subject) != nil || claims.Role == "" {
				return unauthorized()
			}
			if claims.TV == nil || *claims.TV < 0 {
				return unauthorized()
			}

			c.Set(CtxUserIDKey, claims.Subject)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, *claims.TV)
			return next(c)
		}
	}
}

// "Bearer <token>" からtokenを抜く
func bearerToken(authz string) (string, bool) {
	scheme, raw, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// UserID はAuthJWTが入れたユーザーIDを返す
func UserID(c echo.Context) string {
	id, _ := c.Get(CtxUserIDKey).(string)
	return id
}
