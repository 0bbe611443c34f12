package middleware

import (
	"restaurant/internal/domain/model"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがADMINかどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return unauthorized()
			}

			//USERは拒否、ADMINだけ許可
			if role != string(model.RoleAdmin) {
				return usecase.NewHTTPError(usecase.ErrForbidden, "auth.forbidden")
			}

			return next(c)
		}
	}
}
