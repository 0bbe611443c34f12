package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// 保存先に届くか確認する関数。nilなら常にok
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	check HealthCheck
}

func NewHealthHandler(check HealthCheck) *HealthHandler {
	return &HealthHandler{check: check}
}

func (h *HealthHandler) MountPath() string { return "/health" }

func (h *HealthHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.health)
}

func (h *HealthHandler) health(c echo.Context) error {
	if h.check != nil {
		if err := h.check(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
