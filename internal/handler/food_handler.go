package handler

import (
	"net/http"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 料理（メニュー）のAPI。読むのは誰でもできる
type FoodHandler struct {
	uc     *usecase.FoodUsecase
	guards Guards
}

func NewFoodHandler(uc *usecase.FoodUsecase, guards Guards) *FoodHandler {
	return &FoodHandler{uc: uc, guards: guards}
}

func (h *FoodHandler) MountPath() string { return "/food" }

func (h *FoodHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.POST("", h.create, h.guards.Admin...)
}

func (h *FoodHandler) create(c echo.Context) error {
	var req usecase.CreateFoodInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FoodHandler) list(c echo.Context) error {
	// page（default 1）
	page, err := intQuery(c, "page", 1, "page.invalid")
	if err != nil {
		return err
	}
	// limit（default 20）
	limit, err := intQuery(c, "limit", 20, "limit.invalid")
	if err != nil {
		return err
	}
	activeOnly, err := boolQuery(c, "active")
	if err != nil {
		return err
	}

	out, err := h.uc.List(c.Request().Context(), usecase.FoodListQuery{
		Page:       page,
		Limit:      limit,
		Q:          c.QueryParam("q"),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FoodHandler) detail(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
