package handler

import (
	"net/http"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

type MaterialHandler struct {
	uc     *usecase.MaterialUsecase
	guards Guards
}

func NewMaterialHandler(uc *usecase.MaterialUsecase, guards Guards) *MaterialHandler {
	return &MaterialHandler{uc: uc, guards: guards}
}

func (h *MaterialHandler) MountPath() string { return "/material" }

func (h *MaterialHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.list, h.guards.Auth...)
	g.POST("", h.create, h.guards.Admin...)
	g.PATCH("/:id", h.rename, h.guards.Admin...)
	g.DELETE("/:id", h.delete, h.guards.Admin...)
}

type renameMaterialRequest struct {
	Name string `json:"name"`
}

func (h *MaterialHandler) create(c echo.Context) error {
	var req usecase.CreateMaterialInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *MaterialHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MaterialHandler) rename(c echo.Context) error {
	var req renameMaterialRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Rename(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MaterialHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
