package handler

import (
	"net/http"

	"restaurant/internal/middleware"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 在庫台帳と在庫集計のAPI
type InventoryHandler struct {
	uc     *usecase.InventoryUsecase
	stock  *usecase.StockAggregator
	guards Guards
}

func NewInventoryHandler(uc *usecase.InventoryUsecase, stock *usecase.StockAggregator, guards Guards) *InventoryHandler {
	return &InventoryHandler{uc: uc, stock: stock, guards: guards}
}

func (h *InventoryHandler) MountPath() string { return "/inventory" }

func (h *InventoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.list, h.guards.Auth...)
	g.GET("/stock", h.stockAll, h.guards.Auth...)
	g.GET("/stock/:materialId", h.stockOf, h.guards.Auth...)
	g.GET("/low-stock", h.lowStock, h.guards.Auth...)

	g.POST("", h.add, h.guards.Admin...)
	g.PATCH("/:id", h.correct, h.guards.Admin...)
	g.DELETE("/:id", h.delete, h.guards.Admin...)
}

func (h *InventoryHandler) add(c echo.Context) error {
	var req usecase.AddEntryInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	out, err := h.uc.AddEntry(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *InventoryHandler) list(c echo.Context) error {
	q := usecase.LedgerListQuery{
		MaterialID: c.QueryParam("materialId"),
		Name:       c.QueryParam("name"),
		Message:    c.QueryParam("message"),
	}
	var err error
	if q.Page, err = intQuery(c, "page", 1, "page.invalid"); err != nil {
		return err
	}
	if q.Limit, err = intQuery(c, "limit", 20, "limit.invalid"); err != nil {
		return err
	}
	if q.MinQuantity, err = decimalQuery(c, "minQuantity"); err != nil {
		return err
	}
	if q.MaxQuantity, err = decimalQuery(c, "maxQuantity"); err != nil {
		return err
	}
	if q.From, err = timeQuery(c, "from"); err != nil {
		return err
	}
	if q.To, err = timeQuery(c, "to"); err != nil {
		return err
	}

	out, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) correct(c echo.Context) error {
	var req usecase.CorrectEntryInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	out, err := h.uc.CorrectEntry(c.Request().Context(), middleware.UserID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) delete(c echo.Context) error {
	if err := h.uc.DeleteEntry(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHandler) stockAll(c echo.Context) error {
	out, err := h.stock.StockAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) stockOf(c echo.Context) error {
	out, err := h.stock.StockOf(c.Request().Context(), c.Param("materialId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// thresholdを省略したら材料ごとのしきい値を使う
func (h *InventoryHandler) lowStock(c echo.Context) error {
	threshold, err := decimalQuery(c, "threshold")
	if err != nil {
		return err
	}
	out, err := h.stock.LowStock(c.Request().Context(), threshold)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
