package handler

import (
	"net/http"

	"restaurant/internal/domain/model"
	"restaurant/internal/middleware"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc     *usecase.OrderUsecase
	guards Guards
}

func NewOrderHandler(uc *usecase.OrderUsecase, guards Guards) *OrderHandler {
	return &OrderHandler{uc: uc, guards: guards}
}

func (h *OrderHandler) MountPath() string { return "/order" }

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.create, h.guards.Auth...)

	g.GET("", h.list, h.guards.Admin...)
	g.GET("/:id", h.detail, h.guards.Admin...)

	//キッチン・受け渡し
	g.PATCH("/finish/:id", h.finish, h.guards.Admin...)
	g.PATCH("/finish/revert/:id", h.revertFinish, h.guards.Admin...)
	g.PATCH("/handover/:id", h.handover, h.guards.Admin...)
	g.PATCH("/handover/revert/:id", h.revertHandover, h.guards.Admin...)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req usecase.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	//省略したら自分の注文。USERは他人の注文を作れない
	userID := middleware.UserID(c)
	if req.CostumerID == "" {
		req.CostumerID = userID
	}
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	if role != string(model.RoleAdmin) && req.CostumerID != userID {
		return usecase.NewHTTPError(usecase.ErrForbidden, "auth.forbidden")
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	page, err := intQuery(c, "page", 1, "page.invalid")
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit", 50, "limit.invalid")
	if err != nil {
		return err
	}
	unfinished, err := boolQuery(c, "unfinished")
	if err != nil {
		return err
	}

	out, err := h.uc.ListOrders(c.Request().Context(), usecase.OrderListQuery{
		Page:       page,
		Limit:      limit,
		CostumerID: c.QueryParam("costumerId"),
		Unfinished: unfinished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

type transitionFunc func(c echo.Context, actorID string, orderID string) (model.Order, error)

func (h *OrderHandler) transition(c echo.Context, fn transitionFunc) error {
	out, err := fn(c, middleware.UserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) finish(c echo.Context) error {
	return h.transition(c, func(c echo.Context, actorID, orderID string) (model.Order, error) {
		return h.uc.MarkKitchenFinished(c.Request().Context(), actorID, orderID)
	})
}

func (h *OrderHandler) revertFinish(c echo.Context) error {
	return h.transition(c, func(c echo.Context, actorID, orderID string) (model.Order, error) {
		return h.uc.RevertKitchenFinished(c.Request().Context(), actorID, orderID)
	})
}

func (h *OrderHandler) handover(c echo.Context) error {
	return h.transition(c, func(c echo.Context, actorID, orderID string) (model.Order, error) {
		return h.uc.MarkHandedOver(c.Request().Context(), actorID, orderID)
	})
}

func (h *OrderHandler) revertHandover(c echo.Context) error {
	return h.transition(c, func(c echo.Context, actorID, orderID string) (model.Order, error) {
		return h.uc.RevertHandedOver(c.Request().Context(), actorID, orderID)
	})
}
