package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ekoshkina/webshop/internal/events"
	"github.com/ekoshkina/webshop/internal/logging"
	"github.com/ekoshkina/webshop/internal/service"
	"github.com/ekoshkina/webshop/internal/service/token"
	"github.com/ekoshkina/webshop/internal/transport"
	"github.com/ekoshkina/webshop/internal/util"
)

type CartHTTP struct {
	Svc      *service.CartService
	Producer EventPublisher
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.ListCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	resp := transport.CartResponse{
		Items: make([]transport.CartLineResponse, 0, len(view.Lines)),
		Total: view.Total,
	}
	for _, line := range view.Lines {
		resp.Items = append(resp.Items, transport.CartLineResponse{
			ID:        line.Item.ID,
			ProductID: line.Item.ProductID,
			Name:      line.Product.Name,
			Price:     line.Product.Price,
			Quantity:  line.Item.Quantity,
			LineTotal: line.LineTotal,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *CartHTTP) AddOne(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_one")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	productID := uint(util.ParseIntDefault(c.Param("product_id"), 0))
	if productID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.AddOne(ctx, userID, productID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("add_one_not_found", "status", 404, "product_id", productID)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("add_one_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) RemoveOne(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_one")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	productID := uint(util.ParseIntDefault(c.Param("product_id"), 0))
	if productID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.RemoveOne(ctx, userID, productID); err != nil {
		l.Error("remove_one_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) AdjustQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.adjust_quantity")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	itemID := uint(util.ParseIntDefault(c.Param("id"), 0))
	if itemID == 0 {
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid item id"})
	}

	var req transport.AdjustQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("adjust_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}

	dir, err := service.ParseDirection(req.Direction)
	if err != nil {
		l.Warn("adjust_quantity_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: err.Error()})
	}

	outcome, err := h.Svc.AdjustQuantity(ctx, userID, itemID, dir)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("adjust_quantity_not_found", "status", 404, "item_id", itemID)
			return c.JSON(http.StatusNotFound, transport.ErrorResponse{Error: "item not found"})
		}
		l.Error("adjust_quantity_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "internal error"})
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":      "cart_item_adjusted",
		"userID":    userID,
		"itemID":    itemID,
		"direction": string(dir),
	})

	switch out := outcome.(type) {
	case service.AdjustRemoved:
		return c.JSON(http.StatusOK, transport.AdjustRemovedResponse{
			Success:   true,
			Removed:   true,
			CartTotal: out.CartTotal,
		})
	case service.AdjustUpdated:
		return c.JSON(http.StatusOK, transport.AdjustUpdatedResponse{
			Success:     true,
			NewQuantity: out.NewQuantity,
			NewTotal:    out.NewTotal,
			CartTotal:   out.CartTotal,
		})
	}

	l.Error("adjust_quantity_error", "status", 500, "error", "unknown outcome")
	return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "internal error"})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := token.UserID(c)
	if err != nil {
		return err
	}

	itemID := uint(util.ParseIntDefault(c.Param("id"), 0))
	if itemID == 0 {
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid item id"})
	}

	total, err := h.Svc.RemoveItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("remove_item_not_found", "status", 404, "item_id", itemID)
			return c.JSON(http.StatusNotFound, transport.ErrorResponse{Error: "item not found"})
		}
		l.Error("remove_item_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "internal error"})
	}

	publish(c, h.Producer, events.TopicCartEvents, map[string]any{
		"type":   "cart_item_deleted",
		"userID": userID,
		"itemID": itemID,
	})

	return c.JSON(http.StatusOK, transport.RemoveItemResponse{Success: true, CartTotal: total})
}
