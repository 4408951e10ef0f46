package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/middleware/auth"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) userID(c echo.Context) (uint, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	return id, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	items, total, err := h.Svc.Get(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, transport.CartResponse{Items: items, Total: total})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	item, err := h.Svc.Add(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productID")
	if err != nil {
		return err
	}
	var req transport.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	item, err := h.Svc.UpdateQuantity(c.Request().Context(), userID, productID, req.Quantity)
	if err != nil {
		return toHTTPError(err)
	}
	if item == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) Contains(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productID")
	if err != nil {
		return err
	}
	inCart, qty, err := h.Svc.Contains(c.Request().Context(), userID, productID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, transport.CartItemStatus{ProductID: productID, InCart: inCart, Quantity: qty})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productID")
	if err != nil {
		return err
	}
	if err := h.Svc.Remove(c.Request().Context(), userID, productID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(c.Request().Context(), userID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MergeCart folds the guest-local cart sent by the client into the user's
// persisted cart right after login.
func (h *CartHTTP) MergeCart(c echo.Context) error {
	userID, err := h.userID(c)
	if err != nil {
		return err
	}
	var req transport.MergeCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	items, err := h.Svc.Merge(c.Request().Context(), userID, req.Items)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, transport.CartResponse{Items: items, Total: service.CartTotal(items)})
}
