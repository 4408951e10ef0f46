package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/logging"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/middleware/auth"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/notify"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Checkout *service.CheckoutService
}

// SubmitOrder handles checkout for both guests and authenticated users;
// the auth cookie, when valid, links the order to the user.
func (h *OrderHTTP) SubmitOrder(c echo.Context) error {
	ctx := c.Request().Context()
	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var userID *uint
	if id, ok := auth.UserID(c); ok {
		userID = &id
	}

	order, err := h.Checkout.Checkout(ctx, req, userID)
	if err != nil {
		return toHTTPError(err)
	}

	logging.FromContext(ctx).Info("order placed", "order_id", order.ID, "total", order.Total, "payment", order.PaymentMethod)
	return c.JSON(http.StatusCreated, transport.CheckoutResponse{
		Order:        order,
		WhatsAppLink: notify.ReceiptLink(order.ClientWhatsApp, order),
	})
}

func (h *OrderHTTP) ListMyOrders(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	orders, err := h.Svc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetGuestOrder returns a guest receipt looked up by order id and the
// WhatsApp number given at checkout.
func (h *OrderHTTP) GetGuestOrder(c echo.Context) error {
	var id uint
	var whatsapp string
	if err := echo.QueryParamsBinder(c).Uint("order_id", &id).String("whatsapp", &whatsapp).BindError(); err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id and whatsapp required")
	}
	order, err := h.Svc.GetGuest(c.Request().Context(), id, whatsapp)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	var f repo.OrderFilter
	f.Status = c.QueryParam("status")
	if err := echo.QueryParamsBinder(c).Int("page", &f.Page).Int("page_size", &f.PageSize).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = &t
	}
	orders, err := h.Svc.List(c.Request().Context(), f)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return toHTTPError(err)
	}
	logging.FromContext(ctx).Info("order status changed", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
