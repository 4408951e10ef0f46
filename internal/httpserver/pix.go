package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type PixHTTP struct {
	Svc *service.PixService
}

func (h *PixHTTP) ListCantinas(c echo.Context) error {
	cantinas, err := h.Svc.ListCantinas(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, cantinas)
}

func (h *PixHTTP) CreateCantina(c echo.Context) error {
	var req transport.CreateCantinaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	cantina, err := h.Svc.CreateCantina(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, cantina)
}

func (h *PixHTTP) UpsertPixConfig(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PixConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	cfg, err := h.Svc.UpsertConfig(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *PixHTTP) SelectCurrent(c echo.Context) error {
	var req transport.SelectCantinaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.SelectCurrent(c.Request().Context(), req.CantinaID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PixHTTP) GetCurrent(c echo.Context) error {
	res, err := h.Svc.Current(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, res)
}
