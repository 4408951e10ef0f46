package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/logging"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	products, err := h.Svc.List(c.Request().Context(), false)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) ListAllProducts(c echo.Context) error {
	products, err := h.Svc.List(c.Request().Context(), true)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	product, err := h.Svc.Create(ctx, req)
	if err != nil {
		return toHTTPError(err)
	}
	logging.FromContext(ctx).Info("product created", "product_id", product.ID)
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	product, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
