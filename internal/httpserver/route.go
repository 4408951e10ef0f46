package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/middleware/auth"
	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/service"
)

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Orders  *OrderHTTP
	Pix     *PixHTTP
	Users   *UserHTTP
	Reports *ReportHTTP

	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := auth.New(d.JWTSecret)
	api := e.Group("/api")

	// public catalog
	api.GET("/products", d.Catalog.ListProducts)
	api.GET("/products/:id", d.Catalog.GetProduct)

	// checkout works for guests too; the cookie just links the order
	api.POST("/checkout", d.Orders.SubmitOrder, mw.WithUser)
	api.GET("/orders/guest", d.Orders.GetGuestOrder)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/logout", d.Auth.Logout)
	authGroup.GET("/me", d.Auth.Me, mw.RequireAuth)
	authGroup.POST("/password", d.Auth.ChangePassword, mw.RequireAuth)

	cart := api.Group("/cart", mw.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.POST("/merge", d.Cart.MergeCart)
	cart.GET("/:productID", d.Cart.Contains)
	cart.PATCH("/:productID", d.Cart.UpdateQuantity)
	cart.DELETE("/:productID", d.Cart.RemoveFromCart)
	cart.DELETE("", d.Cart.ClearCart)

	api.GET("/orders", d.Orders.ListMyOrders, mw.RequireAuth)

	staff := api.Group("/admin", mw.RequireRoles(service.RoleSeller, service.RoleAdmin))
	staff.GET("/orders", d.Orders.ListOrders)
	staff.PATCH("/orders/:id/status", d.Orders.UpdateStatus)
	staff.GET("/reports", d.Reports.GetReport)

	admin := api.Group("/admin", mw.RequireRoles(service.RoleAdmin))
	admin.DELETE("/orders/:id", d.Orders.DeleteOrder)
	admin.GET("/products", d.Catalog.ListAllProducts)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.PATCH("/products/:id", d.Catalog.UpdateProduct)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct)
	admin.GET("/cantinas", d.Pix.ListCantinas)
	admin.POST("/cantinas", d.Pix.CreateCantina)
	admin.PUT("/cantinas/:id/pix", d.Pix.UpsertPixConfig)
	admin.GET("/pix/current", d.Pix.GetCurrent)
	admin.PUT("/pix/current", d.Pix.SelectCurrent)
	admin.GET("/users", d.Users.ListUsers)
	admin.PATCH("/users/:id/role", d.Users.UpdateRole)
	admin.DELETE("/users/:id", d.Users.DeleteUser)
}
