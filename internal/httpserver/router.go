package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ekoshkina/webshop/internal/service/token"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	SearchHandler  *SearchHTTP
	TokenService   *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/products", d.CatalogHandler.GetProducts)
	v1.GET("/products/:id", d.CatalogHandler.GetProduct)
	v1.GET("/categories", d.CatalogHandler.GetCategories)
	v1.GET("/search", d.SearchHandler.Search)

	cart := v1.Group("/cart", d.TokenService.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add/:product_id", d.CartHandler.AddOne)
	cart.POST("/remove/:product_id", d.CartHandler.RemoveOne)
	cart.PATCH("/items/:id", d.CartHandler.AdjustQuantity)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)

	admin := v1.Group("/admin", d.TokenService.RequireAdmin)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PATCH("/products/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	admin.POST("/categories", d.CatalogHandler.CreateCategory)
	admin.DELETE("/categories/:id", d.CatalogHandler.DeleteCategory)
}
