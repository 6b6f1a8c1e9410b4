package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/online_store/internal/middleware/auth"
)

type Deps struct {
	ItemHandler   *ItemHTTP
	CartHandler   *CartHTTP
	AuthHandler   *AuthHTTP
	HealthHandler *HealthHTTP
	JWTSecret     []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)

	api := e.Group("/api")
	authMW := authmw.New(d.JWTSecret)

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	items := api.Group("/item")
	items.GET("/image/:id", d.ItemHandler.GetImage)

	readers := items.Group("", authMW.RequireAuth)
	readers.GET("/getAllItems", d.ItemHandler.GetAllItems)
	readers.GET("/search", d.ItemHandler.SearchItems)
	readers.GET("/:id", d.ItemHandler.GetItem)

	admin := items.Group("", authMW.RequireAdmin)
	admin.POST("/createItem", d.ItemHandler.CreateItem)
	admin.PUT("/update/:id", d.ItemHandler.UpdateItem)
	admin.DELETE("/delete/:id", d.ItemHandler.DeleteItem)
	admin.POST("/uploadImage/:id", d.ItemHandler.UploadImage)

	cart := api.Group("/shoppingcart", authMW.RequireAuth)
	cart.GET("/getShoppingCart", d.CartHandler.GetCart)
	cart.POST("/addToCart", d.CartHandler.AddToCart)
	cart.DELETE("/removeFromCart", d.CartHandler.RemoveFromCart)
	cart.DELETE("/clear", d.CartHandler.ClearCart)
}
