package httpserver

import (
	"github.com/labstack/echo/v4"

	"dinehub/internal/guard"
	"dinehub/internal/handlers"
	authhdl "dinehub/internal/handlers/auth"
	carthdl "dinehub/internal/handlers/cart"
	"dinehub/internal/middleware/access"
	"dinehub/internal/session"
)

type Deps struct {
	Sessions            *session.Manager
	AuthHandler         *authhdl.AuthHandler
	CatalogHandler      *handlers.CatalogHandler
	CartHandler         *carthdl.CartHandler
	OrderHandler        *handlers.OrderHandler
	ReservationHandler  *handlers.ReservationHandler
	NotificationHandler *handlers.NotificationHandler
	SearchHandler       *handlers.SearchHandler
	AdminHandler        *handlers.AdminHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/refresh", d.AuthHandler.Refresh)
	v1.POST("/staff/login", d.AuthHandler.StaffLogin)
	v1.POST("/admin/login", d.AuthHandler.AdminLogin)

	// browsing is public
	v1.GET("/restaurants", d.CatalogHandler.Restaurants)
	v1.GET("/restaurants/:id", d.CatalogHandler.Restaurant)
	v1.GET("/restaurants/:id/categories", d.CatalogHandler.Categories)
	v1.GET("/restaurants/:id/items", d.CatalogHandler.Items)
	v1.GET("/restaurants/:id/floor-plan", d.CatalogHandler.FloorPlan)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/reservations/lookup/:code", d.ReservationHandler.Lookup)

	// the cart works for anonymous sessions too; the guard only resolves
	// identity so a logged-in user gets their own cart
	cartGroup := v1.Group("/cart", access.Require(d.Sessions, guard.RequireNone))
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("/items", d.CartHandler.AddItem)
	cartGroup.PUT("/items/:id", d.CartHandler.UpdateItem)
	cartGroup.DELETE("/items/:id", d.CartHandler.RemoveItem)
	cartGroup.DELETE("", d.CartHandler.ClearCart)

	user := v1.Group("", access.Require(d.Sessions, guard.RequireNone))
	user.POST("/auth/logout", d.AuthHandler.Logout)
	user.POST("/orders", d.OrderHandler.Checkout)
	user.GET("/orders", d.OrderHandler.MyOrders)
	user.GET("/orders/:id", d.OrderHandler.GetOrder)
	user.POST("/reservations", d.ReservationHandler.Create)
	user.GET("/reservations", d.ReservationHandler.MyReservations)
	user.GET("/reservations/:id/qr", d.ReservationHandler.QRCode)
	user.GET("/notifications", d.NotificationHandler.Feed)
	user.GET("/notifications/count", d.NotificationHandler.Count)
	user.POST("/notifications/:id/read", d.NotificationHandler.MarkRead)
	user.POST("/notifications/read-all", d.NotificationHandler.MarkAllRead)

	staff := v1.Group("/staff", access.Require(d.Sessions, guard.RequireStaff))
	staff.GET("/orders", d.OrderHandler.StaffOrders)
	staff.PUT("/orders/:id/confirm", d.OrderHandler.StaffConfirmOrder)
	staff.PUT("/orders/:id/complete", d.OrderHandler.StaffCompleteOrder)
	staff.GET("/reservations", d.ReservationHandler.StaffReservations)
	staff.PUT("/reservations/:id/confirm", d.ReservationHandler.StaffConfirmReservation)
	staff.GET("/menu/categories", d.CatalogHandler.StaffCategories)
	staff.POST("/menu/categories", d.CatalogHandler.StaffAddCategory)
	staff.POST("/menu/items", d.CatalogHandler.StaffAddItem)
	staff.PATCH("/menu/items/:id", d.CatalogHandler.StaffUpdateItem)
	staff.DELETE("/menu/items/:id", d.CatalogHandler.StaffDeleteItem)
	staff.GET("/tables", d.CatalogHandler.StaffTables)
	staff.POST("/tables", d.CatalogHandler.StaffAddTable)
	staff.PUT("/tables/:id", d.CatalogHandler.StaffUpdateTable)
	staff.DELETE("/tables/:id", d.CatalogHandler.StaffDeleteTable)

	admin := v1.Group("/admin", access.Require(d.Sessions, guard.RequireAdmin))
	admin.GET("/stats", d.AdminHandler.Stats)
	admin.GET("/orders", d.OrderHandler.AdminOrders)
	admin.GET("/reservations", d.ReservationHandler.AdminReservations)
	admin.GET("/staff", d.AdminHandler.Staff)
	admin.POST("/staff", d.AdminHandler.CreateStaff)
	admin.POST("/restaurants", d.AdminHandler.CreateRestaurant)
	admin.POST("/items", d.CatalogHandler.CreateItem)
	admin.PATCH("/items/:id", d.CatalogHandler.PatchItem)
	admin.DELETE("/items/:id", d.CatalogHandler.DeleteItem)
}
