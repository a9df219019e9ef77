// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Handlers groups the endpoint handlers mounted under /api/v1
type Handlers struct {
	Auth     *handlers.AuthHandler
	Item     *handlers.ItemHandler
	Wishlist *handlers.WishlistHandler
	Board    *handlers.BoardHandler
	Cart     *handlers.CartHandler
	Order    *handlers.OrderHandler
}

// SetupRoutes mounts every route group on rg
func SetupRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	SetupAuthRoutes(rg, h, jwtManager)
	SetupItemRoutes(rg, h, jwtManager)
	SetupBoardRoutes(rg, h, jwtManager)
	SetupCartRoutes(rg, h, jwtManager)
	SetupOrderRoutes(rg, h, jwtManager)
	SetupAdminRoutes(rg, h, jwtManager)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)

		protected := authGroup.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager))
		{
			protected.GET("/me", h.Auth.Me)
		}
	}
}

// SetupItemRoutes sets up the item detail page routes
func SetupItemRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	items := rg.Group("/items")
	items.Use(middleware.OptionalAuthMiddleware(jwtManager)) // wish flag for signed-in users
	{
		items.GET("", h.Item.ListItems)
		items.GET("/search", h.Item.SearchItems)
		items.GET("/:iid", h.Item.GetItem)
		items.POST("/:iid/quote", h.Item.Quote)
		items.GET("/:iid/wish/count", h.Wishlist.Count)
		items.GET("/:iid/reviews", h.Board.ListReviews)
		items.GET("/:iid/qna", h.Board.ListQnA)
	}

	protected := rg.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager))
	{
		protected.POST("/items/:iid/handoff", h.Item.Handoff)
		protected.POST("/items/:iid/wish", h.Wishlist.Toggle)
		protected.GET("/wishes", h.Wishlist.List)
	}
}

// SetupBoardRoutes sets up review and Q&A write routes
func SetupBoardRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	boards := rg.Group("/boards")
	boards.Use(middleware.AuthMiddleware(jwtManager))
	{
		boards.POST("", h.Board.Create)
		boards.PUT("/:bid", h.Board.Update)
		boards.DELETE("/:bid", h.Board.Delete)
	}
}

// SetupCartRoutes sets up cart page routes
func SetupCartRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.AuthMiddleware(jwtManager))
	{
		cartGroup.GET("", h.Cart.GetCart)
		cartGroup.POST("", h.Cart.AddToCart)
		cartGroup.DELETE("", h.Cart.ClearCart)
		cartGroup.PUT("/items/:cid", h.Cart.UpdateQuantity)
		cartGroup.DELETE("/items/:cid", h.Cart.RemoveFromCart)
		cartGroup.POST("/items/:cid/select", h.Cart.ToggleSelect)
		cartGroup.POST("/select-all", h.Cart.ToggleSelectAll)
		cartGroup.POST("/checkout", h.Cart.Checkout)
	}
}

// SetupOrderRoutes sets up order routes
func SetupOrderRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(jwtManager))
	{
		orders.GET("/handoff/:token", h.Order.GetHandoff)
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:oid", h.Order.GetOrder)
		orders.DELETE("/:oid", h.Order.DeleteOrder)
		orders.GET("/:oid/receipt", h.Order.DownloadReceipt)
	}
}

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(rg *gin.RouterGroup, h *Handlers, jwtManager *auth.JWTManager) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/items", h.Item.CreateItem)
		admin.PUT("/items/:iid", h.Item.UpdateItem)
		admin.DELETE("/items/:iid", h.Item.DeleteItem)
		admin.PUT("/items/:iid/sale", h.Item.SetSale)
		admin.POST("/items/:iid/options", h.Item.AddOption)
		admin.POST("/items/:iid/tags", h.Item.AddTag)

		admin.PUT("/orders/status", h.Order.UpdateStatus)
	}
}
