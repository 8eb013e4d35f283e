package routes

import (
	"github.com/gin-gonic/gin"

	"booksphere/controllers"
	"booksphere/middleware"
	"booksphere/models"
	"booksphere/services"
)

// Controllers bundles everything Register wires up.
type Controllers struct {
	Auth     *controllers.AuthController
	Books    *controllers.BookController
	Cart     *controllers.CartController
	Orders   *controllers.OrderController
	Feedback *controllers.FeedbackController
}

// Register mounts all routes. Public catalog browsing needs no session;
// everything else sits behind the token middleware, with seller and admin
// surfaces additionally role-gated.
func Register(r *gin.Engine, ctrl Controllers, tokens *services.TokenService) {
	auth := r.Group("/auth")
	auth.POST("/login", ctrl.Auth.Login)
	auth.POST("/register", ctrl.Auth.Register)
	auth.POST("/logout", middleware.Auth(tokens), ctrl.Auth.Logout)

	// Public catalog
	r.GET("/books", ctrl.Books.ListBooks)
	r.GET("/books/:id", ctrl.Books.GetBook)
	r.GET("/genres", ctrl.Books.ListGenres)

	// Reader portal
	user := r.Group("/")
	user.Use(middleware.Auth(tokens))
	user.GET("/cart", ctrl.Cart.GetCart)
	user.POST("/cart/items", ctrl.Cart.AddItem)
	user.DELETE("/cart/items/:index", ctrl.Cart.RemoveItem)
	user.POST("/cart/checkout", ctrl.Cart.Checkout)
	user.GET("/orders", ctrl.Orders.ListMyOrders)
	user.POST("/orders/:id/cancel", ctrl.Orders.CancelOrder)
	user.POST("/feedback", ctrl.Feedback.Submit)
	user.GET("/feedback", ctrl.Feedback.ListMine)
	user.GET("/feedback/rating", ctrl.Feedback.AverageRating)

	// Seller portal
	seller := r.Group("/seller")
	seller.Use(middleware.Auth(tokens), middleware.RequireRole(models.RoleSeller))
	seller.GET("/books", ctrl.Books.ListSellerBooks)
	seller.POST("/books", ctrl.Books.CreateBook)
	seller.PATCH("/books/:id", ctrl.Books.UpdateBook)
	seller.DELETE("/books/:id", ctrl.Books.DeleteBook)
	seller.GET("/orders", ctrl.Orders.ListSellerOrders)
	seller.PATCH("/orders/:id/status", ctrl.Orders.UpdateOrderStatus)
	seller.GET("/reports", ctrl.Orders.SellerReport)
	seller.GET("/metrics", ctrl.Orders.SellerMetrics)

	// Admin portal
	admin := r.Group("/admin")
	admin.Use(middleware.Auth(tokens), middleware.RequireRole(models.RoleAdmin))
	admin.GET("/orders", ctrl.Orders.ListAllOrders)
	admin.GET("/feedback", ctrl.Feedback.ListAll)
	admin.POST("/feedback/:id/resolve", ctrl.Feedback.Resolve)
}
