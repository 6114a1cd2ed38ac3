package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agroshop_back_end/internal/handlers/product"
	"agroshop_back_end/internal/handlers/user"
	"agroshop_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, users *user.Handler, products *product.Handler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Public
	api.POST("/register", middleware.RegisterRateLimit(), users.Register)
	api.POST("/login", middleware.LoginRateLimit(), users.Login)
	api.GET("/products", products.ListProducts)
	api.GET("/products/search", products.SearchProducts)
	api.GET("/categories", products.ListCategories)

	// Authentifié
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())

	auth.POST("/logout", users.Logout)
	auth.GET("/me", users.Me)

	auth.GET("/cart", users.GetCart)
	auth.POST("/cart/add", users.AddToCart)
	auth.PUT("/cart/:productId", users.UpdateCartItem)
	auth.DELETE("/cart/:productId", users.RemoveFromCart)
	auth.DELETE("/cart", users.ClearCart)

	auth.POST("/orders", users.CreateOrder)
	auth.POST("/checkout", users.Checkout)
	auth.GET("/orders", users.GetOrders)
	auth.GET("/orders/:id", users.GetOrderByID)
	auth.GET("/orders/:id/invoice", users.DownloadInvoice)
	auth.GET("/orders/:id/invoice-url", users.GetInvoiceLink)

	// Admin
	admin := auth.Group("")
	admin.Use(middleware.RequireAdmin)

	admin.POST("/products", products.CreateProduct)
	admin.PUT("/products/:id", products.UpdateProduct)
	admin.DELETE("/products/:id", products.DeleteProduct)
	admin.POST("/products/:id/image", products.UploadProductImage)
}
