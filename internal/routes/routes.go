package routes

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mhnazari/zarshop-golang/internal/handlers"
	"github.com/mhnazari/zarshop-golang/internal/middleware"
)

// CORSMiddleware allows the storefront origin to call the API with
// credentials. The origin comes from FRONTEND_ORIGIN, defaulting to the
// local Vite dev server.
func CORSMiddleware() gin.HandlerFunc {
	origin := os.Getenv("FRONTEND_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		// Preflight
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Auth Routes (Public) ---
		v1.POST("/auth/register", h.Register)
		v1.POST("/auth/login", h.Login)
		v1.POST("/auth/login-phone", h.LoginWithPhone)
		v1.POST("/auth/otp/send", h.SendOtp)
		v1.POST("/auth/otp/verify", h.VerifyOtp)

		// --- Public Catalog Routes ---
		v1.GET("/products", h.GetProducts)
		v1.GET("/products/featured", h.GetFeaturedProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/products/:id/comments", h.GetProductComments)
		v1.GET("/categories", h.GetCategories)
		v1.GET("/rates", h.GetRates)
		v1.GET("/shipping-methods", h.GetShippingMethods)
		v1.GET("/settings", h.GetSettings)
		v1.POST("/coupons/validate", h.ValidateCoupon)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/profile/me", h.GetMe)

			auth.POST("/products/:id/comments", h.AddComment)

			auth.GET("/cart", h.GetCart)
			auth.POST("/cart/items", h.AddCartItem)
			auth.POST("/cart/items/:product_id/decrease", h.DecreaseCartItem)
			auth.DELETE("/cart/items/:product_id", h.DeleteCartItem)
			auth.DELETE("/cart", h.ClearCart)

			auth.POST("/checkout", h.Checkout)
			auth.GET("/orders", h.GetMyOrders)
			auth.GET("/orders/:id", h.GetOrderDetails)
			auth.POST("/orders/:id/payment", h.SubmitPayment)
		}

		// --- Admin-Only Routes ---
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		admin.Use(middleware.AdminMiddleware(h.DB))
		{
			admin.GET("/stats", h.GetAdminStats)
			admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)

			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.GET("/coupons", h.GetCoupons)
			admin.POST("/coupons", h.CreateCoupon)
			admin.DELETE("/coupons/:id", h.DeleteCoupon)

			admin.PATCH("/rates/:code", h.UpdateRate)
			admin.POST("/rates/sync", h.SyncLiveRates)

			admin.GET("/comments", h.GetAllComments)
			admin.PATCH("/comments/:id", h.UpdateCommentStatus)
			admin.DELETE("/comments/:id", h.DeleteComment)

			admin.PATCH("/settings", h.UpdateSettings)
			admin.POST("/shipping-methods", h.CreateShippingMethod)
			admin.DELETE("/shipping-methods/:id", h.DeleteShippingMethod)
		}
	}

	return router
}
