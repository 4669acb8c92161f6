package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/laundryin-id/laundryin-api/config"
	"github.com/laundryin-id/laundryin-api/controllers"
	"github.com/laundryin-id/laundryin-api/middleware"
)

// setupRouter builds the full route table. Public routes (browsing, health)
// need no token; everything else sits behind JWT validation.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoints
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Public marketplace browsing
		v1.GET("/shops", controllers.ListShops)
		v1.GET("/shops/:id", controllers.GetShop)
		v1.GET("/images/*key", controllers.GetImage)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			// Profiles
			authed.POST("/profiles", controllers.CreateProfile)
			authed.GET("/profiles/me", controllers.GetMyProfile)
			authed.PUT("/profiles/me", controllers.UpdateMyProfile)
			authed.GET("/notifications", controllers.ListMyNotifications)

			// Customer orders
			authed.POST("/orders", controllers.CreateOrder)
			authed.GET("/orders", controllers.ListMyOrders)

			// Shop operator surface
			authed.POST("/shops", controllers.CreateShop)
			authed.GET("/shops/me", controllers.GetMyShop)
			authed.PUT("/shops/me", controllers.UpdateMyShop)
			authed.GET("/shops/me/summary", controllers.GetMyShopSummary)
			authed.GET("/shops/me/stats/daily", controllers.GetMyShopDailyStats)
			authed.GET("/shops/me/orders", controllers.ListShopOrders)
			authed.GET("/shops/me/events", controllers.StreamShopEvents)
			authed.POST("/shops/me/services", controllers.CreateService)
			authed.GET("/shops/me/services", controllers.ListMyServices)
			authed.DELETE("/shops/me/services/:serviceID", controllers.DeleteService)

			// Order lifecycle
			authed.POST("/orders/:id/status", controllers.AdvanceOrderStatus)
			authed.POST("/orders/:id/weigh-in", controllers.ConfirmWeighIn)
			authed.POST("/orders/:id/payment", controllers.TogglePayment)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "LaundryIn API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not connected",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
