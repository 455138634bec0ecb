package routes

import (
	"os"
	"strings"

	"carropro-backend/config"
	"carropro-backend/controllers"
	"carropro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)

		profile := auth.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-shop", controllers.UpdateShopProfile)
			profile.PUT("/update-hours", controllers.UpdateBusinessHours)
			profile.PUT("/update-templates", controllers.UpdateRelanceTemplate)
			profile.PUT("/update-notifications", controllers.UpdateNotificationSettings)
		}
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
			clients.GET("/:id/vehicles", controllers.GetClientVehicles)
		}

		// Vehicle routes
		vehicles := api.Group("/vehicles")
		{
			vehicles.POST("", controllers.CreateVehicle)
			vehicles.GET("/:id", controllers.GetVehicle)
			vehicles.PUT("/:id", controllers.UpdateVehicle)
			vehicles.DELETE("/:id", controllers.DeleteVehicle)
		}

		// Insurer routes
		insurers := api.Group("/insurers")
		{
			insurers.POST("", controllers.CreateInsurer)
			insurers.GET("", controllers.GetInsurers)
			insurers.GET("/:id", controllers.GetInsurer)
			insurers.PUT("/:id", controllers.UpdateInsurer)
			insurers.DELETE("/:id", controllers.DeactivateInsurer)
		}

		// Quote routes
		quotes := api.Group("/quotes")
		{
			quotes.POST("", controllers.CreateQuote)
			quotes.GET("", controllers.GetQuotes)
			quotes.GET("/:id", controllers.GetQuote)
			quotes.PUT("/:id", controllers.UpdateQuote)
			quotes.DELETE("/:id", controllers.DeleteQuote)

			quotes.POST("/:id/items", controllers.AddQuoteItem)
			quotes.PUT("/:id/items/:itemId", controllers.UpdateQuoteItem)
			quotes.DELETE("/:id/items/:itemId", controllers.DeleteQuoteItem)

			quotes.POST("/:id/status", controllers.ChangeQuoteStatus)
			quotes.GET("/:id/history", controllers.GetQuoteHistory)

			quotes.POST("/:id/claim", controllers.CreateClaim)
			quotes.GET("/:id/claim", controllers.GetClaim)
			quotes.PUT("/:id/claim", controllers.UpdateClaim)
			quotes.POST("/:id/claim/notes", controllers.AddClaimNote)

			quotes.POST("/:id/followups", controllers.CreateFollowUp)
			quotes.GET("/:id/followups", controllers.GetFollowUps)
		}

		// Follow-up queue
		api.GET("/followups/queue", controllers.GetFollowUpQueue)

		// Estimator routes
		estimators := api.Group("/estimators")
		{
			estimators.GET("", controllers.GetEstimators)
			estimators.POST("", controllers.AddEstimator)
			estimators.PUT("/:id", controllers.UpdateEstimator)
			estimators.DELETE("/:id", controllers.DeactivateEstimator)
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetSalesAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
