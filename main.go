package main

import (
	"fmt"
	"log"
	"os"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/routes"
	"carropro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Shop{},
		&models.User{},
		&models.Client{},
		&models.Vehicle{},
		&models.Insurer{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.QuoteStatusHistory{},
		&models.QuoteSequence{},
		&models.Claim{},
		&models.ClaimNote{},
		&models.FollowUp{},
		&models.RelanceTemplate{},
		&models.SMSLog{},
	)
}

func main() {
	relances := services.NewRelanceService(config.DB)
	relances.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
