// main.go
package main

import (
	"context"
	"fmt"
	"go-grocery/controllers"
	"go-grocery/models"
	"go-grocery/routes"
	"go-grocery/services"
	"go-grocery/utils"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Optional Redis read cache for catalog listings
	var cache *utils.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cache, err = utils.NewCache(addr)
		if err != nil {
			log.Printf("Redis unavailable, continuing without cache: %v", err)
		} else {
			defer cache.Close()
		}
	}

	// Delivery batch assignment strategy
	var strategy services.BatchStrategy
	switch os.Getenv("BATCH_STRATEGY") {
	case "slots":
		strategy = services.SlotWindowBatch{}
	default:
		strategy = services.StaticBatch{Name: models.BatchMorning}
	}

	baseURL := os.Getenv("BASE_URL")
	orderService := services.NewOrderService(client, strategy, baseURL)
	orderService.Cache = cache

	// Initialize controllers
	c := routes.Controllers{
		User:     controllers.NewUserController(client),
		Product:  controllers.NewProductController(client, cache, baseURL),
		Cart:     controllers.NewCartController(client, baseURL),
		Order:    controllers.NewOrderController(client, orderService, emailService),
		Vendor:   controllers.NewVendorController(client, orderService),
		Customer: controllers.NewCustomerController(client),
		Report:   controllers.NewReportController(client, orderService),
		Slot:     controllers.NewDeliverySlotController(client),
	}

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, c)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
