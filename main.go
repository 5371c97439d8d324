package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"frontdesk-backend/config"
	"frontdesk-backend/controllers"
	"frontdesk-backend/routes"
	"frontdesk-backend/services"
	"frontdesk-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied")

	port := utils.EnvOrDefault("PORT", "8080")
	addr := ":" + port

	// The checkout flow talks to the occupation API through the tolerant
	// client. By default that API is this very process; point PMS_API_URL at
	// an external property-management system to run against it instead.
	pmsBaseURL := utils.EnvOrDefault("PMS_API_URL", "http://127.0.0.1:"+port+"/api")
	backendClient := services.NewBackendClient(pmsBaseURL)
	log.Printf("🔗 Occupation API base URL: %s", pmsBaseURL)

	// Initialize services
	occupationService := services.NewOccupationService(db)
	checkoutService := services.NewCheckoutService(backendClient)

	// Initialize controllers
	occupationController := controllers.NewOccupationController(occupationService)
	checkoutController := controllers.NewCheckoutController(checkoutService)

	// Build router
	router := routes.SetupRouter(occupationController, checkoutController)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
