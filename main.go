package main

import (
	"context"
	"log"
	"os"

	"github.com/edgarhdzg/reservas-app/config"
	"github.com/edgarhdzg/reservas-app/localstore"
	"github.com/edgarhdzg/reservas-app/platform"
	"github.com/edgarhdzg/reservas-app/router"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := localstore.Open(cfg.LocalStorePath)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open local store: %v", err)
	}

	client, err := platform.New(platform.Config{
		URL:     cfg.PlatformURL,
		AnonKey: cfg.PlatformAnonKey,
	}, store)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to build platform client: %v", err)
	}

	auth := services.NewAuthService(client)
	defer auth.Close()

	reservations := services.NewReservationService(client)
	flow := services.NewReservationFlow(reservations)
	admin := services.NewAdminService(client)

	// Restore the persisted operator session before serving.
	auth.Bootstrap(context.Background())
	if user := auth.User(); user != nil {
		utils.InfoLogger.Printf("session restored for %s %s (%s)", user.FirstName, user.LastName, user.Role)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.SetupRouter(router.Deps{
		Auth:         auth,
		Reservations: reservations,
		Flow:         flow,
		Admin:        admin,
	})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
