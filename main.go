package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"memory-match-service/handlers"
	"memory-match-service/models"
	"memory-match-service/services"
	"memory-match-service/utils"
	"memory-match-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — image uploads only
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.GameState{},
		&models.LeaderboardRecord{},
		&models.Profile{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// --- CONFIGURE the auth provider (token resolution + admin sync) ---
	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	authAnonKey := os.Getenv("AUTH_ANON_KEY")
	if authAnonKey == "" {
		log.Fatal("AUTH_ANON_KEY environment variable not set")
	}
	authServiceKey := os.Getenv("AUTH_SERVICE_ROLE_KEY")
	if authServiceKey == "" {
		log.Fatal("AUTH_SERVICE_ROLE_KEY environment variable not set")
	}
	// --- END CONFIG ---

	authClient := services.NewAuthClient(authServiceURL, authAnonKey)

	leaderboardService := services.NewLeaderboardService(db)
	sessionService := services.NewSessionService(db, leaderboardService)
	profileService := services.NewProfileService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewProfileSyncWorker(db, authServiceURL, authServiceKey)
	syncWorker.Start(ctx)

	sessionService.StartCleanupScheduler()

	handlers.SetupGameRoutes(app, sessionService, leaderboardService, authClient)
	handlers.SetupProfileRoutes(app, profileService, authClient)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Stale session sweeper running (hourly)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
