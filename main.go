package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"syndicate-engine/handlers"
	"syndicate-engine/models"
	"syndicate-engine/services"
	"syndicate-engine/utils"
	"syndicate-engine/workers"

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

	app := fiber.New()

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
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Player-ID, X-Admin-Key",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.SaveState{},
		&models.MarketRecord{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	store := services.NewStore(db)
	if err := store.Load(); err != nil {
		log.Fatal("failed to load save states:", err)
	}

	narrative := services.NewNarrativeClient(
		os.Getenv("NARRATIVE_SERVICE_URL"),
		os.Getenv("NARRATIVE_SERVICE_TOKEN"),
	)
	if narrative.Offline() {
		log.Println("⚠️  Narrative service not configured, running with offline fallbacks")
	}

	dice := services.NewDice(time.Now().UnixNano())
	missionService := services.NewMissionService(store, dice, narrative)
	combatService := services.NewCombatService(store, dice)
	economyService := services.NewEconomyService(store, dice, narrative)
	adminService := services.NewAdminService(store, narrative)

	if err := economyService.InitMarket(); err != nil {
		log.Fatal("failed to seed market:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Off-site save backups only when the bucket is configured.
	var backup *workers.BackupWorker
	if utils.R2Configured() {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		backup = workers.NewBackupWorker(store)
		go backup.Poll(ctx, 1*time.Hour)
		log.Println("✅ Save backup worker running (every 1h)")
	} else {
		log.Println("⚠️  R2 not configured, save backups disabled")
	}

	sched, err := services.StartScheduler(economyService)
	if err != nil {
		log.Fatal("failed to start scheduler:", err)
	}
	defer func() { _ = sched.Shutdown() }()

	gameHandler := handlers.NewGameHandler(store, missionService, combatService, economyService)
	handlers.SetupGameRoutes(app, gameHandler)

	var backupTrigger handlers.BackupTrigger
	if backup != nil {
		backupTrigger = backup
	}
	adminHandler := handlers.NewAdminHandler(adminService, backupTrigger)
	handlers.SetupAdminRoutes(app, adminHandler)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Energy tick + market refresh scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
