package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	authhandlers "room-planner/internal/auth/handlers"
	authrepo "room-planner/internal/auth/repository"
	"room-planner/internal/auth/service"
	cataloghandlers "room-planner/internal/catalog/handlers"
	catalogrepo "room-planner/internal/catalog/repository"
	"room-planner/internal/common/config"
	"room-planner/internal/common/health"
	"room-planner/internal/common/middleware"
	"room-planner/internal/docs"
	"room-planner/internal/editor"
	"room-planner/internal/storage"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Room Planner Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := storage.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	users := authrepo.New(db)
	if err := users.Init(ctx, cfg.AdminLogin, cfg.AdminPassword); err != nil {
		log.Fatalf("init users: %v", err)
	}

	furniture := catalogrepo.New(db)
	if n, err := furniture.Seed(ctx); err != nil {
		log.Fatalf("seed catalog: %v", err)
	} else if n > 0 {
		log.Printf("[CATALOG] seeded %d items", n)
	}

	sessions := service.NewSessionManager(time.Duration(cfg.SessionTTL) * time.Hour)
	authenticator := service.NewAuthenticator(sessions, cfg.CookieHashKey, cfg.CookieBlockKey)
	kv := storage.NewKV(db)
	files := storage.NewFileStorage(filepath.Join(cfg.DataDir, "files"))

	authHandler := authhandlers.NewAuthHandler(users, authenticator, kv, cfg.IsProduction())
	furnitureHandler := cataloghandlers.NewFurnitureHandler(furniture)
	editorHandler := editor.NewEditorHandler(editor.NewWorkspaces(kv), files)
	probes := health.NewProbes(db)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		AppName:      "Room Planner",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check Routes
	// ============================================================

	probes.Register(app)
	docs.Register(app)

	// ============================================================
	// API Routes
	// ============================================================

	furnitureHandler.Register(app.Group("/api"))

	requireAuth := middleware.RequireAuth(authenticator)

	auth := app.Group("/api/v1/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Get("/state", requireAuth, authHandler.State)

	editorHandler.Register(app.Group("/api/v1/editor", requireAuth))

	// ============================================================
	// Server Start
	// ============================================================

	probes.MarkStarted()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Room Planner on %s (env: %s, db: %s)", addr, cfg.Environment, cfg.DatabaseDriver)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
