package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"floorplan3d/internal/common/config"
	"floorplan3d/internal/common/middleware"
	"floorplan3d/internal/generator/handlers"
	"floorplan3d/internal/generator/ml"
	"floorplan3d/internal/generator/models"
	"floorplan3d/internal/generator/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Generator Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	model := ml.NewModelAdapter(cfg.InferenceURL)

	defaults := models.Params{
		WallHeight:       cfg.WallHeight,
		WallThickness:    cfg.WallThickness,
		DoorHeight:       cfg.DoorHeight,
		WindowHeight:     cfg.WindowHeight,
		WindowSillHeight: cfg.WindowSillHeight,
	}
	handler := handlers.NewHandler(model, repo, defaults)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "FloorPlan 3D Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := repo.Ping(context.Background()); err != nil {
			return c.Status(503).JSON(fiber.Map{"status": "db unavailable"})
		}
		status := fiber.Map{"status": "ready"}
		// Модель — внешний collaborator: ее недоступность не блокирует readiness
		if err := model.CheckHealth(); err != nil {
			status["inference"] = "unavailable"
		}
		return c.JSON(status)
	})

	// ============================================================
	// Generator Routes
	// ============================================================

	app.Post("/detect", handler.Detect)
	app.Post("/generate3d", handler.Generate3D)
	app.Post("/generate3d/detection", handler.GenerateFromDetection)
	app.Get("/generations", handler.History)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting FloorPlan 3D Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
