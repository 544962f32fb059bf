// Package main provides the Planline API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/planline/planline/pkg/eventbus"
	"github.com/planline/planline/pkg/generation"
	"github.com/planline/planline/pkg/persistence"
	"github.com/planline/planline/pkg/services"
	"github.com/planline/planline/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	generator   generation.Generator
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	generator generation.Generator,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		generator:   generator,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	projectService := services.NewProject(a.persistence)
	ideaService := services.NewIdea(a.persistence)
	roadmapService := services.NewRoadmap(a.persistence, a.generator, a.eventBus, a.logger)

	handlers := web.NewAPIHandlers(projectService, ideaService, roadmapService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Planline API")
	})

	p := app.Group("/projects")
	p.Get("/", handlers.GetProjects)
	p.Post("/", handlers.CreateProject)
	p.Get("/:id", handlers.GetProject)
	p.Patch("/:id", handlers.UpdateProject)
	p.Delete("/:id", handlers.DeleteProject)

	// Idea endpoints:
	p.Get("/:id/ideas", handlers.GetIdeas)
	p.Post("/:id/ideas", handlers.CreateIdea)
	p.Delete("/:id/ideas/:ideaId", handlers.DeleteIdea)

	// Roadmap endpoints:
	p.Post("/:id/roadmap", handlers.GenerateRoadmap)
	p.Get("/:id/roadmap", handlers.GetRoadmap)
	p.Get("/:id/roadmap/history", handlers.GetRoadmapHistory)
	p.Get("/:id/roadmap/timeline", handlers.GetTimeline)
	p.Get("/:id/roadmap/export", handlers.ExportTimeline)

	app.Patch("/roadmaps/:roadmapId/timeline", handlers.EditTimeline)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
