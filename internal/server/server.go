package server

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/picdrop/internal/config"
	"github.com/mansoorceksport/picdrop/internal/domain"
	"github.com/mansoorceksport/picdrop/internal/handler"
	"github.com/mansoorceksport/picdrop/internal/repository"
	"github.com/mansoorceksport/picdrop/internal/service"
	"github.com/mansoorceksport/picdrop/internal/telemetry"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config *config.Config
	DB     *sql.DB

	// FileRepository overrides the config-selected storage backend when
	// set; tests use this to inject a temp-dir or failing backend.
	FileRepository domain.FileRepository
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	// Initialize repositories
	userRepo := repository.NewPostgresUserRepository(deps.DB)

	fileRepo := deps.FileRepository
	if fileRepo == nil {
		switch deps.Config.Storage.Backend {
		case "s3":
			s3Repo, err := repository.NewSeaweedS3Repository(context.Background(), deps.Config.S3)
			if err != nil {
				log.Fatalf("Failed to initialize S3 repository: %v", err)
			}
			fileRepo = s3Repo
		default:
			fileRepo = repository.NewDiskFileRepository(deps.Config.Storage.ImagesDir)
		}
	}

	// Initialize services
	profileService := service.NewProfileService(fileRepo, userRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(profileService, deps.Config.Server.MaxUploadSizeMB)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PicDrop API",
		BodyLimit:    int(deps.Config.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	if deps.Config.OTEL.Enabled {
		app.Use(telemetry.FiberMiddleware())
	}

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "picdrop",
		})
	})

	// API routes
	api := app.Group("/api")
	api.Post("/user/image", userHandler.AddUserImage)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("Error: %v", err)
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
