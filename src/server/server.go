// Package server assembles the Fiber application: middleware, routes and error rendering.
package server

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/codebros/codebros-backend/src/config"
	"github.com/codebros/codebros-backend/src/controllers"
	"github.com/codebros/codebros-backend/src/metrics"
	"github.com/codebros/codebros-backend/src/middleware"
	"github.com/codebros/codebros-backend/src/routes"
	"github.com/codebros/codebros-backend/src/services"
	"github.com/codebros/codebros-backend/src/storage"
)

// New builds the application on top of store.
func New(cfg *config.Config, store storage.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CodeBros",
		ErrorHandler: middleware.ErrorHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Server.IsDevelopment()}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.Logging())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.ViewerHeader,
	}))
	app.Use(middleware.Metrics())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	userService := services.NewUserService(store)
	connectionService := services.NewConnectionService(store)
	messageService := services.NewMessageService(store)
	notificationService := services.NewNotificationService(store)

	api := app.Group("/api", middleware.Viewer)
	api.Get("/health", controllers.NewHealthController(store).Health)

	if cfg.RateLimit.Max > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit.Max,
			Expiration: cfg.RateLimit.Window,
		}))
	}

	routes.AuthRoutes(api, controllers.NewAuthController(userService))
	routes.UserRoutes(api,
		controllers.NewUserController(userService, connectionService),
		controllers.NewNotificationController(notificationService),
	)
	routes.ConnectionRoutes(api, controllers.NewConnectionController(connectionService))
	routes.MessageRoutes(api, controllers.NewMessageController(messageService))

	if dir := strings.TrimSpace(cfg.Server.StaticDir); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			app.Static("/", dir)
		}
	}

	return app
}
