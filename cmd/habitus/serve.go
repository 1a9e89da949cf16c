package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arnold/habitus-api/internal/database"
	"github.com/arnold/habitus-api/internal/logger"
	"github.com/arnold/habitus-api/internal/handlers"
	"github.com/arnold/habitus-api/internal/middleware"
	"github.com/arnold/habitus-api/internal/routes"
	"github.com/arnold/habitus-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	log := logger.Get()

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	rdb := openRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	backend, closeBackend, err := openBackend(ctx, cfg, db, rdb)
	if err != nil {
		return err
	}
	defer closeBackend()

	var revocations services.Revocations = services.NewMemoryRevocations()
	if rdb != nil {
		revocations = services.NewRedisRevocations(rdb)
	}
	authSvc := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiry, revocations)
	activity := services.NewActivityService(db, log)
	hub := handlers.NewHub(log)

	app := fiber.New(fiber.Config{
		AppName: "habitus",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogging(log))

	routes.Setup(app, routes.Deps{
		AuthService: authSvc,
		Redis:       rdb,
		RateLimit:   cfg.AuthRateLimit,
		RateWindow:  cfg.AuthRateWindow,
		Health:      handlers.NewHealthHandler(db, backend.Name()),
		Auth:        handlers.NewAuthHandler(authSvc, log),
		Users:       handlers.NewUserHandler(db),
		Goals:       handlers.NewGoalHandler(backend, hub, activity, log),
		Activity:    handlers.NewActivityHandler(activity),
		Hub:         hub,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown failed", "error", err)
		return err
	}
	log.Info("server exited")
	return nil
}
