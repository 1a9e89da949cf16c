package routes

import (
	"time"

	"github.com/arnold/habitus-api/internal/handlers"
	"github.com/arnold/habitus-api/internal/middleware"
	"github.com/arnold/habitus-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Deps struct {
	AuthService *services.AuthService
	Redis       *redis.Client
	RateLimit   int
	RateWindow  time.Duration

	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Users    *handlers.UserHandler
	Goals    *handlers.GoalHandler
	Activity *handlers.ActivityHandler
	Hub      *handlers.Hub
}

func Setup(app *fiber.App, d Deps) {
	app.Get("/health", d.Health.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	limited := middleware.RateLimit(d.Redis, d.RateLimit, d.RateWindow)
	protect := middleware.Protected(d.AuthService)

	auth := api.Group("/auth")
	auth.Post("/register", limited, d.Auth.Register)
	auth.Post("/login", limited, d.Auth.Login)
	auth.Get("/session", protect, d.Auth.Session)
	auth.Post("/logout", protect, d.Auth.Logout)

	protected := api.Group("/", protect)

	protected.Get("/me", d.Users.GetMe)
	protected.Put("/me", d.Users.UpdateProfile)
	protected.Get("/users", d.Users.SearchUsers)
	protected.Get("/users/:id", d.Users.GetUser)

	goals := protected.Group("/goals")
	goals.Get("/", d.Goals.ListGoals)
	goals.Post("/", d.Goals.CreateGoal)
	goals.Get("/:id", d.Goals.GetGoal)
	goals.Put("/:id", d.Goals.UpdateGoal)
	goals.Post("/:id/toggle", d.Goals.ToggleGoal)
	goals.Delete("/:id", d.Goals.DeleteGoal)

	protected.Get("/activity", d.Activity.GetActivity)

	// WebSocket for real-time goal updates
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, middleware.ProtectedUpgrade(d.AuthService))
	app.Get("/ws/goals", websocket.New(d.Hub.Handle))
}
