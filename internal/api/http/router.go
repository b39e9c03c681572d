package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lessonkit/season-bot/internal/api/http/handlers"
	"github.com/lessonkit/season-bot/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Webhook     *handlers.WebhookHandler
	Secret      *auth.SecretMiddleware
	WebhookPath string
}

// RegisterRoutes wires HTTP routes. The webhook only accepts POST;
// fiber answers 405 for anything else on the path.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post(cfg.WebhookPath, cfg.Secret.Handle, cfg.Webhook.Handle)
}
