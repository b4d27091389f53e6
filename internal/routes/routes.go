package routes

import (
	"github.com/gofiber/fiber/v2"

	"crm-dashboard-service/internal/controller"
)

// Controllers groups the HTTP handlers the router mounts.
type Controllers struct {
	Auth        controller.AuthController
	Integration controller.IntegrationController
	Facebook    controller.FacebookController
	Lead        controller.LeadController
}

// Register attaches all HTTP routes to the Fiber app. The OAuth callback
// and the health check stay outside the session middleware: the provider
// redirect carries no bearer token.
func Register(app *fiber.App, sessionAuth fiber.Handler, c Controllers) {
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/api/facebook/connect/callback", c.Facebook.ConnectCallback)

	api := app.Group("/api", sessionAuth)
	api.Post("/auth/sync", c.Auth.SyncUser)

	api.Get("/integrations", c.Integration.List)
	api.Get("/integrations/:name/status", c.Integration.Status)
	api.Get("/integrations/:name/connect", c.Integration.Connect)
	api.Post("/integrations/:name/disconnect", c.Integration.Disconnect)
	api.Get("/integrations/:name/leads", c.Integration.Leads)

	api.Get("/facebook/insights", c.Facebook.Insights)

	api.Patch("/leads/:id/status", c.Lead.UpdateStatus)
}
