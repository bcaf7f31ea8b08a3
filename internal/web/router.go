package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skyops/crew-admin/internal/web/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Admin     *handlers.AdminHandler
	Health    *handlers.HealthHandler
	Guard     fiber.Handler
}

// RegisterRoutes wires HTTP routes. The guard self-selects by path prefix,
// so it runs before every page route.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/ops/metrics", cfg.Health.Metrics)

	app.Use(cfg.Guard)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard", fiber.StatusFound)
	})

	app.Get("/login", cfg.Auth.LoginPage)
	app.Post("/login", cfg.Auth.Login)
	app.Get("/signup", cfg.Auth.SignupPage)
	app.Post("/signup", cfg.Auth.Signup)
	app.Get("/check-email", cfg.Auth.CheckEmail)
	app.Post("/resend-confirmation", cfg.Auth.Resend)
	app.Get("/confirm/:token", cfg.Auth.Confirm)
	app.Get("/confirm-error", cfg.Auth.ConfirmErrorPage)
	app.Get("/email-confirmed", cfg.Auth.EmailConfirmed)
	app.Get("/set-password", cfg.Auth.SetPasswordPage)
	app.Post("/set-password", cfg.Auth.SetPassword)
	app.Get("/unauthorized", cfg.Auth.UnauthorizedPage)
	app.Get("/logout", cfg.Auth.Logout)

	app.Get("/dashboard", cfg.Dashboard.Home)
	app.Get("/dashboard/:area", cfg.Dashboard.Area)

	admin := app.Group("/admin")
	admin.Get("/access-control", cfg.Admin.AccessControl)
	admin.Post("/access-control/policies", cfg.Admin.AddPolicy)
	admin.Post("/access-control/policies/delete", cfg.Admin.DeletePolicy)
	admin.Post("/access-control/roles", cfg.Admin.AssignRoles)
	admin.Post("/access-control/roles/remove", cfg.Admin.RemoveRole)
	admin.Get("/invite", cfg.Admin.InvitePage)
	admin.Post("/invite", cfg.Admin.Invite)
}
