package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skyops/crew-admin/internal/config"
	"github.com/skyops/crew-admin/internal/domain"
)

// DashboardHandler routes authenticated users to their role's dashboard.
type DashboardHandler struct {
	session config.SessionConfig
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(session config.SessionConfig) *DashboardHandler {
	return &DashboardHandler{session: session}
}

// Home handles GET /dashboard: the role flag cookie picks the area, with
// crew as the default.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	switch c.Cookies(h.session.RoleCookie) {
	case domain.FunctionAdmin:
		return c.Redirect("/dashboard/admin", fiber.StatusFound)
	case domain.FunctionPlanner:
		return c.Redirect("/dashboard/planner", fiber.StatusFound)
	default:
		return c.Redirect("/dashboard/crew", fiber.StatusFound)
	}
}

// Area handles GET /dashboard/:area.
func (h *DashboardHandler) Area(c *fiber.Ctx) error {
	var title string
	switch c.Params("area") {
	case "admin":
		title = "Admin Dashboard"
	case "planner":
		title = "Planner Dashboard"
	case "crew":
		title = "Crew Dashboard"
	default:
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return c.Render("dashboard", fiber.Map{"Title": title})
}
