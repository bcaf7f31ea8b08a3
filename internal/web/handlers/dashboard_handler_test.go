package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardApp() *fiber.App {
	handler := NewDashboardHandler(testSession)
	app := newViewApp()
	app.Get("/dashboard", handler.Home)
	app.Get("/dashboard/:area", handler.Area)
	return app
}

func TestDashboardHomeRoutesByRoleCookie(t *testing.T) {
	app := newDashboardApp()

	cases := map[string]string{
		"admin":   "/dashboard/admin",
		"planner": "/dashboard/planner",
		"crew":    "/dashboard/crew",
		"":        "/dashboard/crew",
		"unknown": "/dashboard/crew",
	}

	for role, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		if role != "" {
			req.AddCookie(&http.Cookie{Name: "user_role", Value: role})
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, role)
		assert.Equal(t, want, resp.Header.Get("Location"), role)
	}
}

func TestDashboardAreaRendersTitle(t *testing.T) {
	app := newDashboardApp()

	body := readBody(t, get(t, app, "/dashboard/planner"))
	assert.Contains(t, body, "Planner Dashboard")
}

func TestDashboardUnknownAreaRedirectsHome(t *testing.T) {
	app := newDashboardApp()

	resp := get(t, app, "/dashboard/ops")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}
