package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/skyops/crew-admin/internal/backend"
	"github.com/skyops/crew-admin/internal/config"
	"github.com/skyops/crew-admin/internal/events"
	"github.com/skyops/crew-admin/internal/guard"
)

// requestContext derives the backend call context from the request: the
// session bearer token for authenticated calls and, when the guard ran, the
// acting subject for the audit trail.
func requestContext(c *fiber.Ctx, session config.SessionConfig) context.Context {
	ctx := c.UserContext()
	if token := c.Cookies(session.AccessTokenCookie); token != "" {
		ctx = backend.WithToken(ctx, token)
	}
	if claims, ok := guard.ClaimsFromContext(c); ok {
		ctx = events.WithActor(ctx, events.Actor{Subject: claims.Subject, Role: claims.Role})
	}
	return ctx
}
