package guard

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const claimsKey = "session_claims"

// Options configure the navigation guard.
type Options struct {
	// CookieName is the session token cookie.
	CookieName string
	// Protected lists the path prefixes the guard applies to. Requests
	// outside these prefixes bypass the guard entirely.
	Protected []string
	// AdminPrefix is the path prefix reserved for the admin role.
	AdminPrefix string
	// AdminRole is the role claim value allowed under AdminPrefix.
	AdminRole string

	LoginPath        string
	UnauthorizedPath string
}

func (o *Options) applyDefaults() {
	if o.CookieName == "" {
		o.CookieName = "access_token"
	}
	if len(o.Protected) == 0 {
		o.Protected = []string{"/dashboard", "/admin"}
	}
	if o.AdminPrefix == "" {
		o.AdminPrefix = "/admin"
	}
	if o.AdminRole == "" {
		o.AdminRole = "admin"
	}
	if o.LoginPath == "" {
		o.LoginPath = "/login"
	}
	if o.UnauthorizedPath == "" {
		o.UnauthorizedPath = "/unauthorized"
	}
}

// New builds the navigation guard middleware. Every decode or structural
// failure degrades to a login redirect; the guard never lets ambiguous input
// through and never surfaces an error to the caller.
func New(opts Options) fiber.Handler {
	opts.applyDefaults()

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !matchesAny(path, opts.Protected) {
			return c.Next()
		}

		token := c.Cookies(opts.CookieName)
		if token == "" {
			return c.Redirect(opts.LoginPath, fiber.StatusFound)
		}

		claims, err := DecodeClaims(token)
		if err != nil {
			return c.Redirect(opts.LoginPath, fiber.StatusFound)
		}

		if hasPathPrefix(path, opts.AdminPrefix) && claims.Role != opts.AdminRole {
			return c.Redirect(opts.UnauthorizedPath, fiber.StatusFound)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext retrieves the decoded session claims, if the guard ran.
func ClaimsFromContext(c *fiber.Ctx) (*SessionClaims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*SessionClaims)
	return claims, ok
}

func matchesAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPathPrefix matches whole path segments: "/admin" covers "/admin" and
// "/admin/...", not "/administrivia".
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
