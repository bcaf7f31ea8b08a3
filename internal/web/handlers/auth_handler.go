package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skyops/crew-admin/internal/backend"
	"github.com/skyops/crew-admin/internal/cache"
	"github.com/skyops/crew-admin/internal/config"
	"github.com/skyops/crew-admin/internal/guard"
	"github.com/skyops/crew-admin/internal/web/forms"
)

const genericFailure = "Something went wrong. Please try again later."

// AuthAPI is the backend surface the auth pages need.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*backend.TokenPair, error)
	Signup(ctx context.Context, email, password string) error
	ConfirmEmail(ctx context.Context, token string) error
	ResendConfirmation(ctx context.Context, email string) error
	CompleteInvite(ctx context.Context, token, password string) (*backend.TokenPair, error)
}

// AuthHandler serves the authentication pages and forms.
type AuthHandler struct {
	api      AuthAPI
	session  config.SessionConfig
	signup   config.SignupConfig
	cooldown *cache.Cooldown
	logger   *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(api AuthAPI, session config.SessionConfig, signup config.SignupConfig, cooldown *cache.Cooldown, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{api: api, session: session, signup: signup, cooldown: cooldown, logger: logger}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{"Email": "", "Error": ""})
}

// Login handles POST /login. Empty fields never reach the network; a 401
// from the backend renders an inline message without any redirect.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return c.Render("login", fiber.Map{"Email": "", "Error": "Invalid form submission"})
	}
	if err := form.Validate(); err != nil {
		return c.Render("login", fiber.Map{"Email": form.Email, "Error": err.Error()})
	}

	tokens, err := h.api.Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		message := genericFailure
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
				message = "Invalid email or password"
			} else {
				message = apiErr.Message
			}
		}
		h.logger.Warn("login failed", zap.Error(err))
		return c.Render("login", fiber.Map{"Email": form.Email, "Error": message})
	}

	role := ""
	if claims, err := guard.DecodeClaims(tokens.AccessToken); err == nil {
		role = claims.Role
	}
	h.setSession(c, tokens, role)
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// SignupPage handles GET /signup.
func (h *AuthHandler) SignupPage(c *fiber.Ctx) error {
	data := fiber.Map{"Email": "", "Error": "", "EmailDomain": h.signup.EmailDomain}
	if c.Query("resend") == "failed" {
		data["Error"] = "We could not find that account. Please sign up again."
	}
	return c.Render("signup", data)
}

// Signup handles POST /signup. Validation runs entirely before any request.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	render := func(email, message string) error {
		return c.Render("signup", fiber.Map{"Email": email, "Error": message, "EmailDomain": h.signup.EmailDomain})
	}

	var form forms.SignupForm
	if err := c.BodyParser(&form); err != nil {
		return render("", "Invalid form submission")
	}
	if err := form.Validate(h.signup.EmailDomain, h.signup.MinPasswordLength); err != nil {
		return render(form.Email, err.Error())
	}

	if err := h.api.Signup(c.UserContext(), form.Email, form.Password); err != nil {
		message := genericFailure
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			message = apiErr.Message
		}
		h.logger.Warn("signup failed", zap.Error(err))
		return render(form.Email, message)
	}

	return c.Redirect("/check-email?email="+url.QueryEscape(form.Email), fiber.StatusFound)
}

// CheckEmail handles GET /check-email.
func (h *AuthHandler) CheckEmail(c *fiber.Ctx) error {
	return c.Render("check_email", checkEmailData(c.Query("email")))
}

// Resend handles POST /resend-confirmation and maps the backend statuses:
// 200 success + cool-down, 400 already confirmed, 403 not eligible,
// 404 unknown account, anything else a generic failure.
func (h *AuthHandler) Resend(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if email == "" {
		data := checkEmailData("")
		data["Error"] = "Missing email. Cannot resend confirmation."
		return c.Render("check_email", data)
	}

	data := checkEmailData(email)
	if h.cooldown.Active(c.UserContext(), email) {
		data["Message"] = "We've sent you a new confirmation email."
		data["Disabled"] = true
		return c.Render("check_email", data)
	}

	if err := h.api.ResendConfirmation(c.UserContext(), email); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusBadRequest:
				return c.Redirect("/login", fiber.StatusFound)
			case http.StatusForbidden:
				data["Warning"] = "This option is available only for crew accounts."
				return c.Render("check_email", data)
			case http.StatusNotFound:
				return c.Redirect("/signup?resend=failed", fiber.StatusFound)
			}
		}
		h.logger.Warn("resend confirmation failed", zap.Error(err))
		data["Error"] = "Could not resend. Please try again later."
		return c.Render("check_email", data)
	}

	h.cooldown.Begin(c.UserContext(), email)
	data["Message"] = "We've sent you a new confirmation email."
	data["Disabled"] = true
	return c.Render("check_email", data)
}

// Confirm handles GET /confirm/:token.
func (h *AuthHandler) Confirm(c *fiber.Ctx) error {
	if err := h.api.ConfirmEmail(c.UserContext(), c.Params("token")); err != nil {
		reason := "invalid"
		var confirmErr *backend.ConfirmError
		if errors.As(err, &confirmErr) {
			reason = confirmErr.Reason
		}
		h.logger.Warn("email confirmation failed", zap.String("reason", reason), zap.Error(err))
		return c.Redirect("/confirm-error?reason="+url.QueryEscape(reason), fiber.StatusFound)
	}
	return c.Redirect("/email-confirmed", fiber.StatusFound)
}

// ConfirmErrorPage handles GET /confirm-error.
func (h *AuthHandler) ConfirmErrorPage(c *fiber.Ctx) error {
	message := "Something went wrong."
	action, label := "/signup", "Return to Signup"

	switch c.Query("reason") {
	case "expired":
		message = "Your confirmation link has expired."
	case "already-confirmed":
		message = "This account has already been confirmed."
		action, label = "/login", "Return to Login"
	case "invalid":
		message = "Invalid or malformed confirmation link."
	}

	return c.Render("confirm_error", fiber.Map{"Message": message, "ActionHref": action, "ActionLabel": label})
}

// EmailConfirmed handles GET /email-confirmed.
func (h *AuthHandler) EmailConfirmed(c *fiber.Ctx) error {
	return c.Render("email_confirmed", fiber.Map{})
}

// UnauthorizedPage handles GET /unauthorized.
func (h *AuthHandler) UnauthorizedPage(c *fiber.Ctx) error {
	return c.Render("unauthorized", fiber.Map{})
}

// SetPasswordPage handles GET /set-password.
func (h *AuthHandler) SetPasswordPage(c *fiber.Ctx) error {
	token := c.Query("token")
	return c.Render("set_password", fiber.Map{
		"Token": token, "TokenMissing": token == "", "Success": false, "Error": "",
	})
}

// SetPassword handles POST /set-password (invite completion).
func (h *AuthHandler) SetPassword(c *fiber.Ctx) error {
	token := c.FormValue("token")
	render := func(message string, success bool) error {
		return c.Render("set_password", fiber.Map{
			"Token": token, "TokenMissing": token == "", "Success": success, "Error": message,
		})
	}
	if token == "" {
		return render("", false)
	}

	var form forms.SetPasswordForm
	if err := c.BodyParser(&form); err != nil {
		return render("Invalid form submission", false)
	}
	if err := form.Validate(h.signup.MinPasswordLength); err != nil {
		return render(err.Error(), false)
	}

	if _, err := h.api.CompleteInvite(c.UserContext(), token, form.Password); err != nil {
		message := genericFailure
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			message = apiErr.Message
		}
		h.logger.Warn("set password failed", zap.Error(err))
		return render(message, false)
	}

	return render("", true)
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearSession(c)
	return c.Redirect("/login", fiber.StatusFound)
}

func (h *AuthHandler) setSession(c *fiber.Ctx, tokens *backend.TokenPair, role string) {
	h.setCookie(c, h.session.AccessTokenCookie, tokens.AccessToken)
	h.setCookie(c, h.session.RefreshTokenCookie, tokens.RefreshToken)
	h.setCookie(c, h.session.RoleCookie, role)
}

func (h *AuthHandler) clearSession(c *fiber.Ctx) {
	for _, name := range []string{h.session.AccessTokenCookie, h.session.RefreshTokenCookie, h.session.RoleCookie} {
		c.Cookie(&fiber.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HTTPOnly: true, Secure: h.session.Secure, SameSite: fiber.CookieSameSiteLaxMode})
	}
}

func (h *AuthHandler) setCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.session.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func checkEmailData(email string) fiber.Map {
	return fiber.Map{
		"Email": email, "Message": "", "Warning": "", "Error": "", "Disabled": false,
	}
}
