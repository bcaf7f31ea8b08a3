package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skyops/crew-admin/internal/backend"
	"github.com/skyops/crew-admin/internal/config"
	"github.com/skyops/crew-admin/internal/domain"
	"github.com/skyops/crew-admin/internal/resources"
	"github.com/skyops/crew-admin/internal/web/forms"
)

// AdminHandler serves the access-control and invite pages.
type AdminHandler struct {
	policies *resources.PolicyResource
	roles    *resources.RoleResource
	invites  *resources.InviteResource
	session  config.SessionConfig
	logger   *zap.Logger
}

// NewAdminHandler constructs handler.
func NewAdminHandler(policies *resources.PolicyResource, roles *resources.RoleResource, invites *resources.InviteResource, session config.SessionConfig, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{policies: policies, roles: roles, invites: invites, session: session, logger: logger}
}

// AccessControl handles GET /admin/access-control. Role reads run only once
// both the user and org unit filters are selected.
func (h *AdminHandler) AccessControl(c *fiber.Ctx) error {
	ctx := requestContext(c, h.session)

	tab := c.Query("tab", "roles")
	if tab != "roles" && tab != "policies" {
		tab = "roles"
	}
	userID := c.QueryInt("user_id")
	orgUnitID := c.QueryInt("org_unit_id")

	message := c.Query("error")

	policies, err := h.policies.List(ctx)
	if err != nil {
		h.logger.Warn("policy list failed", zap.Error(err))
		if message == "" {
			message = upstreamMessage(err, "Failed to load policies")
		}
	}

	assigned, err := h.roles.Assigned(ctx, userID, orgUnitID)
	if err != nil {
		h.logger.Warn("role list failed", zap.Error(err))
		if message == "" {
			message = upstreamMessage(err, "Failed to fetch roles")
		}
	}

	effective, err := h.roles.Effective(ctx, userID, orgUnitID)
	if err != nil {
		h.logger.Warn("effective permissions failed", zap.Error(err))
		if message == "" {
			message = upstreamMessage(err, "Failed to load user permissions")
		}
	}

	return c.Render("access_control", fiber.Map{
		"Tab":               tab,
		"Error":             message,
		"Users":             domain.DirectoryUsers,
		"OrgUnits":          domain.OrgUnits,
		"Functions":         domain.Functions,
		"Actions":           domain.Actions,
		"SelectedUserID":    userID,
		"SelectedOrgUnitID": orgUnitID,
		"Policies":          policies,
		"Assigned":          assigned,
		"Effective":         effective,
	})
}

// AddPolicy handles POST /admin/access-control/policies.
func (h *AdminHandler) AddPolicy(c *fiber.Ctx) error {
	var form forms.PolicyForm
	if err := c.BodyParser(&form); err != nil {
		return redirectPolicies(c, "Invalid form submission")
	}
	policy, err := form.ToPolicy()
	if err != nil {
		return redirectPolicies(c, err.Error())
	}

	if err := h.policies.Add(requestContext(c, h.session), policy); err != nil {
		h.logger.Warn("add policy failed", zap.Error(err))
		return redirectPolicies(c, upstreamMessage(err, "Failed to add policy"))
	}
	return redirectPolicies(c, "")
}

// DeletePolicy handles POST /admin/access-control/policies/delete.
func (h *AdminHandler) DeletePolicy(c *fiber.Ctx) error {
	var form forms.PolicyForm
	if err := c.BodyParser(&form); err != nil {
		return redirectPolicies(c, "Invalid form submission")
	}
	policy, err := form.ToPolicy()
	if err != nil {
		return redirectPolicies(c, err.Error())
	}

	if err := h.policies.Delete(requestContext(c, h.session), policy); err != nil {
		h.logger.Warn("delete policy failed", zap.Error(err))
		return redirectPolicies(c, upstreamMessage(err, "Failed to delete policy"))
	}
	return redirectPolicies(c, "")
}

// AssignRoles handles POST /admin/access-control/roles. Each selected
// function is one assignment; the first failure stops the batch.
func (h *AdminHandler) AssignRoles(c *fiber.Ctx) error {
	var form forms.RoleForm
	if err := c.BodyParser(&form); err != nil {
		return redirectRoles(c, 0, 0, "Invalid form submission")
	}
	assignments, err := form.ToAssignments()
	if err != nil {
		return redirectRoles(c, form.UserID, form.OrgUnitID, err.Error())
	}

	ctx := requestContext(c, h.session)
	for _, assignment := range assignments {
		if err := h.roles.Assign(ctx, assignment); err != nil {
			h.logger.Warn("assign role failed", zap.Error(err))
			return redirectRoles(c, form.UserID, form.OrgUnitID, upstreamMessage(err, "Failed to assign role"))
		}
	}
	return redirectRoles(c, form.UserID, form.OrgUnitID, "")
}

// RemoveRole handles POST /admin/access-control/roles/remove.
func (h *AdminHandler) RemoveRole(c *fiber.Ctx) error {
	var form forms.RoleForm
	if err := c.BodyParser(&form); err != nil {
		return redirectRoles(c, 0, 0, "Invalid form submission")
	}
	assignments, err := form.ToAssignments()
	if err != nil {
		return redirectRoles(c, form.UserID, form.OrgUnitID, err.Error())
	}

	ctx := requestContext(c, h.session)
	for _, assignment := range assignments {
		if err := h.roles.Remove(ctx, assignment); err != nil {
			h.logger.Warn("remove role failed", zap.Error(err))
			return redirectRoles(c, form.UserID, form.OrgUnitID, upstreamMessage(err, "Failed to remove role"))
		}
	}
	return redirectRoles(c, form.UserID, form.OrgUnitID, "")
}

// InvitePage handles GET /admin/invite.
func (h *AdminHandler) InvitePage(c *fiber.Ctx) error {
	return c.Render("invite", inviteData(forms.InviteForm{}, "", ""))
}

// Invite handles POST /admin/invite.
func (h *AdminHandler) Invite(c *fiber.Ctx) error {
	var form forms.InviteForm
	if err := c.BodyParser(&form); err != nil {
		return c.Render("invite", inviteData(form, "", "Invalid form submission"))
	}
	invite, err := form.ToRequest()
	if err != nil {
		return c.Render("invite", inviteData(form, "", err.Error()))
	}

	if err := h.invites.Invite(requestContext(c, h.session), invite); err != nil {
		h.logger.Warn("invite failed", zap.Error(err))
		return c.Render("invite", inviteData(form, "", upstreamMessage(err, "Failed to invite user")))
	}

	return c.Render("invite", inviteData(forms.InviteForm{}, fmt.Sprintf("Invitation sent to %s.", invite.Email), ""))
}

func redirectPolicies(c *fiber.Ctx, message string) error {
	target := "/admin/access-control?tab=policies"
	if message != "" {
		target += "&error=" + url.QueryEscape(message)
	}
	return c.Redirect(target, fiber.StatusFound)
}

func redirectRoles(c *fiber.Ctx, userID, orgUnitID int, message string) error {
	target := fmt.Sprintf("/admin/access-control?tab=roles&user_id=%d&org_unit_id=%d", userID, orgUnitID)
	if message != "" {
		target += "&error=" + url.QueryEscape(message)
	}
	return c.Redirect(target, fiber.StatusFound)
}

func inviteData(form forms.InviteForm, success, message string) fiber.Map {
	return fiber.Map{
		"Roles":      domain.InviteRoles,
		"Email":      form.Email,
		"Role":       form.Role,
		"Company":    form.Company,
		"AccessFrom": form.AccessFrom,
		"AccessTo":   form.AccessTo,
		"Success":    success,
		"Error":      message,
	}
}

// upstreamMessage keeps backend-provided messages and hides transport noise
// behind a per-operation fallback.
func upstreamMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}
