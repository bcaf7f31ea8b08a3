package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skyops/crew-admin/internal/backend"
	"github.com/skyops/crew-admin/internal/cache"
	"github.com/skyops/crew-admin/internal/config"
	"github.com/skyops/crew-admin/internal/domain"
	"github.com/skyops/crew-admin/internal/web/views"
)

var testSession = config.SessionConfig{
	AccessTokenCookie:  "access_token",
	RefreshTokenCookie: "refresh_token",
	RoleCookie:         "user_role",
}

var testSignup = config.SignupConfig{
	EmailDomain:           "@madagascarairlines.com",
	MinPasswordLength:     8,
	ResendCooldownSeconds: 60,
}

func newViewApp() *fiber.App {
	return fiber.New(fiber.Config{Views: views.Engine()})
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// unsignedToken builds a decodable JWT; the gateway never verifies signatures.
func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

// memStore is an in-memory cache.Store for tests.
type memStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.entries[key]
	return val, ok, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memStore) Add(_ context.Context, key string, value []byte, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false, nil
	}
	s.entries[key] = value
	return true, nil
}

func (s *memStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	return nil
}

func newTestCooldown() *cache.Cooldown {
	return cache.NewCooldown(newMemStore(), "cooldown:resend:", time.Minute, zap.NewNop())
}

func newTestReadCache() *cache.ReadCache {
	return cache.NewReadCache(newMemStore(), 30*time.Second, zap.NewNop())
}

// fakeAuthAPI scripts the backend auth surface per test.
type fakeAuthAPI struct {
	loginFn    func(email, password string) (*backend.TokenPair, error)
	signupFn   func(email, password string) error
	confirmFn  func(token string) error
	resendFn   func(email string) error
	completeFn func(token, password string) (*backend.TokenPair, error)

	loginCalls  int
	signupCalls int
	resendCalls int
}

func (f *fakeAuthAPI) Login(_ context.Context, email, password string) (*backend.TokenPair, error) {
	f.loginCalls++
	if f.loginFn == nil {
		return &backend.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil
	}
	return f.loginFn(email, password)
}

func (f *fakeAuthAPI) Signup(_ context.Context, email, password string) error {
	f.signupCalls++
	if f.signupFn == nil {
		return nil
	}
	return f.signupFn(email, password)
}

func (f *fakeAuthAPI) ConfirmEmail(_ context.Context, token string) error {
	if f.confirmFn == nil {
		return nil
	}
	return f.confirmFn(token)
}

func (f *fakeAuthAPI) ResendConfirmation(_ context.Context, email string) error {
	f.resendCalls++
	if f.resendFn == nil {
		return nil
	}
	return f.resendFn(email)
}

func (f *fakeAuthAPI) CompleteInvite(_ context.Context, token, password string) (*backend.TokenPair, error) {
	if f.completeFn == nil {
		return &backend.TokenPair{AccessToken: "at", RefreshToken: "rt"}, nil
	}
	return f.completeFn(token, password)
}

// fakePolicyAPI backs the policy resource in handler tests.
type fakePolicyAPI struct {
	policies []domain.Policy
	addErr   error
}

func (f *fakePolicyAPI) ListPolicies(context.Context) ([]domain.Policy, error) {
	return f.policies, nil
}

func (f *fakePolicyAPI) AddPolicy(_ context.Context, policy domain.Policy) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.policies = append(f.policies, policy)
	return nil
}

func (f *fakePolicyAPI) DeletePolicy(_ context.Context, policy domain.Policy) error {
	kept := f.policies[:0]
	for _, p := range f.policies {
		if p != policy {
			kept = append(kept, p)
		}
	}
	f.policies = kept
	return nil
}

// fakeRoleAPI backs the role resource in handler tests.
type fakeRoleAPI struct {
	functions map[int][]string
}

func (f *fakeRoleAPI) ListAssignedRoles(_ context.Context, userID, _ int) ([]string, error) {
	return f.functions[userID], nil
}

func (f *fakeRoleAPI) AssignRole(_ context.Context, assignment domain.RoleAssignment) error {
	if f.functions == nil {
		f.functions = make(map[int][]string)
	}
	f.functions[assignment.UserID] = append(f.functions[assignment.UserID], assignment.Function)
	return nil
}

func (f *fakeRoleAPI) RemoveRole(_ context.Context, assignment domain.RoleAssignment) error {
	kept := f.functions[assignment.UserID][:0]
	for _, fn := range f.functions[assignment.UserID] {
		if fn != assignment.Function {
			kept = append(kept, fn)
		}
	}
	f.functions[assignment.UserID] = kept
	return nil
}

func (f *fakeRoleAPI) ListUserPolicies(_ context.Context, userID, _ int) ([]domain.Permission, error) {
	permissions := make([]domain.Permission, 0, len(f.functions[userID]))
	for _, fn := range f.functions[userID] {
		permissions = append(permissions, domain.Permission{Subject: fn, Object: "rotations", Action: "read"})
	}
	return permissions, nil
}

// fakeInviteAPI backs the invite resource in handler tests.
type fakeInviteAPI struct {
	invites []domain.InviteRequest
	err     error
}

func (f *fakeInviteAPI) InviteUser(_ context.Context, invite domain.InviteRequest) error {
	if f.err != nil {
		return f.err
	}
	f.invites = append(f.invites, invite)
	return nil
}
