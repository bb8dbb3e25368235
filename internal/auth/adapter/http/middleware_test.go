package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhttp "artdash/internal/auth/adapter/http"
	"artdash/internal/auth/config"
	"artdash/internal/auth/domain/model"
	"artdash/internal/auth/usecase"
	"artdash/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthUsecase is a mock implementation of usecase.AuthUsecaseInterface
type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) Register(ctx context.Context, req usecase.RegisterRequest, client usecase.ClientInfo) (*model.User, string, string, error) {
	args := m.Called(ctx, req, client)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*model.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthUsecase) Login(ctx context.Context, req usecase.LoginRequest, client usecase.ClientInfo) (*model.User, string, string, error) {
	args := m.Called(ctx, req, client)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*model.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthUsecase) Authenticate(ctx context.Context, tokenString string) (*model.User, string, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, userID, sessionID string) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockAuthUsecase) ListSessions(user *model.User, currentSessionID string) []usecase.SessionInfo {
	args := m.Called(user, currentSessionID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]usecase.SessionInfo)
}

func (m *MockAuthUsecase) RevokeSession(ctx context.Context, userID, currentSessionID, targetSessionID string) error {
	args := m.Called(ctx, userID, currentSessionID, targetSessionID)
	return args.Error(0)
}

func (m *MockAuthUsecase) UpdateProfile(ctx context.Context, userID, currentSessionID string, req usecase.UpdateProfileRequest) (*model.User, error) {
	args := m.Called(ctx, userID, currentSessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthUsecase) DeleteAccount(ctx context.Context, userID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func (m *MockAuthUsecase) TrackActivity(ctx context.Context, userID string, req usecase.ActivityRequest, client usecase.ClientInfo) error {
	args := m.Called(ctx, userID, req, client)
	return args.Error(0)
}

func (m *MockAuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthUsecase) ListUsers(ctx context.Context) ([]usecase.UserOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]usecase.UserOverview), args.Error(1)
}

func (m *MockAuthUsecase) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthUsecase) MakeAdmin(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		AuthCookieName:   "authToken",
		StatusCookieName: "loggedIn",
		CookieExpireDays: 30,
		CookiePath:       "/",
		CookieSameSite:   "Lax",
		MaxSessions:      5,
		JWTSecretKey:     "test-secret",
		JWTIssuer:        "test",
		TokenTTL:         time.Hour,
	}
}

func testUser() *model.User {
	return &model.User{
		ID:       "user-1",
		Username: "ada",
		Email:    "ada@example.com",
		Role:     model.RoleUser,
		Sessions: []model.Session{
			{SessionID: "sess-1", LoginTime: time.Now(), Device: "Chrome on Linux", IP: "10.0.0.1"},
		},
	}
}

func protectedApp(uc *MockAuthUsecase) *fiber.App {
	app := fiber.New()
	middleware := authhttp.NewAuthMiddleware(uc, testConfig())
	app.Get("/protected", middleware.Protect(), func(c *fiber.Ctx) error {
		user, _ := authhttp.CurrentUser(c)
		sessionID, _ := authhttp.CurrentSessionID(c)
		return c.JSON(fiber.Map{"userId": user.ID, "sessionId": sessionID})
	})
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestProtect_NoToken(t *testing.T) {
	uc := new(MockAuthUsecase)
	app := protectedApp(uc)

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
}

func TestProtect_CookieToken(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("Authenticate", mock.Anything, "cookie-token").Return(testUser(), "sess-1", nil)
	app := protectedApp(uc)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "cookie-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "sess-1", body["sessionId"])
}

func TestProtect_CookieTakesPrecedenceOverHeader(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("Authenticate", mock.Anything, "cookie-token").Return(testUser(), "sess-1", nil)
	app := protectedApp(uc)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	uc.AssertCalled(t, "Authenticate", mock.Anything, "cookie-token")
	uc.AssertNotCalled(t, "Authenticate", mock.Anything, "header-token")
}

func TestProtect_BearerFallback(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("Authenticate", mock.Anything, "header-token").Return(testUser(), "sess-1", nil)
	app := protectedApp(uc)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtect_RevokedSessionClearsCookies(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("Authenticate", mock.Anything, "stale-token").Return(nil, "", usecase.ErrSessionRevoked)
	app := protectedApp(uc)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "stale-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Both cookies must come back expired.
	cleared := map[string]bool{}
	for _, c := range resp.Cookies() {
		if c.Name == "authToken" || c.Name == "loggedIn" {
			assert.Empty(t, c.Value)
			assert.True(t, c.Expires.Before(time.Now()))
			cleared[c.Name] = true
		}
	}
	assert.True(t, cleared["authToken"], "authToken cookie not cleared")
	assert.True(t, cleared["loggedIn"], "loggedIn cookie not cleared")
}

func TestRequireAdmin_ForbiddenForRegularUser(t *testing.T) {
	uc := new(MockAuthUsecase)
	uc.On("Authenticate", mock.Anything, "user-token").Return(testUser(), "sess-1", nil)

	app := fiber.New()
	middleware := authhttp.NewAuthMiddleware(uc, testConfig())
	app.Get("/admin", middleware.Protect(), middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "user-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	admin := testUser()
	admin.Role = model.RoleAdmin
	uc := new(MockAuthUsecase)
	uc.On("Authenticate", mock.Anything, "admin-token").Return(admin, "sess-1", nil)

	app := fiber.New()
	middleware := authhttp.NewAuthMiddleware(uc, testConfig())
	app.Get("/admin", middleware.Protect(), middleware.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "admin-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeviceName(t *testing.T) {
	testCases := []struct {
		userAgent string
		expected  string
	}{
		{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36", "Chrome on Linux"},
		{"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0", "Firefox on Windows"},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 Version/16.0 Safari/604.1", "Safari on iOS"},
		{"", "Unknown Device"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.userAgent != "" {
				req.Header.Set("User-Agent", tc.userAgent)
			}

			app := fiber.New()
			var got string
			app.Get("/", func(c *fiber.Ctx) error {
				got = authhttp.ClientInfo(c).Device
				return c.SendString("ok")
			})
			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClientInfo_ForwardedFor(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = authhttp.ClientInfo(c).IP
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "203.0.113.7", got)
}

func TestRequestID_ReachesRequestContext(t *testing.T) {
	m := authhttp.NewAuthMiddleware(new(MockAuthUsecase), testConfig())

	app := fiber.New()
	app.Use(m.RequestID())
	app.Use(m.RequestContext())

	var fromContext string
	app.Get("/", func(c *fiber.Ctx) error {
		id, err := utils.GetRequestIDFromContext(c.UserContext())
		if err != nil {
			return err
		}
		fromContext = id
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	header := resp.Header.Get("X-Request-ID")
	assert.NotEmpty(t, header)
	assert.Equal(t, header, fromContext)
}

func TestRequestID_HonorsSuppliedHeader(t *testing.T) {
	m := authhttp.NewAuthMiddleware(new(MockAuthUsecase), testConfig())

	app := fiber.New()
	app.Use(m.RequestID())
	app.Use(m.RequestContext())

	var fromContext string
	app.Get("/", func(c *fiber.Ctx) error {
		fromContext, _ = utils.GetRequestIDFromContext(c.UserContext())
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-12345")
	_, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, "req-12345", fromContext)
}
