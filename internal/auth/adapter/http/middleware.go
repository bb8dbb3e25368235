package http

import (
	"strings"
	"time"

	"artdash/internal/auth/config"
	"artdash/internal/auth/domain/model"
	"artdash/internal/auth/usecase"
	"artdash/internal/shared/contextkeys"
	"artdash/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	localsUserKey    = "currentUser"
	localsSessionKey = "currentSessionID"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase usecase.AuthUsecaseInterface
	cookies *cookieManager
	cfg     *config.Config
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		usecase: uc,
		cookies: newCookieManager(cfg),
		cfg:     cfg,
	}
}

// CORS middleware configured for the dashboard frontend
func (m *AuthMiddleware) CORS(origins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	})
}

// RateLimiter creates rate limiting middleware for auth endpoints
func (m *AuthMiddleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               30,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.Get("X-Forwarded-For", c.IP())
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// RequestID middleware
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RequestContext copies the ID generated by RequestID from Fiber's Locals
// into the request context, where logger.WithContext reads it. Must be
// registered after RequestID.
func (m *AuthMiddleware) RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(string(contextkeys.RequestIDKey)).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// Protect returns middleware that requires a live session. Beyond verifying
// the token it cross-checks the embedded session list, so a revoked device is
// rejected even while its token is still unexpired. Every failure clears both
// cookies before returning 401.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.extractToken(c)
		if err != nil {
			return m.reject(c, "Authentication required")
		}

		user, sessionID, err := m.usecase.Authenticate(c.Context(), token)
		if err != nil {
			return m.reject(c, "Session is invalid or has been revoked")
		}

		c.Locals(localsUserKey, user)
		c.Locals(localsSessionKey, sessionID)

		ctx := c.UserContext()
		ctx = utils.WithUserID(ctx, user.ID)
		ctx = utils.WithUserEmail(ctx, user.Email)
		ctx = utils.WithSessionID(ctx, sessionID)
		ctx = utils.WithRole(ctx, user.Role)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireAdmin returns middleware that requires the admin role. It expects
// Protect() to have run earlier in the chain.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return m.reject(c, "Authentication required")
		}
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Admin access required",
			})
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, message string) error {
	m.cookies.Clear(c)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// extractToken reads the session token. The cookie takes precedence over the
// Authorization header: browsers always send the freshest cookie, while a
// stale header from an API client must not shadow it.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if token := c.Cookies(m.cfg.AuthCookieName); token != "" {
		return token, nil
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimPrefix(authHeader, "Bearer "); token != "" {
			return token, nil
		}
	}

	return "", fiber.NewError(fiber.StatusUnauthorized, "No authentication token found")
}

// CurrentUser returns the authenticated user stored by Protect.
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals(localsUserKey).(*model.User)
	return user, ok
}

// CurrentSessionID returns the session id of the request's token.
func CurrentSessionID(c *fiber.Ctx) (string, bool) {
	sessionID, ok := c.Locals(localsSessionKey).(string)
	return sessionID, ok
}

// ClientInfo builds the origin info attached to new sessions and activity
// updates.
func ClientInfo(c *fiber.Ctx) usecase.ClientInfo {
	ip := c.Get("X-Forwarded-For")
	if ip != "" {
		// Only the originating client, not the proxy chain.
		if idx := strings.IndexByte(ip, ','); idx >= 0 {
			ip = strings.TrimSpace(ip[:idx])
		}
	} else {
		ip = c.IP()
	}

	return usecase.ClientInfo{
		IP:     ip,
		Device: deviceName(c.Get("User-Agent")),
	}
}

// deviceName condenses a User-Agent string into a short human-readable label
// for the session list.
func deviceName(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	ua := strings.ToLower(userAgent)

	os := ""
	switch {
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	}

	browser := ""
	switch {
	case strings.Contains(ua, "edg/"):
		browser = "Edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		browser = "Opera"
	case strings.Contains(ua, "chrome/"):
		browser = "Chrome"
	case strings.Contains(ua, "firefox/"):
		browser = "Firefox"
	case strings.Contains(ua, "safari/"):
		browser = "Safari"
	}

	switch {
	case os != "" && browser != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "Unknown Device"
	}
}
