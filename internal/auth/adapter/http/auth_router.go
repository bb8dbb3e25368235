package http

import (
	"errors"

	"artdash/internal/auth/adapter/ratelimit"
	"artdash/internal/auth/config"
	"artdash/internal/auth/usecase"
	"artdash/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for registration, login and logout.
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
	cookies *cookieManager
	limiter *ratelimit.LoginLimiter
	log     logger.Logger
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	cfg *config.Config,
	limiter *ratelimit.LoginLimiter,
	log logger.Logger,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase: uc,
		cookies: newCookieManager(cfg),
		limiter: limiter,
		log:     log,
	}
}

// SetupAuthRoutes registers the /api/auth endpoints.
func (h *AuthHTTPHandler) SetupAuthRoutes(router fiber.Router, middleware *AuthMiddleware) {
	auth := router.Group("/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/forgot-password", h.ForgotPassword)

	auth.Post("/logout", middleware.Protect(), h.Logout)
}

// Register handles user registration. A successful registration behaves like
// a first login: session recorded, token minted, both cookies set.
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	client := ClientInfo(c)
	if err := h.limiter.Allow(c.Context(), req.Email, client.IP); err != nil {
		if errors.Is(err, ratelimit.ErrTooManyAttempts) {
			return fail(c, fiber.StatusTooManyRequests, err.Error())
		}
		h.log.Warn("login limiter unavailable, allowing request", "error", err)
	}

	user, token, _, err := h.usecase.Register(c.Context(), req, client)
	if err != nil {
		return respondError(c, err)
	}

	h.cookies.Issue(c, token)
	h.log.WithContext(c.UserContext()).Info("user registered", "email", user.Email)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login handles credential login.
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	client := ClientInfo(c)
	if err := h.limiter.Allow(c.Context(), req.Email, client.IP); err != nil {
		if errors.Is(err, ratelimit.ErrTooManyAttempts) {
			return fail(c, fiber.StatusTooManyRequests, err.Error())
		}
		h.log.Warn("login limiter unavailable, allowing request", "error", err)
	}

	user, token, _, err := h.usecase.Login(c.Context(), req, client)
	if err != nil {
		return respondError(c, err)
	}

	h.limiter.Reset(c.Context(), req.Email)
	h.cookies.Issue(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Logout removes the current session and clears both cookies. It is
// idempotent: logging out an already-removed session still succeeds.
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	user, _ := CurrentUser(c)
	sessionID, _ := CurrentSessionID(c)

	if user != nil && sessionID != "" {
		if err := h.usecase.Logout(c.Context(), user.ID, sessionID); err != nil {
			h.log.WithContext(c.UserContext()).Error("logout failed", "error", err)
		}
	}

	h.cookies.Clear(c)
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ForgotPassword acknowledges uniformly regardless of whether the email
// exists, so the endpoint cannot be used to enumerate accounts.
func (h *AuthHTTPHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" {
		return fail(c, fiber.StatusBadRequest, "Email is required")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "If an account exists for that email, reset instructions have been sent",
	})
}
