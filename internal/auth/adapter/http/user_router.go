package http

import (
	"context"

	"artdash/internal/auth/config"
	"artdash/internal/auth/usecase"
	"artdash/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// UserInsights supplies per-user analytics (orders, feedback, activity) for
// the admin detail view. Wired from outside the auth module; may be nil.
type UserInsights interface {
	UserInsights(ctx context.Context, userID, email string) (map[string]interface{}, error)
}

// UserHTTPHandler handles HTTP requests for profile, session management and
// user administration.
type UserHTTPHandler struct {
	usecase  usecase.AuthUsecaseInterface
	cookies  *cookieManager
	insights UserInsights
	log      logger.Logger
}

// NewUserHTTPHandler creates a new user HTTP handler
func NewUserHTTPHandler(uc usecase.AuthUsecaseInterface, cfg *config.Config, log logger.Logger) *UserHTTPHandler {
	return &UserHTTPHandler{
		usecase: uc,
		cookies: newCookieManager(cfg),
		log:     log,
	}
}

// SetInsights wires the analytics provider for the admin detail view.
func (h *UserHTTPHandler) SetInsights(insights UserInsights) {
	h.insights = insights
}

// SetupUserRoutes registers the /api/users endpoints. Static paths are
// registered before the :id parameter so they are not shadowed.
func (h *UserHTTPHandler) SetupUserRoutes(router fiber.Router, middleware *AuthMiddleware) {
	users := router.Group("/users", middleware.Protect())

	users.Get("/me", h.GetProfile)
	users.Put("/me", h.UpdateProfile)
	users.Delete("/me", h.DeleteAccount)

	users.Get("/sessions", h.ListSessions)
	users.Delete("/sessions/:sessionId", h.RevokeSession)

	users.Post("/activity", h.TrackActivity)

	admin := users.Group("/", middleware.RequireAdmin())
	admin.Get("/", h.ListUsers)
	admin.Post("/make-admin", h.MakeAdmin)
	admin.Get("/:id", h.GetUserDetail)
	admin.Delete("/:id", h.DeleteUser)
}

// GetProfile returns the caller's profile with the annotated session list.
func (h *UserHTTPHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}
	sessionID, _ := CurrentSessionID(c)

	return c.JSON(fiber.Map{
		"success":  true,
		"user":     user,
		"sessions": h.usecase.ListSessions(user, sessionID),
	})
}

// UpdateProfile updates profile fields or changes the password. A password
// change logs out every other device.
func (h *UserHTTPHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}
	sessionID, _ := CurrentSessionID(c)

	var req usecase.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	updated, err := h.usecase.UpdateProfile(c.Context(), user.ID, sessionID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    updated,
	})
}

// DeleteAccount removes the caller's account and related data, then clears
// both cookies.
func (h *UserHTTPHandler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	if err := h.usecase.DeleteAccount(c.Context(), user.ID, user.Email); err != nil {
		return respondError(c, err)
	}

	h.cookies.Clear(c)
	h.log.WithContext(c.UserContext()).Info("account deleted")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account deleted",
	})
}

// ListSessions returns the caller's sessions, newest first, with the current
// one flagged.
func (h *UserHTTPHandler) ListSessions(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}
	sessionID, _ := CurrentSessionID(c)

	return c.JSON(fiber.Map{
		"success":  true,
		"sessions": h.usecase.ListSessions(user, sessionID),
	})
}

// RevokeSession removes one non-current session. The revoked device's token
// dies on its next request even though it has not expired.
func (h *UserHTTPHandler) RevokeSession(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}
	sessionID, _ := CurrentSessionID(c)
	target := c.Params("sessionId")

	if err := h.usecase.RevokeSession(c.Context(), user.ID, sessionID, target); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Session revoked",
	})
}

// TrackActivity refreshes the caller's activity fields and records the event.
func (h *UserHTTPHandler) TrackActivity(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req usecase.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.usecase.TrackActivity(c.Context(), user.ID, req, ClientInfo(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListUsers returns all non-admin accounts with computed session status.
func (h *UserHTTPHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.usecase.ListUsers(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// GetUserDetail returns one user's profile enriched with analytics when an
// insights provider is wired.
func (h *UserHTTPHandler) GetUserDetail(c *fiber.Ctx) error {
	user, err := h.usecase.GetUserByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	response := fiber.Map{
		"success": true,
		"user":    user,
	}

	if h.insights != nil {
		insights, err := h.insights.UserInsights(c.Context(), user.ID, user.Email)
		if err != nil {
			h.log.WithContext(c.UserContext()).Warn("failed to load user insights", "error", err)
		} else {
			response["insights"] = insights
		}
	}

	return c.JSON(response)
}

// DeleteUser removes a non-admin account and its related data.
func (h *UserHTTPHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.usecase.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted",
	})
}

// MakeAdmin promotes the account matching the posted email.
func (h *UserHTTPHandler) MakeAdmin(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.usecase.MakeAdmin(c.Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
