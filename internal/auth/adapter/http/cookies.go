package http

import (
	"time"

	"artdash/internal/auth/config"

	"github.com/gofiber/fiber/v2"
)

// cookieManager writes and clears the session cookie pair: the HttpOnly
// token cookie the browser sends back on every request, and a readable
// status cookie the frontend polls to know whether someone is logged in.
type cookieManager struct {
	cfg *config.Config
}

func newCookieManager(cfg *config.Config) *cookieManager {
	return &cookieManager{cfg: cfg}
}

// Issue sets both cookies with a shared expiry so they disappear together.
func (m *cookieManager) Issue(c *fiber.Ctx, token string) {
	expires := time.Now().Add(time.Duration(m.cfg.CookieExpireDays) * 24 * time.Hour)

	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.AuthCookieName,
		Value:    token,
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Expires:  expires,
		Secure:   m.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: m.cfg.CookieSameSite,
	})

	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.StatusCookieName,
		Value:    "true",
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Expires:  expires,
		Secure:   m.cfg.CookieSecure,
		HTTPOnly: false,
		SameSite: m.cfg.CookieSameSite,
	})
}

// Clear expires both cookies. Called on logout and whenever authentication
// fails, so stale cookies never linger after a revocation.
func (m *cookieManager) Clear(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)

	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.AuthCookieName,
		Value:    "",
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Expires:  expired,
		Secure:   m.cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: m.cfg.CookieSameSite,
	})

	c.Cookie(&fiber.Cookie{
		Name:     m.cfg.StatusCookieName,
		Value:    "",
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Expires:  expired,
		Secure:   m.cfg.CookieSecure,
		HTTPOnly: false,
		SameSite: m.cfg.CookieSameSite,
	})
}
