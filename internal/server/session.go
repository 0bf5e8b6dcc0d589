package server

import (
	"time"

	"corkboard/internal/auth"
	"corkboard/internal/middleware"
	"corkboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

func (s *Server) sessionToken(c *fiber.Ctx) string {
	return c.Cookies(s.config.SessionCookieName)
}

// SessionRequired rejects requests without a live session and stores the
// caller in locals.
func (s *Server) SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.identity.Required(c.UserContext(), s.sessionToken(c))
		if err != nil {
			return respondError(c, err)
		}
		setCurrentUser(c, user)
		return c.Next()
	}
}

// SessionOptional resolves the caller when possible and never rejects.
func (s *Server) SessionOptional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user := s.identity.Optional(c.UserContext(), s.sessionToken(c)); user != nil {
			setCurrentUser(c, user)
		}
		return c.Next()
	}
}

func setCurrentUser(c *fiber.Ctx, user *models.User) {
	c.Locals(userLocal, user)
	c.Locals("userID", user.ID)
	c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
}

// currentUser returns the resolved caller, or nil for anonymous requests.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocal).(*models.User)
	return user
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL / time.Second),
		HTTPOnly: true,
		Secure:   s.config.SessionCookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.SessionCookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
