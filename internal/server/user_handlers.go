package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// DeleteMe handles DELETE /api/users/me
// @Summary Delete account
// @Description Delete the caller with all their boards and posts, then end the session.
// @Tags users
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [delete]
func (s *Server) DeleteMe(c *fiber.Ctx) error {
	if err := s.authService.DeleteAccount(c.UserContext(), currentUser(c), s.sessionToken(c)); err != nil {
		return respondError(c, err)
	}
	s.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}
