package server

import (
	"strconv"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID reads a positive integer route parameter. On failure it writes the
// 400 response itself and returns a non-nil error so callers can bail out.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		verr := models.NewValidationError("Invalid " + param)
		_ = models.RespondWithError(c, fiber.StatusBadRequest, verr)
		return 0, verr
	}
	return uint(id), nil
}
