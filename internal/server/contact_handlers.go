package server

import (
	"inkwell/internal/mail"
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Contact handles POST /contact. The submission is relayed by email; nothing
// is persisted.
func (s *Server) Contact(c *fiber.Ctx) error {
	var sub mail.Submission
	if err := c.BodyParser(&sub); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if sub.Name == "" || sub.Email == "" || sub.Subject == "" || sub.Message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name, email, subject, and message are required"))
	}
	if err := validation.ValidateEmail(sub.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if s.mailer == nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewUpstreamError("mail relay", nil))
	}

	if err := s.mailer.Send(c.Context(), sub); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Message sent successfully"})
}
