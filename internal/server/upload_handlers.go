package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /upload. The file is streamed straight to the
// media host; nothing is written to local disk.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	if s.uploader == nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewUpstreamError("media host", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	url, err := s.uploader.Upload(c.Context(), fileHeader.Filename, file)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"url": url})
}
