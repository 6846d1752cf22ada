package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cembalci/casedesk/pkg/models"
)

// Respond writes a service error to the client using the category mapping:
// validation 400 (409 for duplicates), not found 404, everything else 500
// via the global error handler.
func Respond(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Conflict {
			for _, msgs := range ve.Fields {
				if len(msgs) > 0 {
					return fiber.NewError(fiber.StatusConflict, msgs[0])
				}
			}
			return fiber.ErrConflict
		}
		return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{
			Message: "Validation failed",
			Errors:  ve.Fields,
		})
	}
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return fiber.ErrInternalServerError
}
