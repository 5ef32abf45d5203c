package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
)

// writeError maps the error taxonomy onto HTTP statuses so the UI layer can
// always render an actionable message.
func writeError(c *fiber.Ctx, err error) error {
	code := apperrors.CodeOf(err)

	status := fiber.StatusInternalServerError
	switch code {
	case apperrors.CodeValidation:
		status = fiber.StatusBadRequest
	case apperrors.CodeAuthorization:
		status = fiber.StatusForbidden
	case apperrors.CodeNotFound:
		status = fiber.StatusNotFound
	case apperrors.CodeConflict:
		status = fiber.StatusConflict
	case apperrors.CodeStateTransition:
		status = fiber.StatusUnprocessableEntity
	case apperrors.CodeStorage, apperrors.CodeScoringUnavailable:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"kind":  string(code),
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid identifier format", name)
	}
	return id, nil
}
