package handlers

import (
	"github.com/gofiber/fiber/v2"

	"campushire/recruiting-api/internal/services"
)

type EvaluationHandler struct {
	evaluator services.EvaluatorService
}

func NewEvaluationHandler(evaluator services.EvaluatorService) *EvaluationHandler {
	return &EvaluationHandler{evaluator: evaluator}
}

// HandleEvaluateOne handles POST /applications/:id/evaluate
func (h *EvaluationHandler) HandleEvaluateOne(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	outcome, err := h.evaluator.EvaluateOne(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(outcome)
}

// HandleEvaluateAll handles POST /evaluations. Runs one batch over all
// pending applications; a concurrent batch request gets a conflict.
func (h *EvaluationHandler) HandleEvaluateAll(c *fiber.Ctx) error {
	run, err := h.evaluator.EvaluateAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(run)
}
