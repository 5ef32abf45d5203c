package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/services"
)

type ApplicationHandler struct {
	appService services.ApplicationService
}

func NewApplicationHandler(appService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// HandleApply handles POST /applications
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	var req models.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.Validation("invalid request payload", "body"))
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return writeError(c, apperrors.Validation("invalid identifier format", "job_id"))
	}
	cvID, err := uuid.Parse(req.CVID)
	if err != nil {
		return writeError(c, apperrors.Validation("invalid identifier format", "cv_id"))
	}

	app, err := h.appService.Apply(c.Context(), principalFrom(c).ID, jobID, cvID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

// HandleGet handles GET /applications/:id. Visible to the owning student and
// to the recruiter who owns the job.
func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	app, err := h.appService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(app)
}

// HandleDecision handles PUT /applications/:id/decision
func (h *ApplicationHandler) HandleDecision(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req models.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.Validation("invalid request payload", "body"))
	}

	app, err := h.appService.Decide(c.Context(), id, principalFrom(c).ID,
		models.ApplicationStatus(req.Status), req.Feedback)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(app)
}

// HandleWithdraw handles DELETE /applications/:id
func (h *ApplicationHandler) HandleWithdraw(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.appService.Withdraw(c.Context(), id, principalFrom(c).ID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Application withdrawn"})
}
