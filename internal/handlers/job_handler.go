package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"campushire/recruiting-api/internal/apperrors"
	"campushire/recruiting-api/internal/models"
	"campushire/recruiting-api/internal/services"
)

type JobHandler struct {
	jobService services.JobService
	appService services.ApplicationService
}

func NewJobHandler(jobService services.JobService, appService services.ApplicationService) *JobHandler {
	return &JobHandler{jobService: jobService, appService: appService}
}

// HandleCreate handles POST /jobs. Multipart form with job fields plus an
// optional "description_file" PDF.
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	principal := principalFrom(c)

	job := &models.Job{
		Title:       c.FormValue("title"),
		Company:     c.FormValue("company"),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
		JobType:     c.FormValue("job_type"),
	}
	if raw := c.FormValue("required_skills"); raw != "" {
		job.RequiredSkills = splitSkills(raw)
	}

	var descriptionPDF []byte
	if fileHeader, err := c.FormFile("description_file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return writeError(c, apperrors.Validation("failed to read uploaded file", "description_file"))
		}
		defer file.Close()

		descriptionPDF, err = io.ReadAll(file)
		if err != nil {
			return writeError(c, apperrors.Validation("failed to read uploaded file", "description_file"))
		}
	}

	created, err := h.jobService.Create(c.Context(), principal.ID, job, descriptionPDF)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

// HandleList handles GET /jobs with offset/limit paging over active postings.
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	jobs, total, err := h.jobService.ListActive(c.Context(), offset, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"jobs":   jobs,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	job, err := h.jobService.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	count, err := h.appService.CountByJob(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"job":               job,
		"application_count": count,
	})
}

// HandleListByRecruiter handles GET /recruiters/:id/jobs
func (h *JobHandler) HandleListByRecruiter(c *fiber.Ctx) error {
	recruiterID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	jobs, err := h.jobService.ListByRecruiter(c.Context(), recruiterID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}

// HandleSetStatus handles PUT /jobs/:id/status
func (h *JobHandler) HandleSetStatus(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req models.JobStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.Validation("invalid request payload", "body"))
	}

	if err := h.jobService.SetActive(c.Context(), jobID, principalFrom(c).ID, req.IsActive); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Job status updated"})
}

// HandleDelete handles DELETE /jobs/:id
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.jobService.Delete(c.Context(), jobID, principalFrom(c).ID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Job deleted successfully"})
}

// HandleListApplications handles GET /jobs/:id/applications
func (h *JobHandler) HandleListApplications(c *fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	apps, err := h.appService.ListByJob(c.Context(), jobID, principalFrom(c).ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"applications":      apps,
		"application_count": len(apps),
	})
}
