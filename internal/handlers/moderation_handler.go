package handlers

import (
	"strconv"

	"github.com/veyra-social/moderation-backend/internal/dto"
	"github.com/veyra-social/moderation-backend/internal/middleware"
	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/veyra-social/moderation-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ModerationHandler serves the admin triage surface: the queue, single
// reports, assignment, transitions, decisions and the audit trail.
type ModerationHandler struct {
	reports *services.ReportService
	actions *services.ActionService
	audit   *services.AuditTrail
}

func NewModerationHandler(reports *services.ReportService, actions *services.ActionService, audit *services.AuditTrail) *ModerationHandler {
	return &ModerationHandler{reports: reports, actions: actions, audit: audit}
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	filter := services.ListFilter{}

	if raw := c.Query("status"); raw != "" {
		status := models.ReportStatus(raw)
		if !status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Kind: "validation", Message: "unknown status filter",
			})
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.PriorityTier(raw)
		if priority.Rank() == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Kind: "validation", Message: "unknown priority filter",
			})
		}
		filter.Priority = &priority
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Kind: "validation", Message: "invalid assigned_to filter",
			})
		}
		filter.AssignedTo = &id
	}

	filter.Page, _ = strconv.Atoi(c.Query("page", "1"))
	if filter.Page < 1 {
		filter.Page = 1
	}
	filter.PageSize, _ = strconv.Atoi(c.Query("page_size", "20"))

	reports, total, pages, err := h.reports.List(c.UserContext(), filter)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.ListReportsResponse{
		Reports: reports,
		Total:   total,
		Page:    filter.Page,
		Pages:   pages,
	})
}

func (h *ModerationHandler) GetReport(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid report ID",
		})
	}

	report, err := h.reports.Get(c.UserContext(), reportID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ModerationHandler) TakeAction(c *fiber.Ctx) error {
	actorID, err := middleware.ActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid report ID",
		})
	}

	var req dto.TakeActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid request body",
		})
	}

	report, pending, err := h.actions.TakeAction(c.UserContext(), reportID, req.Action, req.Details, actorID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.ActionResponse{
		ID:                 report.ID,
		Status:             report.Status,
		ActionsTaken:       report.ActionsTaken,
		EnforcementPending: pending,
	})
}

func (h *ModerationHandler) Transition(c *fiber.Ctx) error {
	actorID, err := middleware.ActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid report ID",
		})
	}

	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid request body",
		})
	}

	report, err := h.actions.Transition(c.UserContext(), reportID, req.Status, req.Note, actorID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.ActionResponse{
		ID:           report.ID,
		Status:       report.Status,
		ActionsTaken: report.ActionsTaken,
	})
}

func (h *ModerationHandler) Assign(c *fiber.Ctx) error {
	actorID, err := middleware.ActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid report ID",
		})
	}

	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid request body",
		})
	}

	report, err := h.actions.Assign(c.UserContext(), reportID, req.ModeratorID, actorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ModerationHandler) Reclassify(c *fiber.Ctx) error {
	actorID, err := middleware.ActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid report ID",
		})
	}

	var req struct {
		ReasonCode *models.ReasonCode `json:"reason_code"`
		Severity   *int               `json:"severity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid request body",
		})
	}

	report, err := h.actions.Reclassify(c.UserContext(), reportID, req.ReasonCode, req.Severity, actorID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(report)
}

func (h *ModerationHandler) AuditTrail(c *fiber.Ctx) error {
	reportID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid report ID",
		})
	}

	entries, err := h.audit.ForReport(c.UserContext(), reportID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"report_id": reportID, "entries": entries})
}
