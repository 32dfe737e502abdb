package handlers

import (
	"strconv"
	"time"

	"github.com/veyra-social/moderation-backend/internal/dto"
	"github.com/veyra-social/moderation-backend/internal/middleware"
	"github.com/veyra-social/moderation-backend/internal/models"
	"github.com/veyra-social/moderation-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves the reporter-facing surface: submission and a view of
// the caller's own reports.
type ReportHandler struct {
	reports *services.ReportService
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	reporterID, err := middleware.ActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Kind: "validation", Message: "Invalid request body",
		})
	}

	sctx := models.SubmissionContext{
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
		SubmittedAt: time.Now(),
	}

	report, err := h.reports.Submit(c.UserContext(), reporterID, &req, sctx)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubmitReportResponse{
		ReportID: report.ID,
		Status:   report.Status,
		Priority: report.Priority,
	})
}

func (h *ReportHandler) Mine(c *fiber.Ctx) error {
	reporterID, err := middleware.ActorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	reports, total, pages, err := h.reports.List(c.UserContext(), services.ListFilter{
		ReporterID: &reporterID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(dto.ListReportsResponse{
		Reports: reports,
		Total:   total,
		Page:    page,
		Pages:   pages,
	})
}
