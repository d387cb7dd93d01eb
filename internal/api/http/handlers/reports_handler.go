package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/pkg/util"
)

// ReportsHandler exposes complaint statistics for administrators.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reportService}
}

// Generate handles GET /api/report/report/:type with optional status
// and priority query filters.
func (h *ReportsHandler) Generate(c *fiber.Ctx) error {
	timeframe := service.Timeframe(c.Params("type"))
	filter := service.ReportFilter{
		Status:   domain.ComplaintStatus(c.Query("status")),
		Priority: domain.ComplaintPriority(c.Query("priority")),
	}

	report, err := h.reports.Generate(c.Context(), timeframe, filter)
	switch {
	case errors.Is(err, service.ErrInvalidTimeframe):
		return util.NewValidationError("Invalid timeframe, expected daily, monthly or yearly")
	case err != nil:
		return util.NewInternalError(err)
	}

	return c.JSON(envelope("Report generated", report))
}

// Summary handles GET /api/report/summary.
func (h *ReportsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.reports.Summarize(c.Context())
	if err != nil {
		return util.NewInternalError(err)
	}
	return c.JSON(envelope("Summary generated", summary))
}

// Export handles GET /api/report/export/:type, streaming the report as
// a CSV attachment.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	timeframe := service.Timeframe(c.Params("type"))

	data, err := h.reports.ExportCSV(c.Context(), timeframe)
	switch {
	case errors.Is(err, service.ErrInvalidTimeframe):
		return util.NewValidationError("Invalid timeframe, expected daily, monthly or yearly")
	case err != nil:
		return util.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("complaints-%s.csv", timeframe)))
	return c.Send(data)
}
