package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"docmeta/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsStats returns aggregate statistics over all documents.
//
// @Summary Collection statistics
// @Tags analytics
// @Success 200 {object} model.AnalyticsSnapshot
// @Router /api/analytics/stats [get]
func AnalyticsStats(svc service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(snap)
	}
}

// AnalyticsExport downloads the statistics as a spreadsheet.
//
// @Summary Export statistics as XLSX
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /api/analytics/export [get]
func AnalyticsExport(svc service.AnalyticsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := svc.Export(c.UserContext(), &buf); err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="analytics.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
