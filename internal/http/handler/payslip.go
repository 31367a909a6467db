package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"payrollportal/internal/http/middleware"
	"payrollportal/internal/service"
)

// ListPayslips returns the authenticated employee's own documents, optionally
// narrowed by year and month. Omitting month (or sending 0) covers the whole
// year; omitting both lists everything.
func ListPayslips(payslips service.PayslipService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc := middleware.AccountFromCtx(c)
		if acc == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}

		month, err := strconv.Atoi(c.Query("month", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MONTH", "invalid month")
		}
		year, err := strconv.Atoi(c.Query("year", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "invalid year")
		}

		res, err := payslips.ListForOwner(c.UserContext(), acc.OwnerID, month, year)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPeriod) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PERIOD", "invalid period filter")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// DownloadPayslip streams a document's bytes back to its owner (or an admin)
// under its original display filename.
func DownloadPayslip(payslips service.PayslipService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acc := middleware.AccountFromCtx(c)
		if acc == nil {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}

		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, doc, err := payslips.Download(c.UserContext(), id, acc)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			case errors.Is(err, service.ErrForbidden):
				return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "document belongs to another owner")
			case errors.Is(err, service.ErrFileMissing):
				// The registry row stays; only the bytes are gone.
				return writeError(c, fiber.StatusNotFound, "FILE_MISSING", "file not found on server")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
		return c.SendStream(rc)
	}
}
