package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"payrollportal/internal/model"
	"payrollportal/internal/service"
	"payrollportal/internal/session"
)

// ingestFailurePayload carries the verbatim failure alongside the counts of
// entries already committed before the batch aborted.
type ingestFailurePayload struct {
	RequestID string               `json:"request_id"`
	Error     errorEnvelope        `json:"error"`
	Result    service.IngestResult `json:"result"`
}

func periodFromQuery(c *fiber.Ctx) (model.Period, error) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		return model.Period{}, errors.New("invalid month")
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return model.Period{}, errors.New("invalid year")
	}
	return model.Period{Month: month, Year: year}, nil
}

// IngestArchive accepts a multipart ZIP upload plus a target period and runs
// the bulk ingestion workflow over it.
func IngestArchive(ingest service.IngestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("archive")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ARCHIVE_REQUIRED", "archive file is required")
		}

		month, err := strconv.Atoi(c.FormValue("month"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MONTH", "invalid month")
		}
		year, err := strconv.Atoi(c.FormValue("year"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_YEAR", "invalid year")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ARCHIVE_OPEN_ERROR", "cannot open uploaded archive")
		}
		defer f.Close()
		archive, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "ARCHIVE_READ_ERROR", "cannot read uploaded archive")
		}

		res, err := ingest.ProcessArchive(c.UserContext(), archive, model.Period{Month: month, Year: year})
		if err != nil {
			if errors.Is(err, service.ErrInvalidPeriod) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PERIOD", "period must be a valid month and year")
			}
			// The operator sees the failure verbatim together with what was
			// committed before the abort.
			payload := ingestFailurePayload{
				RequestID: requestIDFromCtx(c),
				Error:     errorEnvelope{Code: "INGEST_ABORTED", Message: err.Error()},
			}
			if res != nil {
				payload.Result = *res
			}
			return c.Status(fiber.StatusInternalServerError).JSON(payload)
		}
		return c.JSON(res)
	}
}

// Reconciliation returns the submitted/pending view for a period.
func Reconciliation(recon service.ReconciliationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := periodFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PERIOD", err.Error())
		}

		view, err := recon.Build(c.UserContext(), p)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPeriod) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PERIOD", "period must be a valid month and year")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(view)
	}
}

// ListAccounts returns the employee roster.
func ListAccounts(accounts service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roster, err := accounts.ListEmployees(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": roster, "total": len(roster)})
	}
}

// DeleteAccount removes an account and revokes its live sessions. Documents
// belonging to the owner are left in place.
func DeleteAccount(accounts service.AccountService, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := c.Params("ownerID")
		if err := accounts.Delete(c.UserContext(), ownerID); err != nil {
			if errors.Is(err, service.ErrFieldsRequired) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_OWNER_ID", "owner id is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		sessions.RevokeOwner(ownerID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PurgePeriod removes every document of a period, rows and stored objects.
func PurgePeriod(payslips service.PayslipService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := periodFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PERIOD", err.Error())
		}

		n, err := payslips.PurgePeriod(c.UserContext(), p)
		if err != nil {
			if errors.Is(err, service.ErrInvalidPeriod) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_PERIOD", "period must be a valid month and year")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"deleted": n})
	}
}
