package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// PayrollHandler handles payroll computation and synchronization requests
type PayrollHandler struct {
	payrollService *service.PayrollService
	syncService    *service.PayrollSyncService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *service.PayrollService, syncService *service.PayrollSyncService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService, syncService: syncService}
}

// GenerateBatchRequest represents the payroll batch generation request body.
// DueDate is optional; omitted, the invoices fall due on the last day of
// the competence month.
type GenerateBatchRequest struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	DueDate string `json:"dueDate,omitempty"`
}

// ResyncRequest represents the payroll invoice resync request body
type ResyncRequest struct {
	DueDate string `json:"dueDate"`
}

// LineItemResponse represents a payroll line item in API responses
type LineItemResponse struct {
	Label     string  `json:"label"`
	Kind      string  `json:"kind"`
	Amount    string  `json:"amount"`
	Reference *string `json:"reference,omitempty"`
	Note      *string `json:"note,omitempty"`
}

// PayrollResponse represents a payroll computation in API responses
type PayrollResponse struct {
	EmployeeID      int32              `json:"employeeId"`
	CompetenceMonth int                `json:"competenceMonth"`
	CompetenceYear  int                `json:"competenceYear"`
	BaseSalary      string             `json:"baseSalary"`
	GrossTotal      string             `json:"grossTotal"`
	DiscountTotal   string             `json:"discountTotal"`
	NetTotal        string             `json:"netTotal"`
	Items           []LineItemResponse `json:"items"`
}

// StalenessResponse represents one payroll drift report entry
type StalenessResponse struct {
	InvoiceID   int32  `json:"invoiceId"`
	EmployeeID  int32  `json:"employeeId"`
	StoredTotal string `json:"storedTotal"`
	FreshTotal  string `json:"freshTotal"`
	Outdated    bool   `json:"outdated"`
}

// ComputePayroll godoc
// @Summary Compute payroll
// @Description Compute an employee's net pay for a competence period, itemized
// @Tags payroll
// @Produce json
// @Param id path int true "Employee ID"
// @Param year path int true "Competence year"
// @Param month path int true "Competence month"
// @Success 200 {object} PayrollResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /employees/{id}/payroll/{year}/{month} [get]
func (h *PayrollHandler) ComputePayroll(c echo.Context) error {
	employeeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid employee ID", nil)
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return NewValidationError(c, "Invalid month", nil)
	}

	calc, err := h.payrollService.ComputeForEmployee(int32(employeeID), year, month)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmployeeNotFound):
			return NewNotFoundError(c, "Employee not found")
		case errors.Is(err, domain.ErrInvalidCompetence):
			return NewValidationError(c, "Month must be between 1 and 12", nil)
		case errors.Is(err, domain.ErrTaxTableNotFound):
			return NewValidationError(c, "No tax table configured for the fiscal year", nil)
		}
		log.Error().Err(err).Int("employee_id", employeeID).Msg("Failed to compute payroll")
		return NewInternalError(c, "Failed to compute payroll")
	}

	return c.JSON(http.StatusOK, toPayrollResponse(int32(employeeID), calc))
}

// GenerateBatch godoc
// @Summary Generate payroll invoices
// @Description Create one expense invoice per active employee lacking one for the period
// @Tags payroll
// @Accept json
// @Produce json
// @Param request body GenerateBatchRequest true "Batch generation request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ProblemDetails
// @Router /payroll/generate-batch [post]
func (h *PayrollHandler) GenerateBatch(c echo.Context) error {
	var req GenerateBatchRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var dueDate time.Time
	if req.DueDate != "" {
		var err error
		dueDate, err = time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "dueDate", Message: "Must be a YYYY-MM-DD date"},
			})
		}
	}

	created, err := h.syncService.GenerateBatch(req.Year, req.Month, dueDate)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCompetence) {
			return NewValidationError(c, "Month must be between 1 and 12", nil)
		}
		log.Error().Err(err).Int("year", req.Year).Int("month", req.Month).Msg("Failed to generate payroll batch")
		return NewInternalError(c, "Failed to generate payroll batch")
	}

	log.Info().Int("created", created).Int("year", req.Year).Int("month", req.Month).Msg("Payroll batch generated")

	return c.JSON(http.StatusOK, map[string]any{"created": created})
}

// CheckStaleness godoc
// @Summary Report stale payroll invoices
// @Description Compare stored payroll invoices against fresh computations for the period
// @Tags payroll
// @Produce json
// @Param year query int true "Competence year"
// @Param month query int true "Competence month"
// @Success 200 {array} StalenessResponse
// @Failure 400 {object} ProblemDetails
// @Router /payroll/staleness [get]
func (h *PayrollHandler) CheckStaleness(c echo.Context) error {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return NewValidationError(c, "Invalid month", nil)
	}

	reports, err := h.syncService.CheckStaleness(year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCompetence) {
			return NewValidationError(c, "Month must be between 1 and 12", nil)
		}
		log.Error().Err(err).Msg("Failed to check payroll staleness")
		return NewInternalError(c, "Failed to check payroll staleness")
	}

	response := make([]StalenessResponse, len(reports))
	for i, r := range reports {
		response[i] = StalenessResponse{
			InvoiceID:   r.InvoiceID,
			EmployeeID:  r.EmployeeID,
			StoredTotal: r.StoredTotal.DecimalString(),
			FreshTotal:  r.FreshTotal.DecimalString(),
			Outdated:    r.Outdated,
		}
	}
	return c.JSON(http.StatusOK, response)
}

// Resync godoc
// @Summary Resync a payroll invoice
// @Description Overwrite a stale payroll invoice with freshly computed values; refused once payments exist
// @Tags payroll
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param request body ResyncRequest true "Resync request"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /payroll/invoices/{id}/resync [post]
func (h *PayrollHandler) Resync(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	var req ResyncRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDate", Message: "Must be a YYYY-MM-DD date"},
		})
	}

	invoice, err := h.syncService.Resync(int32(id), dueDate)
	if err != nil {
		var refused *domain.ResyncRefusedError
		if errors.As(err, &refused) {
			return NewConflictError(c, refused.Error())
		}
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return NewNotFoundError(c, "Payroll invoice not found")
		}
		log.Error().Err(err).Int("invoice_id", id).Msg("Failed to resync payroll invoice")
		return NewInternalError(c, "Failed to resync payroll invoice")
	}

	log.Info().Int32("invoice_id", invoice.ID).Msg("Payroll invoice resynced")

	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

func toPayrollResponse(employeeID int32, calc *domain.PayrollCalculationResult) PayrollResponse {
	items := make([]LineItemResponse, len(calc.Items))
	for i, item := range calc.Items {
		items[i] = LineItemResponse{
			Label:     item.Label,
			Kind:      string(item.Kind),
			Amount:    item.Amount.DecimalString(),
			Reference: item.Reference,
			Note:      item.Note,
		}
	}
	return PayrollResponse{
		EmployeeID:      employeeID,
		CompetenceMonth: calc.CompetenceMonth,
		CompetenceYear:  calc.CompetenceYear,
		BaseSalary:      calc.BaseSalary.DecimalString(),
		GrossTotal:      calc.GrossTotal.DecimalString(),
		DiscountTotal:   calc.DiscountTotal.DecimalString(),
		NetTotal:        calc.NetTotal.DecimalString(),
		Items:           items,
	}
}
