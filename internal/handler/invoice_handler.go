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
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice and payment HTTP requests
type InvoiceHandler struct {
	ledgerService *service.LedgerService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(ledgerService *service.LedgerService) *InvoiceHandler {
	return &InvoiceHandler{ledgerService: ledgerService}
}

// CreateInvoiceRequest represents the create invoice request body
type CreateInvoiceRequest struct {
	Kind            string  `json:"kind"`
	Description     string  `json:"description"`
	TotalAmount     string  `json:"totalAmount"`
	DueDate         string  `json:"dueDate"`
	CompetenceMonth int     `json:"competenceMonth"`
	CompetenceYear  int     `json:"competenceYear"`
	CounterpartyRef *string `json:"counterpartyRef,omitempty"`
}

// RegisterPaymentRequest represents the register payment request body
type RegisterPaymentRequest struct {
	Amount string  `json:"amount"`
	Method string  `json:"method"`
	Date   string  `json:"date"`
	Note   *string `json:"note,omitempty"`
}

// MarkPaidBatchRequest represents the batch settlement request body
type MarkPaidBatchRequest struct {
	InvoiceIDs []int32 `json:"invoiceIds"`
	Method     string  `json:"method"`
	Date       string  `json:"date"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID     string  `json:"id"`
	Amount string  `json:"amount"`
	Date   string  `json:"date"`
	Method string  `json:"method"`
	Note   *string `json:"note,omitempty"`
}

// InvoiceResponse represents an invoice in API responses. Status is the
// persisted enum; DisplayStatus adds the derived "partial" label.
type InvoiceResponse struct {
	ID                int32                    `json:"id"`
	Kind              string                   `json:"kind"`
	Description       string                   `json:"description"`
	TotalAmount       string                   `json:"totalAmount"`
	PaidAmount        string                   `json:"paidAmount"`
	RemainingAmount   string                   `json:"remainingAmount"`
	Status            string                   `json:"status"`
	DisplayStatus     string                   `json:"displayStatus"`
	DueDate           string                   `json:"dueDate"`
	CompetenceMonth   int                      `json:"competenceMonth"`
	CompetenceYear    int                      `json:"competenceYear"`
	CounterpartyRef   *string                  `json:"counterpartyRef,omitempty"`
	EmployeeID        *int32                   `json:"employeeId,omitempty"`
	LastPaymentMethod *string                  `json:"lastPaymentMethod,omitempty"`
	LastPaymentDate   *string                  `json:"lastPaymentDate,omitempty"`
	LineItems         []domain.PayrollLineItem `json:"lineItems,omitempty"`
	Payments          []PaymentResponse        `json:"payments"`
}

// CreateInvoice godoc
// @Summary Create an invoice
// @Description Register a manual income or expense invoice in the ledger
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice creation request"
// @Success 201 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c echo.Context) error {
	var req CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	kind := domain.InvoiceKind(req.Kind)
	if kind != domain.InvoiceKindIncome && kind != domain.InvoiceKindExpense {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "kind", Message: "Must be income or expense"},
		})
	}

	amount, err := parseAmount(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDate", Message: "Must be a YYYY-MM-DD date"},
		})
	}

	invoice, err := h.ledgerService.CreateInvoice(&domain.Invoice{
		Kind:            kind,
		Description:     req.Description,
		TotalAmount:     amount,
		DueDate:         dueDate,
		CompetenceMonth: req.CompetenceMonth,
		CompetenceYear:  req.CompetenceYear,
		CounterpartyRef: req.CounterpartyRef,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAmountNotPositive) || errors.Is(err, domain.ErrInvalidCompetence) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Msg("Failed to create invoice")
		return NewInternalError(c, "Failed to create invoice")
	}

	log.Info().Int32("invoice_id", invoice.ID).Str("kind", string(invoice.Kind)).Msg("Invoice created")

	return c.JSON(http.StatusCreated, toInvoiceResponse(invoice))
}

// GetInvoice godoc
// @Summary Get an invoice
// @Description Get one invoice with its payment history
// @Tags invoices
// @Produce json
// @Param id path int true "Invoice ID"
// @Success 200 {object} InvoiceResponse
// @Failure 404 {object} ProblemDetails
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	invoice, err := h.ledgerService.GetInvoice(int32(id))
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return NewNotFoundError(c, "Invoice not found")
		}
		log.Error().Err(err).Int("invoice_id", id).Msg("Failed to get invoice")
		return NewInternalError(c, "Failed to get invoice")
	}

	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// ListInvoices godoc
// @Summary List invoices
// @Description List invoices filtered by competence period, status and kind
// @Tags invoices
// @Produce json
// @Param year query int false "Competence year"
// @Param month query int false "Competence month"
// @Param status query string false "Persisted status" Enums(pending, paid, overdue)
// @Param kind query string false "Invoice kind" Enums(income, expense)
// @Success 200 {array} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c echo.Context) error {
	filters := &domain.InvoiceFilters{}
	if v := c.QueryParam("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return NewValidationError(c, "Invalid year", nil)
		}
		filters.CompetenceYear = &year
	}
	if v := c.QueryParam("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			return NewValidationError(c, "Invalid month", nil)
		}
		filters.CompetenceMonth = &month
	}
	if v := c.QueryParam("status"); v != "" {
		status := domain.InvoiceStatus(v)
		filters.Status = &status
	}
	if v := c.QueryParam("kind"); v != "" {
		kind := domain.InvoiceKind(v)
		filters.Kind = &kind
	}

	invoices, err := h.ledgerService.ListInvoices(filters)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list invoices")
		return NewInternalError(c, "Failed to list invoices")
	}

	response := make([]InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		response[i] = toInvoiceResponse(invoice)
	}
	return c.JSON(http.StatusOK, response)
}

// RegisterPayment godoc
// @Summary Register a payment
// @Description Append a payment to an invoice; status flips to paid once covered
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Invoice ID"
// @Param request body RegisterPaymentRequest true "Payment registration request"
// @Success 200 {object} InvoiceResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) RegisterPayment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	var req RegisterPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}
	// Positivity is enforced at this boundary; the ledger accepts any
	// amount from callers that have already validated.
	if amount <= 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Must be a YYYY-MM-DD date"},
		})
	}

	invoice, err := h.ledgerService.RegisterPayment(int32(id), amount, req.Method, date, req.Note)
	if err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return NewNotFoundError(c, "Invoice not found")
		}
		log.Error().Err(err).Int("invoice_id", id).Msg("Failed to register payment")
		return NewInternalError(c, "Failed to register payment")
	}

	log.Info().Int32("invoice_id", invoice.ID).Str("amount", amount.DecimalString()).Msg("Payment registered")

	return c.JSON(http.StatusOK, toInvoiceResponse(invoice))
}

// MarkPaidBatch godoc
// @Summary Settle a batch of invoices
// @Description Fully settle every invoice in the batch for its exact remaining balance
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body MarkPaidBatchRequest true "Batch settlement request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /invoices/mark-paid-batch [post]
func (h *InvoiceHandler) MarkPaidBatch(c echo.Context) error {
	var req MarkPaidBatchRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "date", Message: "Must be a YYYY-MM-DD date"},
		})
	}

	result, err := h.ledgerService.MarkAsPaidBatch(req.InvoiceIDs, req.Method, date)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyBatch) {
			return NewValidationError(c, "Batch contains no invoices", nil)
		}
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return NewNotFoundError(c, "Invoice not found")
		}
		log.Error().Err(err).Msg("Failed to settle batch")
		return NewInternalError(c, "Failed to settle batch")
	}

	log.Info().Int("settled_count", result.SettledCount).Str("total", result.TotalAmount.DecimalString()).Msg("Batch settled")

	return c.JSON(http.StatusOK, map[string]any{
		"settledCount": result.SettledCount,
		"totalAmount":  result.TotalAmount.DecimalString(),
		"settledAt":    result.SettledAt.Format(time.RFC3339),
	})
}

// MarkOverdue godoc
// @Summary Mark an invoice overdue
// @Description Set overdue status; called by the external due-date scheduler, not by interactive users
// @Tags invoices
// @Param id path int true "Invoice ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /invoices/{id}/overdue [patch]
func (h *InvoiceHandler) MarkOverdue(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid invoice ID", nil)
	}

	if err := h.ledgerService.MarkOverdue(int32(id)); err != nil {
		if errors.Is(err, domain.ErrInvoiceNotFound) {
			return NewNotFoundError(c, "Invoice not found")
		}
		log.Error().Err(err).Int("invoice_id", id).Msg("Failed to mark invoice overdue")
		return NewInternalError(c, "Failed to mark invoice overdue")
	}

	return c.NoContent(http.StatusNoContent)
}

func toInvoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:                invoice.ID,
		Kind:              string(invoice.Kind),
		Description:       invoice.Description,
		TotalAmount:       invoice.TotalAmount.DecimalString(),
		PaidAmount:        invoice.PaidAmount.DecimalString(),
		RemainingAmount:   invoice.RemainingAmount().DecimalString(),
		Status:            string(invoice.Status),
		DisplayStatus:     invoice.DisplayStatus(),
		DueDate:           invoice.DueDate.Format("2006-01-02"),
		CompetenceMonth:   invoice.CompetenceMonth,
		CompetenceYear:    invoice.CompetenceYear,
		CounterpartyRef:   invoice.CounterpartyRef,
		EmployeeID:        invoice.EmployeeID,
		LastPaymentMethod: invoice.LastPaymentMethod,
		LineItems:         invoice.LineItems,
		Payments:          make([]PaymentResponse, len(invoice.Payments)),
	}
	if invoice.LastPaymentDate != nil {
		d := invoice.LastPaymentDate.Format("2006-01-02")
		resp.LastPaymentDate = &d
	}
	for i, p := range invoice.Payments {
		resp.Payments[i] = PaymentResponse{
			ID:     p.ID.String(),
			Amount: p.Amount.DecimalString(),
			Date:   p.Date.Format("2006-01-02"),
			Method: p.Method,
			Note:   p.Note,
		}
	}
	return resp
}

// parseAmount converts a boundary decimal string into minor units. UI
// decimals never enter the core unconverted.
func parseAmount(s string) (domain.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return domain.MoneyFromDecimal(d), nil
}
