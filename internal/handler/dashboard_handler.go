package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// DashboardHandler serves read-side aggregates for the dashboard
type DashboardHandler struct {
	cashflowService *service.CashflowService
	currencySymbol  string
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(cashflowService *service.CashflowService, currencySymbol string) *DashboardHandler {
	return &DashboardHandler{cashflowService: cashflowService, currencySymbol: currencySymbol}
}

// CashflowResponse represents the monthly cashflow summary. Display fields
// carry locale-formatted amounts for direct rendering.
type CashflowResponse struct {
	Year               int    `json:"year"`
	Month              int    `json:"month"`
	Income             string `json:"income"`
	Expense            string `json:"expense"`
	Net                string `json:"net"`
	PreviousNet        string `json:"previousNet"`
	IncomeDisplay      string `json:"incomeDisplay"`
	ExpenseDisplay     string `json:"expenseDisplay"`
	NetDisplay         string `json:"netDisplay"`
	PreviousNetDisplay string `json:"previousNetDisplay"`
}

// GetCashflow godoc
// @Summary Monthly cashflow summary
// @Description Sum settled payments by invoice kind for a competence month
// @Tags dashboard
// @Produce json
// @Param year path int true "Competence year"
// @Param month path int true "Competence month"
// @Success 200 {object} CashflowResponse
// @Failure 400 {object} ProblemDetails
// @Router /dashboard/cashflow/{year}/{month} [get]
func (h *DashboardHandler) GetCashflow(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return NewValidationError(c, "Invalid month", nil)
	}

	summary, err := h.cashflowService.MonthlySummary(year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCompetence) {
			return NewValidationError(c, "Month must be between 1 and 12", nil)
		}
		log.Error().Err(err).Int("year", year).Int("month", month).Msg("Failed to compute cashflow summary")
		return NewInternalError(c, "Failed to compute cashflow summary")
	}

	return c.JSON(http.StatusOK, CashflowResponse{
		Year:               summary.Year,
		Month:              summary.Month,
		Income:             summary.Income.DecimalString(),
		Expense:            summary.Expense.DecimalString(),
		Net:                summary.Net.DecimalString(),
		PreviousNet:        summary.PreviousNet.DecimalString(),
		IncomeDisplay:      summary.Income.Format(h.currencySymbol),
		ExpenseDisplay:     summary.Expense.Format(h.currencySymbol),
		NetDisplay:         summary.Net.Format(h.currencySymbol),
		PreviousNetDisplay: summary.PreviousNet.Format(h.currencySymbol),
	})
}
