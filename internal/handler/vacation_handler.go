package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// VacationHandler handles vacation entitlement and scheduling requests
type VacationHandler struct {
	vacationService *service.VacationService
}

// NewVacationHandler creates a new VacationHandler
func NewVacationHandler(vacationService *service.VacationService) *VacationHandler {
	return &VacationHandler{vacationService: vacationService}
}

// ScheduleVacationRequest represents the schedule vacation request body
type ScheduleVacationRequest struct {
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	SoldDays    int    `json:"soldDays"`
	Confirm     bool   `json:"confirm"`
}

// EntitlementResponse represents the current accrual cycle in API responses
type EntitlementResponse struct {
	IsAccruing         bool    `json:"isAccruing"`
	CycleStart         string  `json:"cycleStart"`
	CycleEnd           string  `json:"cycleEnd"`
	RemainingDays      int     `json:"remainingDays"`
	ConcessionDeadline *string `json:"concessionDeadline,omitempty"`
	IsDue              bool    `json:"isDue"`
}

// VacationResponse represents a vacation record in API responses
type VacationResponse struct {
	ID                  string `json:"id"`
	EmployeeID          int32  `json:"employeeId"`
	PeriodStart         string `json:"periodStart"`
	PeriodEnd           string `json:"periodEnd"`
	ReferenceCycleStart string `json:"referenceCycleStart"`
	SoldDays            int    `json:"soldDays"`
	Status              string `json:"status"`
}

// GetEntitlement godoc
// @Summary Get vacation entitlement
// @Description Report the employee's current accrual cycle; null for inactive employees
// @Tags vacations
// @Produce json
// @Param id path int true "Employee ID"
// @Success 200 {object} EntitlementResponse
// @Failure 404 {object} ProblemDetails
// @Router /employees/{id}/vacation-entitlement [get]
func (h *VacationHandler) GetEntitlement(c echo.Context) error {
	employeeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid employee ID", nil)
	}

	entitlement, err := h.vacationService.CurrentEntitlement(int32(employeeID), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrEmployeeNotFound) {
			return NewNotFoundError(c, "Employee not found")
		}
		log.Error().Err(err).Int("employee_id", employeeID).Msg("Failed to get vacation entitlement")
		return NewInternalError(c, "Failed to get vacation entitlement")
	}
	if entitlement == nil {
		// Inactive or no admission date: no cycle to report.
		return c.JSON(http.StatusOK, nil)
	}

	resp := EntitlementResponse{
		IsAccruing:    entitlement.IsAccruing,
		CycleStart:    entitlement.CycleStart.Format("2006-01-02"),
		CycleEnd:      entitlement.CycleEnd.Format("2006-01-02"),
		RemainingDays: entitlement.RemainingDays,
		IsDue:         entitlement.IsDue,
	}
	if !entitlement.IsAccruing {
		d := entitlement.ConcessionDeadline.Format("2006-01-02")
		resp.ConcessionDeadline = &d
	}
	return c.JSON(http.StatusOK, resp)
}

// ScheduleVacation godoc
// @Summary Schedule a vacation
// @Description Schedule a vacation and its absence record; over-allocation returns 422 until confirmed
// @Tags vacations
// @Accept json
// @Produce json
// @Param id path int true "Employee ID"
// @Param request body ScheduleVacationRequest true "Vacation scheduling request"
// @Success 201 {object} VacationResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Router /employees/{id}/vacations [post]
func (h *VacationHandler) ScheduleVacation(c echo.Context) error {
	employeeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid employee ID", nil)
	}

	var req ScheduleVacationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "periodStart", Message: "Must be a YYYY-MM-DD date"},
		})
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "periodEnd", Message: "Must be a YYYY-MM-DD date"},
		})
	}
	if req.SoldDays < 0 {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "soldDays", Message: "Must not be negative"},
		})
	}

	record, err := h.vacationService.ScheduleVacation(int32(employeeID), start, end, req.SoldDays, req.Confirm)
	if err != nil {
		var warning *domain.InsufficientBalanceWarning
		switch {
		case errors.As(err, &warning):
			return NewConfirmationRequiredError(c, warning.Error())
		case errors.Is(err, domain.ErrEmployeeNotFound):
			return NewNotFoundError(c, "Employee not found")
		case errors.Is(err, domain.ErrInvalidPeriod):
			return NewValidationError(c, "Period end must not precede period start", nil)
		case errors.Is(err, domain.ErrNoEntitlement):
			return NewValidationError(c, "Employee has no vacation entitlement", nil)
		}
		log.Error().Err(err).Int("employee_id", employeeID).Msg("Failed to schedule vacation")
		return NewInternalError(c, "Failed to schedule vacation")
	}

	log.Info().Str("vacation_id", record.ID.String()).Int32("employee_id", record.EmployeeID).Msg("Vacation scheduled")

	return c.JSON(http.StatusCreated, toVacationResponse(record))
}

// CancelVacation godoc
// @Summary Cancel a vacation
// @Description Mark a vacation canceled, returning its days to the accrual cycle
// @Tags vacations
// @Param id path string true "Vacation ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /vacations/{id}/cancel [post]
func (h *VacationHandler) CancelVacation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid vacation ID", nil)
	}

	if err := h.vacationService.CancelVacation(id); err != nil {
		if errors.Is(err, domain.ErrVacationNotFound) {
			return NewNotFoundError(c, "Vacation not found")
		}
		log.Error().Err(err).Str("vacation_id", id.String()).Msg("Failed to cancel vacation")
		return NewInternalError(c, "Failed to cancel vacation")
	}

	return c.NoContent(http.StatusNoContent)
}

func toVacationResponse(record *domain.VacationRecord) VacationResponse {
	return VacationResponse{
		ID:                  record.ID.String(),
		EmployeeID:          record.EmployeeID,
		PeriodStart:         record.PeriodStart.Format("2006-01-02"),
		PeriodEnd:           record.PeriodEnd.Format("2006-01-02"),
		ReferenceCycleStart: record.ReferenceCycleStart.Format("2006-01-02"),
		SoldDays:            record.SoldDays,
		Status:              string(record.Status),
	}
}
