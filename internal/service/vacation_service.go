package service

import (
	"fmt"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/util"
	"github.com/google/uuid"
)

// maxAccrualCycles bounds the cycle walk (~60 years of service) so a
// malformed admission date cannot spin the loop.
const maxAccrualCycles = 60

// VacationService tracks per-employee vacation entitlement windows and
// schedules vacations. Scheduling is the one operation in the core with an
// explicit transactional boundary: the vacation record and its derived
// absence incident are written atomically.
type VacationService struct {
	employeeRepo domain.EmployeeRepository
	vacationRepo domain.VacationRepository
}

// NewVacationService creates a new VacationService
func NewVacationService(employeeRepo domain.EmployeeRepository, vacationRepo domain.VacationRepository) *VacationService {
	return &VacationService{
		employeeRepo: employeeRepo,
		vacationRepo: vacationRepo,
	}
}

// CurrentEntitlement reports the employee's current accrual cycle as of
// today. A nil result with nil error means the employee is inactive or has
// no admission date: absence of entitlement is a valid business state, not
// a fault.
func (s *VacationService) CurrentEntitlement(employeeID int32, today time.Time) (*domain.VacationEntitlement, error) {
	employee, err := s.employeeRepo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.Active || employee.AdmissionDate == nil {
		return nil, nil
	}

	records, err := s.vacationRepo.ListByEmployee(employeeID)
	if err != nil {
		return nil, err
	}

	return EntitlementFor(employee, records, today), nil
}

// EntitlementFor walks successive 12-month accrual cycles from the
// admission date and reports exactly one cycle: the cycle still accruing,
// or the oldest cycle with unused entitlement.
func EntitlementFor(employee *domain.Employee, records []*domain.VacationRecord, today time.Time) *domain.VacationEntitlement {
	if employee.AdmissionDate == nil {
		return nil
	}

	cycleStart := *employee.AdmissionDate
	for i := 0; i < maxAccrualCycles; i++ {
		cycleEndExclusive := cycleStart.AddDate(1, 0, 0)
		cycleEnd := cycleEndExclusive.AddDate(0, 0, -1)

		if today.Before(cycleEndExclusive) {
			// Still inside the window: no entitlement exists yet.
			return &domain.VacationEntitlement{
				IsAccruing: true,
				CycleStart: cycleStart,
				CycleEnd:   cycleEnd,
			}
		}

		used := daysUsedInCycle(records, cycleStart)
		if used >= domain.EntitlementDays {
			// Cycle fully resolved, move on to the next one.
			cycleStart = cycleEndExclusive
			continue
		}

		// Oldest unresolved cycle. The concession window runs to the end of
		// the second year after the accrual cycle closes.
		deadline := cycleStart.AddDate(3, 0, 0).AddDate(0, 0, -1)
		return &domain.VacationEntitlement{
			CycleStart:         cycleStart,
			CycleEnd:           cycleEnd,
			RemainingDays:      domain.EntitlementDays - used,
			ConcessionDeadline: deadline,
			IsDue:              today.After(deadline),
		}
	}

	return nil
}

// ScheduleVacation appends a VacationRecord for the current accrual cycle
// and, atomically, an absence incident in the staff-incident store so
// payroll and scheduling views observe it.
//
// Requesting more days than remain in the cycle is a warning requiring
// confirmation, never a hard failure: without confirm the call returns an
// InsufficientBalanceWarning and writes nothing; with confirm it proceeds.
func (s *VacationService) ScheduleVacation(employeeID int32, start, end time.Time, soldDays int, confirm bool) (*domain.VacationRecord, error) {
	if end.Before(start) {
		return nil, domain.ErrInvalidPeriod
	}

	entitlement, err := s.CurrentEntitlement(employeeID, time.Now())
	if err != nil {
		return nil, err
	}
	if entitlement == nil {
		return nil, domain.ErrNoEntitlement
	}

	daysRequested := util.DaysInclusive(start, end) + soldDays
	if daysRequested > entitlement.RemainingDays && !confirm {
		return nil, &domain.InsufficientBalanceWarning{
			RequestedDays: daysRequested,
			RemainingDays: entitlement.RemainingDays,
		}
	}

	now := time.Now()
	record := &domain.VacationRecord{
		ID:                  uuid.New(),
		EmployeeID:          employeeID,
		PeriodStart:         start,
		PeriodEnd:           end,
		ReferenceCycleStart: entitlement.CycleStart,
		SoldDays:            soldDays,
		Status:              domain.VacationStatusScheduled,
		CreatedAt:           now,
	}
	absence := &domain.IncidentAdjustment{
		ID:          uuid.New(),
		EmployeeID:  employeeID,
		Date:        start,
		Description: fmt.Sprintf("Vacation %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		Kind:        domain.IncidentKindAbsence,
		CreatedAt:   now,
	}

	// Both writes succeed or neither is retained.
	if err := s.vacationRepo.CreateWithAbsence(record, absence); err != nil {
		return nil, err
	}

	return record, nil
}

// CancelVacation marks a record canceled, returning its days to the cycle.
func (s *VacationService) CancelVacation(recordID uuid.UUID) error {
	record, err := s.vacationRepo.GetByID(recordID)
	if err != nil {
		return err
	}
	if record.Status == domain.VacationStatusCanceled {
		return nil
	}
	return s.vacationRepo.UpdateStatus(recordID, domain.VacationStatusCanceled)
}

func daysUsedInCycle(records []*domain.VacationRecord, cycleStart time.Time) int {
	used := 0
	for _, r := range records {
		if r.Status == domain.VacationStatusCanceled {
			continue
		}
		if !r.ReferenceCycleStart.Equal(cycleStart) {
			continue
		}
		used += r.DaysTaken() + r.SoldDays
	}
	return used
}
