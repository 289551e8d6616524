package service

import (
	"errors"
	"testing"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/amparo/amparo-backend/internal/testutil"
	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func employeeAdmitted(admission time.Time) *domain.Employee {
	return &domain.Employee{
		ID:            1,
		Name:          "Ana",
		BaseSalary:    200000,
		AdmissionDate: &admission,
		Active:        true,
	}
}

func TestEntitlementFor_AccruingFirstCycle(t *testing.T) {
	employee := employeeAdmitted(date(2022, 1, 1))

	ent := EntitlementFor(employee, nil, date(2022, 6, 1))
	if ent == nil {
		t.Fatal("Expected an entitlement")
	}
	if !ent.IsAccruing {
		t.Error("Expected accruing inside the first cycle")
	}
	if !ent.CycleStart.Equal(date(2022, 1, 1)) || !ent.CycleEnd.Equal(date(2022, 12, 31)) {
		t.Errorf("Unexpected cycle %s..%s", ent.CycleStart, ent.CycleEnd)
	}
	if ent.RemainingDays != 0 {
		t.Errorf("Expected no days while accruing, got %d", ent.RemainingDays)
	}
}

func TestEntitlementFor_CompletedCycle(t *testing.T) {
	employee := employeeAdmitted(date(2022, 1, 1))

	ent := EntitlementFor(employee, nil, date(2023, 6, 1))
	if ent == nil {
		t.Fatal("Expected an entitlement")
	}
	if ent.IsAccruing {
		t.Error("Expected a closed cycle, not accruing")
	}
	if ent.RemainingDays != 30 {
		t.Errorf("Expected 30 remaining days, got %d", ent.RemainingDays)
	}
	if !ent.ConcessionDeadline.Equal(date(2024, 12, 31)) {
		t.Errorf("Expected deadline 2024-12-31, got %s", ent.ConcessionDeadline.Format("2006-01-02"))
	}
	if ent.IsDue {
		t.Error("Expected not yet due at 2023-06-01")
	}
}

func TestEntitlementFor_DueAfterDeadline(t *testing.T) {
	employee := employeeAdmitted(date(2022, 1, 1))

	ent := EntitlementFor(employee, nil, date(2024, 6, 1))
	if ent.IsDue {
		t.Error("Expected not due before the deadline")
	}

	ent = EntitlementFor(employee, nil, date(2025, 1, 1))
	if !ent.IsDue {
		t.Error("Expected due after the deadline")
	}
	if ent.RemainingDays != 30 {
		t.Errorf("Expected the oldest cycle to still hold 30 days, got %d", ent.RemainingDays)
	}
}

func TestEntitlementFor_UsedDaysAdvanceCycle(t *testing.T) {
	employee := employeeAdmitted(date(2022, 1, 1))
	records := []*domain.VacationRecord{{
		ID:                  uuid.New(),
		EmployeeID:          1,
		PeriodStart:         date(2023, 2, 1),
		PeriodEnd:           date(2023, 3, 2), // 30 inclusive days
		ReferenceCycleStart: date(2022, 1, 1),
		Status:              domain.VacationStatusScheduled,
	}}

	ent := EntitlementFor(employee, records, date(2023, 6, 1))
	if !ent.IsAccruing {
		t.Error("Expected the resolved 2022 cycle to advance to the accruing 2023 cycle")
	}
	if !ent.CycleStart.Equal(date(2023, 1, 1)) {
		t.Errorf("Expected cycle start 2023-01-01, got %s", ent.CycleStart.Format("2006-01-02"))
	}
}

func TestEntitlementFor_SoldDaysCountAsUsed(t *testing.T) {
	employee := employeeAdmitted(date(2022, 1, 1))
	records := []*domain.VacationRecord{{
		ID:                  uuid.New(),
		EmployeeID:          1,
		PeriodStart:         date(2023, 2, 1),
		PeriodEnd:           date(2023, 2, 20), // 20 days
		ReferenceCycleStart: date(2022, 1, 1),
		SoldDays:            10,
		Status:              domain.VacationStatusCompleted,
	}}

	ent := EntitlementFor(employee, records, date(2023, 6, 1))
	if !ent.IsAccruing || !ent.CycleStart.Equal(date(2023, 1, 1)) {
		t.Error("Expected 20 taken + 10 sold days to resolve the 2022 cycle")
	}
}

func TestEntitlementFor_CanceledRecordsExcluded(t *testing.T) {
	employee := employeeAdmitted(date(2022, 1, 1))
	records := []*domain.VacationRecord{{
		ID:                  uuid.New(),
		EmployeeID:          1,
		PeriodStart:         date(2023, 2, 1),
		PeriodEnd:           date(2023, 3, 2),
		ReferenceCycleStart: date(2022, 1, 1),
		Status:              domain.VacationStatusCanceled,
	}}

	ent := EntitlementFor(employee, records, date(2023, 6, 1))
	if ent.IsAccruing {
		t.Error("Expected canceled vacation to leave the 2022 cycle unresolved")
	}
	if ent.RemainingDays != 30 {
		t.Errorf("Expected canceled days returned to the cycle, got %d remaining", ent.RemainingDays)
	}
}

func TestCurrentEntitlement_InactiveEmployee(t *testing.T) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := NewVacationService(employeeRepo, vacationRepo)

	admission := date(2022, 1, 1)
	employeeRepo.Employees[1] = &domain.Employee{ID: 1, AdmissionDate: &admission, Active: false}

	ent, err := vacationService.CurrentEntitlement(1, date(2023, 6, 1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ent != nil {
		t.Error("Expected nil entitlement for inactive employee")
	}
}

func TestScheduleVacation(t *testing.T) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := NewVacationService(employeeRepo, vacationRepo)

	employeeRepo.Employees[1] = employeeAdmitted(date(2020, 1, 1))

	record, err := vacationService.ScheduleVacation(1, date(2021, 2, 1), date(2021, 2, 20), 0, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if record.Status != domain.VacationStatusScheduled {
		t.Errorf("Expected scheduled status, got %s", record.Status)
	}
	if !record.ReferenceCycleStart.Equal(date(2020, 1, 1)) {
		t.Errorf("Expected reference cycle 2020-01-01, got %s", record.ReferenceCycleStart.Format("2006-01-02"))
	}

	// The absence incident is written alongside the record.
	if len(vacationRepo.Incidents) != 1 {
		t.Fatalf("Expected 1 absence incident, got %d", len(vacationRepo.Incidents))
	}
	absence := vacationRepo.Incidents[0]
	if absence.Kind != domain.IncidentKindAbsence {
		t.Errorf("Expected absence kind, got %s", absence.Kind)
	}
	if absence.FinancialImpact != 0 {
		t.Errorf("Expected zero financial impact, got %d", absence.FinancialImpact)
	}
}

func TestScheduleVacation_InsufficientBalanceWarning(t *testing.T) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := NewVacationService(employeeRepo, vacationRepo)

	employeeRepo.Employees[1] = employeeAdmitted(date(2020, 1, 1))

	// 40 requested days exceed the 30-day entitlement: warning, no write.
	_, err := vacationService.ScheduleVacation(1, date(2021, 2, 1), date(2021, 3, 12), 0, false)
	var warning *domain.InsufficientBalanceWarning
	if !errors.As(err, &warning) {
		t.Fatalf("Expected InsufficientBalanceWarning, got %v", err)
	}
	if warning.RequestedDays != 40 || warning.RemainingDays != 30 {
		t.Errorf("Unexpected warning payload: %+v", warning)
	}
	if len(vacationRepo.Records) != 0 {
		t.Error("Expected nothing written on warning")
	}

	// Explicit confirmation overrides the warning.
	record, err := vacationService.ScheduleVacation(1, date(2021, 2, 1), date(2021, 3, 12), 0, true)
	if err != nil {
		t.Fatalf("Expected no error with confirm, got %v", err)
	}
	if record == nil {
		t.Fatal("Expected a record with confirm")
	}
}

func TestScheduleVacation_InvalidPeriod(t *testing.T) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := NewVacationService(employeeRepo, vacationRepo)

	employeeRepo.Employees[1] = employeeAdmitted(date(2020, 1, 1))

	_, err := vacationService.ScheduleVacation(1, date(2021, 3, 1), date(2021, 2, 1), 0, false)
	if !errors.Is(err, domain.ErrInvalidPeriod) {
		t.Errorf("Expected ErrInvalidPeriod, got %v", err)
	}
}

func TestScheduleVacation_NoEntitlement(t *testing.T) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := NewVacationService(employeeRepo, vacationRepo)

	// No admission date: no accrual cycles exist.
	employeeRepo.Employees[1] = &domain.Employee{ID: 1, Active: true}

	_, err := vacationService.ScheduleVacation(1, date(2021, 2, 1), date(2021, 2, 10), 0, false)
	if !errors.Is(err, domain.ErrNoEntitlement) {
		t.Errorf("Expected ErrNoEntitlement, got %v", err)
	}
}

func TestScheduleVacation_DualWriteFailure(t *testing.T) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := NewVacationService(employeeRepo, vacationRepo)

	employeeRepo.Employees[1] = employeeAdmitted(date(2020, 1, 1))

	writeErr := errors.New("write failed")
	vacationRepo.CreateWithAbsenceFn = func(record *domain.VacationRecord, absence *domain.IncidentAdjustment) error {
		return writeErr
	}

	_, err := vacationService.ScheduleVacation(1, date(2021, 2, 1), date(2021, 2, 10), 0, false)
	if !errors.Is(err, writeErr) {
		t.Fatalf("Expected write error surfaced, got %v", err)
	}
	if len(vacationRepo.Records) != 0 || len(vacationRepo.Incidents) != 0 {
		t.Error("Expected neither record retained after failed dual write")
	}
}

func TestCancelVacation_Idempotent(t *testing.T) {
	employeeRepo := testutil.NewMockEmployeeRepository()
	vacationRepo := testutil.NewMockVacationRepository()
	vacationService := NewVacationService(employeeRepo, vacationRepo)

	id := uuid.New()
	vacationRepo.Records[id] = &domain.VacationRecord{
		ID:     id,
		Status: domain.VacationStatusScheduled,
	}

	if err := vacationService.CancelVacation(id); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if vacationRepo.Records[id].Status != domain.VacationStatusCanceled {
		t.Errorf("Expected canceled, got %s", vacationRepo.Records[id].Status)
	}

	// Canceling twice is a no-op, not an error.
	if err := vacationService.CancelVacation(id); err != nil {
		t.Fatalf("Expected no error on repeat cancel, got %v", err)
	}

	if err := vacationService.CancelVacation(uuid.New()); !errors.Is(err, domain.ErrVacationNotFound) {
		t.Errorf("Expected ErrVacationNotFound, got %v", err)
	}
}
