package domain

import (
	"time"

	"github.com/google/uuid"
)

type VacationStatus string

const (
	VacationStatusScheduled VacationStatus = "scheduled"
	VacationStatusCompleted VacationStatus = "completed"
	VacationStatusCanceled  VacationStatus = "canceled"
)

// EntitlementDays is the statutory vacation entitlement per accrual cycle.
const EntitlementDays = 30

// VacationRecord is one scheduled (or taken) vacation period, tied to
// exactly one accrual cycle via ReferenceCycleStart.
type VacationRecord struct {
	ID                  uuid.UUID      `json:"id"`
	EmployeeID          int32          `json:"employeeId"`
	PeriodStart         time.Time      `json:"periodStart"`
	PeriodEnd           time.Time      `json:"periodEnd"`
	ReferenceCycleStart time.Time      `json:"referenceCycleStart"`
	SoldDays            int            `json:"soldDays"`
	Status              VacationStatus `json:"status"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// DaysTaken is the inclusive day count of the vacation period.
func (v *VacationRecord) DaysTaken() int {
	return int(v.PeriodEnd.Sub(v.PeriodStart).Hours()/24) + 1
}

// VacationEntitlement describes the employee's current accrual cycle. Only
// one cycle is ever reported: either the cycle still accruing, or the
// oldest cycle with unused days.
type VacationEntitlement struct {
	IsAccruing         bool      `json:"isAccruing"`
	CycleStart         time.Time `json:"cycleStart"`
	CycleEnd           time.Time `json:"cycleEnd"` // inclusive last day
	RemainingDays      int       `json:"remainingDays"`
	ConcessionDeadline time.Time `json:"concessionDeadline"`
	IsDue              bool      `json:"isDue"`
}

// VacationRepository is the persistence boundary for vacation records. The
// dual write in CreateWithAbsence is the one transactional boundary in the
// core: a vacation record and its derived absence incident must never exist
// independently.
type VacationRepository interface {
	ListByEmployee(employeeID int32) ([]*VacationRecord, error)
	GetByID(id uuid.UUID) (*VacationRecord, error)
	// CreateWithAbsence persists the record and the linked absence incident
	// atomically; a failure in either write retains neither.
	CreateWithAbsence(record *VacationRecord, absence *IncidentAdjustment) error
	UpdateStatus(id uuid.UUID, status VacationStatus) error
}
