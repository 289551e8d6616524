package domain

import (
	"time"

	"github.com/google/uuid"
)

// Employee carries the staff attributes the financial core reads. Staff
// record management itself (clinical data, documents, scheduling) lives
// outside this core.
type Employee struct {
	ID              int32      `json:"id"`
	Name            string     `json:"name"`
	Role            *string    `json:"role,omitempty"`
	BaseSalary      Money      `json:"baseSalary"`
	HazardPercent   int        `json:"hazardPercent"` // 0, 20 or 40
	CommuteEligible bool       `json:"commuteEligible"`
	AdmissionDate   *time.Time `json:"admissionDate,omitempty"`
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// EmployeeRepository is the read boundary for staff records.
type EmployeeRepository interface {
	GetByID(id int32) (*Employee, error)
	ListActive() ([]*Employee, error)
}

type IncidentKind string

const (
	IncidentKindAdjustment IncidentKind = "adjustment"
	IncidentKindAbsence    IncidentKind = "absence"
)

// IncidentAdjustment is a dated, signed financial event against an
// employee: an overtime addition, a fine, an unpaid absence discount.
// The payroll calculator scopes incidents to a competence month by Date.
type IncidentAdjustment struct {
	ID              uuid.UUID    `json:"id"`
	EmployeeID      int32        `json:"employeeId"`
	Date            time.Time    `json:"date"`
	Description     string       `json:"description"`
	Kind            IncidentKind `json:"kind"`
	FinancialImpact Money        `json:"financialImpact"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// IncidentRepository is the boundary to the staff-incident store.
type IncidentRepository interface {
	ListByEmployeeMonth(employeeID int32, year, month int) ([]*IncidentAdjustment, error)
	Create(incident *IncidentAdjustment) (*IncidentAdjustment, error)
}
