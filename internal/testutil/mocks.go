package testutil

import (
	"sort"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/google/uuid"
)

// MockInvoiceRepository is a mock implementation of domain.InvoiceRepository
type MockInvoiceRepository struct {
	Invoices map[int32]*domain.Invoice
	NextID   int32
	CreateFn func(invoice *domain.Invoice) (*domain.Invoice, error)
}

// NewMockInvoiceRepository creates a new MockInvoiceRepository
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{
		Invoices: make(map[int32]*domain.Invoice),
		NextID:   1,
	}
}

// Create creates a new invoice
func (m *MockInvoiceRepository) Create(invoice *domain.Invoice) (*domain.Invoice, error) {
	if m.CreateFn != nil {
		return m.CreateFn(invoice)
	}
	invoice.ID = m.NextID
	m.NextID++
	m.Invoices[invoice.ID] = invoice
	return invoice, nil
}

// GetByID retrieves an invoice by ID
func (m *MockInvoiceRepository) GetByID(id int32) (*domain.Invoice, error) {
	if invoice, ok := m.Invoices[id]; ok {
		return invoice, nil
	}
	return nil, domain.ErrInvoiceNotFound
}

// List retrieves invoices matching the filters
func (m *MockInvoiceRepository) List(filters *domain.InvoiceFilters) ([]*domain.Invoice, error) {
	var result []*domain.Invoice
	for _, invoice := range m.Invoices {
		if filters != nil {
			if filters.CompetenceYear != nil && invoice.CompetenceYear != *filters.CompetenceYear {
				continue
			}
			if filters.CompetenceMonth != nil && invoice.CompetenceMonth != *filters.CompetenceMonth {
				continue
			}
			if filters.Status != nil && invoice.Status != *filters.Status {
				continue
			}
			if filters.Kind != nil && invoice.Kind != *filters.Kind {
				continue
			}
		}
		result = append(result, invoice)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// AppendPayment stores the updated header and payment list. The caller has
// already appended the payment to invoice.Payments.
func (m *MockInvoiceRepository) AppendPayment(invoice *domain.Invoice, payment *domain.Payment) error {
	stored, ok := m.Invoices[invoice.ID]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	stored.Payments = invoice.Payments
	stored.PaidAmount = invoice.PaidAmount
	stored.Status = invoice.Status
	stored.LastPaymentMethod = invoice.LastPaymentMethod
	stored.LastPaymentDate = invoice.LastPaymentDate
	return nil
}

// UpdateStatus sets the invoice status
func (m *MockInvoiceRepository) UpdateStatus(id int32, status domain.InvoiceStatus) error {
	invoice, ok := m.Invoices[id]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	invoice.Status = status
	return nil
}

// Replace overwrites the invoice header and line items
func (m *MockInvoiceRepository) Replace(invoice *domain.Invoice) error {
	stored, ok := m.Invoices[invoice.ID]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	stored.Description = invoice.Description
	stored.TotalAmount = invoice.TotalAmount
	stored.DueDate = invoice.DueDate
	stored.LineItems = invoice.LineItems
	return nil
}

// GetPayrollInvoice finds the payroll invoice for an employee and period
func (m *MockInvoiceRepository) GetPayrollInvoice(employeeID int32, year, month int) (*domain.Invoice, error) {
	for _, invoice := range m.Invoices {
		if invoice.Kind != domain.InvoiceKindExpense || invoice.EmployeeID == nil {
			continue
		}
		if *invoice.EmployeeID == employeeID && invoice.CompetenceYear == year && invoice.CompetenceMonth == month {
			return invoice, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

// MockEmployeeRepository is a mock implementation of domain.EmployeeRepository
type MockEmployeeRepository struct {
	Employees map[int32]*domain.Employee
}

// NewMockEmployeeRepository creates a new MockEmployeeRepository
func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{Employees: make(map[int32]*domain.Employee)}
}

// GetByID retrieves an employee by ID
func (m *MockEmployeeRepository) GetByID(id int32) (*domain.Employee, error) {
	if employee, ok := m.Employees[id]; ok {
		return employee, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

// ListActive retrieves all active employees
func (m *MockEmployeeRepository) ListActive() ([]*domain.Employee, error) {
	var result []*domain.Employee
	for _, employee := range m.Employees {
		if employee.Active {
			result = append(result, employee)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockIncidentRepository is a mock implementation of domain.IncidentRepository
type MockIncidentRepository struct {
	Incidents []*domain.IncidentAdjustment
}

// NewMockIncidentRepository creates a new MockIncidentRepository
func NewMockIncidentRepository() *MockIncidentRepository {
	return &MockIncidentRepository{}
}

// ListByEmployeeMonth retrieves the incidents inside one competence month
func (m *MockIncidentRepository) ListByEmployeeMonth(employeeID int32, year, month int) ([]*domain.IncidentAdjustment, error) {
	var result []*domain.IncidentAdjustment
	for _, incident := range m.Incidents {
		if incident.EmployeeID != employeeID {
			continue
		}
		if incident.Date.Year() != year || int(incident.Date.Month()) != month {
			continue
		}
		result = append(result, incident)
	}
	return result, nil
}

// Create stores a new incident
func (m *MockIncidentRepository) Create(incident *domain.IncidentAdjustment) (*domain.IncidentAdjustment, error) {
	m.Incidents = append(m.Incidents, incident)
	return incident, nil
}

// MockVacationRepository is a mock implementation of domain.VacationRepository
type MockVacationRepository struct {
	Records   map[uuid.UUID]*domain.VacationRecord
	Incidents []*domain.IncidentAdjustment
	// CreateWithAbsenceFn overrides the dual write, e.g. to simulate a
	// failure after partial work.
	CreateWithAbsenceFn func(record *domain.VacationRecord, absence *domain.IncidentAdjustment) error
}

// NewMockVacationRepository creates a new MockVacationRepository
func NewMockVacationRepository() *MockVacationRepository {
	return &MockVacationRepository{Records: make(map[uuid.UUID]*domain.VacationRecord)}
}

// ListByEmployee retrieves all vacation records for an employee
func (m *MockVacationRepository) ListByEmployee(employeeID int32) ([]*domain.VacationRecord, error) {
	var result []*domain.VacationRecord
	for _, record := range m.Records {
		if record.EmployeeID == employeeID {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PeriodStart.Before(result[j].PeriodStart) })
	return result, nil
}

// GetByID retrieves one vacation record
func (m *MockVacationRepository) GetByID(id uuid.UUID) (*domain.VacationRecord, error) {
	if record, ok := m.Records[id]; ok {
		return record, nil
	}
	return nil, domain.ErrVacationNotFound
}

// CreateWithAbsence stores the record and the absence incident together
func (m *MockVacationRepository) CreateWithAbsence(record *domain.VacationRecord, absence *domain.IncidentAdjustment) error {
	if m.CreateWithAbsenceFn != nil {
		return m.CreateWithAbsenceFn(record, absence)
	}
	m.Records[record.ID] = record
	m.Incidents = append(m.Incidents, absence)
	return nil
}

// UpdateStatus sets the record status
func (m *MockVacationRepository) UpdateStatus(id uuid.UUID, status domain.VacationStatus) error {
	record, ok := m.Records[id]
	if !ok {
		return domain.ErrVacationNotFound
	}
	record.Status = status
	return nil
}
