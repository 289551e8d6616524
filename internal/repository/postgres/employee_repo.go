package postgres

import (
	"context"
	"errors"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmployeeRepository implements domain.EmployeeRepository on Postgres.
// The financial core only reads staff records; employee administration
// lives outside it.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeColumns = `
	id, name, role, base_salary, hazard_percent, commute_eligible,
	admission_date, active, created_at, updated_at`

// GetByID retrieves one employee.
func (r *EmployeeRepository) GetByID(id int32) (*domain.Employee, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT`+employeeColumns+` FROM employees WHERE id = $1`, id)
	employee, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

// ListActive retrieves all active employees ordered by name.
func (r *EmployeeRepository) ListActive() ([]*domain.Employee, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `SELECT`+employeeColumns+` FROM employees WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*domain.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Role, &e.BaseSalary, &e.HazardPercent,
		&e.CommuteEligible, &e.AdmissionDate, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
