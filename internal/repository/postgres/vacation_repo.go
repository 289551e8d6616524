package postgres

import (
	"context"
	"errors"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VacationRepository implements domain.VacationRepository on Postgres.
type VacationRepository struct {
	pool *pgxpool.Pool
}

// NewVacationRepository creates a new VacationRepository
func NewVacationRepository(pool *pgxpool.Pool) *VacationRepository {
	return &VacationRepository{pool: pool}
}

const vacationColumns = `
	id, employee_id, period_start, period_end, reference_cycle_start,
	sold_days, status, created_at`

// ListByEmployee retrieves all vacation records for an employee.
func (r *VacationRepository) ListByEmployee(employeeID int32) ([]*domain.VacationRecord, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT`+vacationColumns+`
		FROM vacations
		WHERE employee_id = $1
		ORDER BY period_start
	`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.VacationRecord
	for rows.Next() {
		record, err := scanVacation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetByID retrieves one vacation record.
func (r *VacationRepository) GetByID(id uuid.UUID) (*domain.VacationRecord, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT`+vacationColumns+` FROM vacations WHERE id = $1`, id)
	record, err := scanVacation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVacationNotFound
		}
		return nil, err
	}
	return record, nil
}

// CreateWithAbsence inserts the vacation record and its derived absence
// incident in a single transaction. A failure in either write rolls back
// both: a scheduled vacation and its absence record must never exist
// independently.
func (r *VacationRepository) CreateWithAbsence(record *domain.VacationRecord, absence *domain.IncidentAdjustment) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO vacations (id, employee_id, period_start, period_end, reference_cycle_start, sold_days, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, record.ID, record.EmployeeID, record.PeriodStart, record.PeriodEnd,
		record.ReferenceCycleStart, record.SoldDays, record.Status,
	).Scan(&record.CreatedAt)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO incidents (id, employee_id, date, description, kind, financial_impact)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, absence.ID, absence.EmployeeID, absence.Date, absence.Description,
		absence.Kind, absence.FinancialImpact,
	).Scan(&absence.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateStatus sets the record status.
func (r *VacationRepository) UpdateStatus(id uuid.UUID, status domain.VacationStatus) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE vacations SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVacationNotFound
	}
	return nil
}

func scanVacation(row pgx.Row) (*domain.VacationRecord, error) {
	var v domain.VacationRecord
	err := row.Scan(
		&v.ID, &v.EmployeeID, &v.PeriodStart, &v.PeriodEnd,
		&v.ReferenceCycleStart, &v.SoldDays, &v.Status, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
