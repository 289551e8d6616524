package postgres

import (
	"context"
	"time"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IncidentRepository implements domain.IncidentRepository on Postgres.
type IncidentRepository struct {
	pool *pgxpool.Pool
}

// NewIncidentRepository creates a new IncidentRepository
func NewIncidentRepository(pool *pgxpool.Pool) *IncidentRepository {
	return &IncidentRepository{pool: pool}
}

// ListByEmployeeMonth retrieves the incidents dated inside one competence
// month.
func (r *IncidentRepository) ListByEmployeeMonth(employeeID int32, year, month int) ([]*domain.IncidentAdjustment, error) {
	ctx := context.Background()

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, date, description, kind, financial_impact, created_at
		FROM incidents
		WHERE employee_id = $1 AND date >= $2 AND date < $3
		ORDER BY date, created_at
	`, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*domain.IncidentAdjustment
	for rows.Next() {
		var in domain.IncidentAdjustment
		if err := rows.Scan(&in.ID, &in.EmployeeID, &in.Date, &in.Description, &in.Kind, &in.FinancialImpact, &in.CreatedAt); err != nil {
			return nil, err
		}
		incidents = append(incidents, &in)
	}
	return incidents, rows.Err()
}

// Create inserts a new incident.
func (r *IncidentRepository) Create(incident *domain.IncidentAdjustment) (*domain.IncidentAdjustment, error) {
	ctx := context.Background()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO incidents (id, employee_id, date, description, kind, financial_impact)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, incident.ID, incident.EmployeeID, incident.Date, incident.Description,
		incident.Kind, incident.FinancialImpact,
	).Scan(&incident.CreatedAt)
	if err != nil {
		return nil, err
	}
	return incident, nil
}
