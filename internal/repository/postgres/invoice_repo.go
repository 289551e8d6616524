package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amparo/amparo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceRepository implements domain.InvoiceRepository on Postgres.
// Line items are stored as a jsonb column: they are written once and read
// whole, never queried by field.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `
	id, kind, description, total_amount, paid_amount, status, due_date,
	competence_month, competence_year, line_items, counterparty_ref,
	employee_id, last_payment_method, last_payment_date, created_at, updated_at`

// Create inserts a new invoice.
func (r *InvoiceRepository) Create(invoice *domain.Invoice) (*domain.Invoice, error) {
	ctx := context.Background()

	lineItems, err := json.Marshal(invoice.LineItems)
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO invoices (
			kind, description, total_amount, paid_amount, status, due_date,
			competence_month, competence_year, line_items, counterparty_ref, employee_id
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at, updated_at
	`, invoice.Kind, invoice.Description, invoice.TotalAmount, invoice.PaidAmount,
		invoice.Status, invoice.DueDate, invoice.CompetenceMonth, invoice.CompetenceYear,
		lineItems, invoice.CounterpartyRef, invoice.EmployeeID,
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// GetByID retrieves an invoice with its payments.
func (r *InvoiceRepository) GetByID(id int32) (*domain.Invoice, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `SELECT`+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	if err := r.loadPayments(ctx, []*domain.Invoice{invoice}); err != nil {
		return nil, err
	}

	return invoice, nil
}

// List retrieves invoices matching the filters, payments included.
func (r *InvoiceRepository) List(filters *domain.InvoiceFilters) ([]*domain.Invoice, error) {
	ctx := context.Background()

	query := `SELECT` + invoiceColumns + ` FROM invoices WHERE 1=1`
	var args []any
	if filters != nil {
		if filters.CompetenceYear != nil {
			args = append(args, *filters.CompetenceYear)
			query += fmt.Sprintf(" AND competence_year = $%d", len(args))
		}
		if filters.CompetenceMonth != nil {
			args = append(args, *filters.CompetenceMonth)
			query += fmt.Sprintf(" AND competence_month = $%d", len(args))
		}
		if filters.Status != nil {
			args = append(args, *filters.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if filters.Kind != nil {
			args = append(args, *filters.Kind)
			query += fmt.Sprintf(" AND kind = $%d", len(args))
		}
	}
	query += " ORDER BY due_date, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadPayments(ctx, invoices); err != nil {
		return nil, err
	}

	return invoices, nil
}

// AppendPayment inserts the payment and updates the derived header fields
// in one transaction, keeping paid_amount equal to the payment sum.
func (r *InvoiceRepository) AppendPayment(invoice *domain.Invoice, payment *domain.Payment) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (id, invoice_id, amount, paid_at, method, note)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, payment.ID, payment.InvoiceID, payment.Amount, payment.Date, payment.Method, payment.Note)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE invoices
		SET paid_amount = $2, status = $3, last_payment_method = $4,
		    last_payment_date = $5, updated_at = now()
		WHERE id = $1
	`, invoice.ID, invoice.PaidAmount, invoice.Status, invoice.LastPaymentMethod, invoice.LastPaymentDate)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateStatus sets the persisted status.
func (r *InvoiceRepository) UpdateStatus(id int32, status domain.InvoiceStatus) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// Replace overwrites the invoice header and line items. Payments rows are
// untouched by design.
func (r *InvoiceRepository) Replace(invoice *domain.Invoice) error {
	ctx := context.Background()

	lineItems, err := json.Marshal(invoice.LineItems)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET description = $2, total_amount = $3, due_date = $4,
		    line_items = $5, updated_at = now()
		WHERE id = $1
	`, invoice.ID, invoice.Description, invoice.TotalAmount, invoice.DueDate, lineItems)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// GetPayrollInvoice finds the generated payroll invoice for an employee and
// competence period.
func (r *InvoiceRepository) GetPayrollInvoice(employeeID int32, year, month int) (*domain.Invoice, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT`+invoiceColumns+`
		FROM invoices
		WHERE employee_id = $1 AND competence_year = $2 AND competence_month = $3
		  AND kind = 'expense'
		LIMIT 1
	`, employeeID, year, month)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}

	if err := r.loadPayments(ctx, []*domain.Invoice{invoice}); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (r *InvoiceRepository) loadPayments(ctx context.Context, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	byID := make(map[int32]*domain.Invoice, len(invoices))
	ids := make([]int32, len(invoices))
	for i, invoice := range invoices {
		byID[invoice.ID] = invoice
		ids[i] = invoice.ID
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, amount, paid_at, method, note, created_at
		FROM payments
		WHERE invoice_id = ANY($1)
		ORDER BY paid_at, created_at
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.Date, &p.Method, &p.Note, &p.CreatedAt); err != nil {
			return err
		}
		if invoice, ok := byID[p.InvoiceID]; ok {
			invoice.Payments = append(invoice.Payments, p)
		}
	}
	return rows.Err()
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var invoice domain.Invoice
	var lineItems []byte

	err := row.Scan(
		&invoice.ID, &invoice.Kind, &invoice.Description, &invoice.TotalAmount,
		&invoice.PaidAmount, &invoice.Status, &invoice.DueDate,
		&invoice.CompetenceMonth, &invoice.CompetenceYear, &lineItems,
		&invoice.CounterpartyRef, &invoice.EmployeeID,
		&invoice.LastPaymentMethod, &invoice.LastPaymentDate,
		&invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(lineItems) > 0 {
		if err := json.Unmarshal(lineItems, &invoice.LineItems); err != nil {
			return nil, err
		}
	}

	return &invoice, nil
}
