package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/customers-api/internal/model/customer"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/jmoiron/sqlx"
)

// SQLiteCustomerRepository is the sqlite CustomerStore. It relies on
// RETURNING, available since sqlite 3.35.
type SQLiteCustomerRepository struct {
	db *sqlx.DB
}

func NewSQLiteCustomerRepository(server *server.Server) *SQLiteCustomerRepository {
	return &SQLiteCustomerRepository{db: server.DB.SQL}
}

func (r *SQLiteCustomerRepository) InsertCustomer(ctx context.Context, params customer.InsertParams) (*customer.Row, error) {
	stmt := `
		INSERT INTO customers (name, surname, email, price_per_hour)
		VALUES (?, ?, ?, ?)
		RETURNING id, name, surname, email, price_per_hour
	`

	var row customer.Row
	if err := r.db.GetContext(ctx, &row, stmt, params.Name, params.Surname, params.Email, params.PricePerHour); err != nil {
		return nil, fmt.Errorf("failed to get row from table:customers: %w", err)
	}

	return &row, nil
}

func (r *SQLiteCustomerRepository) GetCustomerByID(ctx context.Context, id int64) (*customer.Row, error) {
	stmt := `
		SELECT id, name, surname, email, price_per_hour
		FROM customers
		WHERE id = ?
	`

	var row customer.Row
	if err := r.db.GetContext(ctx, &row, stmt, id); err != nil {
		return nil, fmt.Errorf("failed to get row from table:customers for id=%d: %w", id, err)
	}

	return &row, nil
}

func (r *SQLiteCustomerRepository) ListCustomers(ctx context.Context) ([]customer.Row, error) {
	stmt := `
		SELECT id, name, surname, email, price_per_hour
		FROM customers
		ORDER BY id
	`

	list := []customer.Row{}
	if err := r.db.SelectContext(ctx, &list, stmt); err != nil {
		return nil, fmt.Errorf("failed to select rows from table:customers: %w", err)
	}

	return list, nil
}

func (r *SQLiteCustomerRepository) DeleteCustomerByID(ctx context.Context, id int64) (*customer.Row, error) {
	stmt := `
		DELETE FROM customers
		WHERE id = ?
		RETURNING id, name, surname, email, price_per_hour
	`

	var row customer.Row
	if err := r.db.GetContext(ctx, &row, stmt, id); err != nil {
		return nil, fmt.Errorf("failed to get row from table:customers for id=%d: %w", id, err)
	}

	return &row, nil
}
