package repository

import (
	"context"

	"github.com/deppfellow/customers-api/internal/model/customer"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// CustomerStore persists customers. Every method executes exactly one
// statement and returns raw rows; turning them into customers is the
// mapper's job.
//
// Every returned error must carry "table:customers" in its message: the
// error handler reads the entity name from it, so a missing row (an error
// wrapping pgx.ErrNoRows or sql.ErrNoRows) becomes "Customer not found"
// rather than a generic 404.
type CustomerStore interface {
	InsertCustomer(ctx context.Context, params customer.InsertParams) (*customer.Row, error)
	GetCustomerByID(ctx context.Context, id int64) (*customer.Row, error)
	ListCustomers(ctx context.Context) ([]customer.Row, error)
	DeleteCustomerByID(ctx context.Context, id int64) (*customer.Row, error)
}

// CustomerRepository is the postgres CustomerStore.
type CustomerRepository struct {
	server *server.Server
}

func NewCustomerRepository(server *server.Server) *CustomerRepository {
	return &CustomerRepository{server: server}
}

func (r *CustomerRepository) InsertCustomer(ctx context.Context, params customer.InsertParams) (*customer.Row, error) {
	stmt := `
		INSERT INTO
			customers (
				name,
				surname,
				email,
				price_per_hour
			)
		VALUES
			(
				@name,
				@surname,
				@email,
				@price_per_hour
			)
		RETURNING
			id, name, surname, email, price_per_hour
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":           params.Name,
		"surname":        params.Surname,
		"email":          params.Email,
		"price_per_hour": params.PricePerHour,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute insert query on table:customers for name=%s", params.Name)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[customer.Row])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect row from table:customers")
	}

	return &row, nil
}

func (r *CustomerRepository) GetCustomerByID(ctx context.Context, id int64) (*customer.Row, error) {
	stmt := `
		SELECT
			id, name, surname, email, price_per_hour
		FROM
			customers
		WHERE
			id = @id
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute get by id query on table:customers for id=%d", id)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[customer.Row])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to collect row from table:customers for id=%d", id)
	}

	return &row, nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]customer.Row, error) {
	stmt := `
		SELECT
			id, name, surname, email, price_per_hour
		FROM
			customers
		ORDER BY
			id
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute list query on table:customers")
	}

	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[customer.Row])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect rows from table:customers")
	}

	return list, nil
}

func (r *CustomerRepository) DeleteCustomerByID(ctx context.Context, id int64) (*customer.Row, error) {
	stmt := `
		DELETE FROM customers
		WHERE
			id = @id
		RETURNING
			id, name, surname, email, price_per_hour
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute delete query on table:customers for id=%d", id)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[customer.Row])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to collect row from table:customers for id=%d", id)
	}

	return &row, nil
}
