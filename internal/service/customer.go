package service

import (
	"github.com/deppfellow/customers-api/internal/middleware"
	"github.com/deppfellow/customers-api/internal/model/customer"
	"github.com/deppfellow/customers-api/internal/repository"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// CustomerService runs one store call per operation and maps the returned
// rows. Failures from either step are returned unchanged for the global
// error handler to translate.
type CustomerService struct {
	server *server.Server
	store  repository.CustomerStore
}

func NewCustomerService(server *server.Server, store repository.CustomerStore) *CustomerService {
	return &CustomerService{
		server: server,
		store:  store,
	}
}

func (s *CustomerService) CreateCustomer(ctx echo.Context, payload *customer.CreateCustomerRequest) (*customer.Customer, error) {
	logger := middleware.GetLogger(ctx)

	row, err := s.store.InsertCustomer(ctx.Request().Context(), payload.Params())
	if err != nil {
		logger.Error().Err(err).Msg("failed to create customer")
		return nil, err
	}

	created, err := s.mapRow(logger, row)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("event", "customer_created").
		Int64("customer_id", created.ID).
		Msg("Customer created successfully")

	return created, nil
}

func (s *CustomerService) GetCustomer(ctx echo.Context, id int64) (*customer.Customer, error) {
	logger := middleware.GetLogger(ctx)

	row, err := s.store.GetCustomerByID(ctx.Request().Context(), id)
	if err != nil {
		logger.Error().Err(err).Int64("customer_id", id).Msg("failed to fetch customer by ID")
		return nil, err
	}

	return s.mapRow(logger, row)
}

// ListCustomers returns every customer ordered by id, or an error and no
// customers at all.
func (s *CustomerService) ListCustomers(ctx echo.Context) ([]customer.Customer, error) {
	logger := middleware.GetLogger(ctx)

	rows, err := s.store.ListCustomers(ctx.Request().Context())
	if err != nil {
		logger.Error().Err(err).Msg("failed to list customers")
		return nil, err
	}

	customers, err := customer.RowsToCustomers(rows)
	if err != nil {
		logMappingFailure(logger, err, rows)
		return nil, err
	}

	return customers, nil
}

// DeleteCustomer removes the customer and returns it as it was stored.
func (s *CustomerService) DeleteCustomer(ctx echo.Context, id int64) (*customer.Customer, error) {
	logger := middleware.GetLogger(ctx)

	row, err := s.store.DeleteCustomerByID(ctx.Request().Context(), id)
	if err != nil {
		logger.Error().Err(err).Int64("customer_id", id).Msg("failed to delete customer")
		return nil, err
	}

	deleted, err := s.mapRow(logger, row)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("event", "customer_deleted").
		Int64("customer_id", deleted.ID).
		Msg("Customer deleted successfully")

	return deleted, nil
}

func (s *CustomerService) mapRow(logger *zerolog.Logger, row *customer.Row) (*customer.Customer, error) {
	mapped, err := customer.RowToCustomer(*row)
	if err != nil {
		logMappingFailure(logger, err, row)
		return nil, err
	}
	return &mapped, nil
}

func logMappingFailure(logger *zerolog.Logger, err error, rows any) {
	logger.Error().
		Err(err).
		Str("entity", customer.EntityName).
		Interface("rows", rows).
		Msg("store returned a row that cannot be mapped")
}
