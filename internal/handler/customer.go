package handler

import (
	"net/http"

	"github.com/deppfellow/customers-api/internal/model/customer"
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/deppfellow/customers-api/internal/service"
	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	Handler
	customerService *service.CustomerService
}

func NewCustomerHandler(s *server.Server, customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		Handler:         NewHandler(s),
		customerService: customerService,
	}
}

// CreateCustomer handles POST /customers. An "id" in the body is ignored.
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, payload *customer.CreateCustomerRequest) (*customer.Customer, error) {
			return h.customerService.CreateCustomer(c, payload)
		},
		http.StatusCreated,
		&customer.CreateCustomerRequest{},
	)(c)
}

// GetCustomer handles GET /customers/:id.
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, payload *customer.GetCustomerRequest) (*customer.Customer, error) {
			return h.customerService.GetCustomer(c, payload.ID)
		},
		http.StatusOK,
		&customer.GetCustomerRequest{},
	)(c)
}

// ListCustomers handles GET /customers.
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, _ *customer.ListCustomersRequest) ([]customer.Customer, error) {
			return h.customerService.ListCustomers(c)
		},
		http.StatusOK,
		&customer.ListCustomersRequest{},
	)(c)
}

// DeleteCustomer handles DELETE /customers/:id and answers with the
// deleted customer.
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, payload *customer.DeleteCustomerRequest) (*customer.Customer, error) {
			return h.customerService.DeleteCustomer(c, payload.ID)
		},
		http.StatusOK,
		&customer.DeleteCustomerRequest{},
	)(c)
}
