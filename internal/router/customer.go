package router

import (
	"github.com/deppfellow/customers-api/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerCustomerRoutes(r *echo.Echo, h *handler.Handlers) {
	customers := r.Group("/customers")

	customers.POST("", h.Customer.CreateCustomer)
	customers.GET("", h.Customer.ListCustomers)
	customers.GET("/:id", h.Customer.GetCustomer)
	customers.DELETE("/:id", h.Customer.DeleteCustomer)
}
