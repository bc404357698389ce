package handler

import (
	"github.com/deppfellow/customers-api/internal/server"
	"github.com/deppfellow/customers-api/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one object.
type Handlers struct {
	Customer *CustomerHandler
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Customer: NewCustomerHandler(s, services.Customer),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
	}
}
