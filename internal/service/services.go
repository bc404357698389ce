package service

import (
	"github.com/deppfellow/customers-api/internal/repository"
	"github.com/deppfellow/customers-api/internal/server"
)

type Services struct {
	Customer *CustomerService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Customer: NewCustomerService(s, repos.Customer),
	}, nil
}
