// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or delete data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/deppfellow/customers-api/internal/config"
	"github.com/deppfellow/customers-api/internal/server"
)

// Repositories is a container for all repository instances.
//
// Each field is an interface so services do not care which driver
// backs it.
type Repositories struct {
	Customer CustomerStore
}

// NewRepositories builds the repositories for the driver the server's
// database was opened with.
func NewRepositories(s *server.Server) *Repositories {
	var customers CustomerStore
	switch s.DB.Driver {
	case config.DriverSQLite:
		customers = NewSQLiteCustomerRepository(s)
	default:
		customers = NewCustomerRepository(s)
	}

	return &Repositories{
		Customer: customers,
	}
}
