// Package customer holds the customer entity, the raw row the store
// returns for it, and the request payloads accepted by the API.
package customer

import "github.com/deppfellow/customers-api/internal/validation"

// EntityName is used in error codes and log fields.
const EntityName = "customer"

// Customer is a persisted customer with its server-assigned id.
type Customer struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Surname      string  `json:"surname"`
	Email        *string `json:"email"`
	PricePerHour float64 `json:"price_per_hour"`
}

// Row is a customers table row exactly as the store returns it.
// ID is nullable so that a row without one is caught by the mapper
// instead of silently becoming customer 0.
type Row struct {
	ID           *int64  `db:"id"`
	Name         string  `db:"name"`
	Surname      string  `db:"surname"`
	Email        *string `db:"email"`
	PricePerHour float64 `db:"price_per_hour"`
}

// InsertParams are the column values written by an insert. There is no id:
// the store always assigns it.
type InsertParams struct {
	Name         string
	Surname      string
	Email        *string
	PricePerHour float64
}

// ------------------------------------------------------------

// CreateCustomerRequest is the body of POST /customers.
//
// Required fields are pointers so that presence is checked rather than
// non-emptiness. Any "id" in the body is ignored because there is no
// field to bind it to.
type CreateCustomerRequest struct {
	Name         *string  `json:"name" validate:"required"`
	Surname      *string  `json:"surname" validate:"required"`
	Email        *string  `json:"email"`
	PricePerHour *float64 `json:"price_per_hour" validate:"required"`
}

func (r *CreateCustomerRequest) Validate() error {
	return validation.Struct(r)
}

// Params converts a validated request into insert parameters.
func (r *CreateCustomerRequest) Params() InsertParams {
	return InsertParams{
		Name:         *r.Name,
		Surname:      *r.Surname,
		Email:        r.Email,
		PricePerHour: *r.PricePerHour,
	}
}

// ------------------------------------------------------------

// GetCustomerRequest identifies the customer in GET /customers/:id.
// The id only ever comes from the path; a body "id" must not override it.
type GetCustomerRequest struct {
	ID int64 `param:"id" json:"-"`
}

func (r *GetCustomerRequest) Validate() error {
	return validation.Struct(r)
}

// ------------------------------------------------------------

// ListCustomersRequest is the (empty) input of GET /customers.
type ListCustomersRequest struct{}

func (r *ListCustomersRequest) Validate() error {
	return nil
}

// ------------------------------------------------------------

// DeleteCustomerRequest identifies the customer in DELETE /customers/:id.
type DeleteCustomerRequest struct {
	ID int64 `param:"id" json:"-"`
}

func (r *DeleteCustomerRequest) Validate() error {
	return validation.Struct(r)
}
