package customer

import "github.com/deppfellow/customers-api/internal/errs"

// RowToCustomer converts a stored row into a Customer.
// A row without an id is a store contract violation and yields a *errs.MappingError.
func RowToCustomer(row Row) (Customer, error) {
	if row.ID == nil {
		return Customer{}, errs.NewMissingIDError(EntityName)
	}

	return Customer{
		ID:           *row.ID,
		Name:         row.Name,
		Surname:      row.Surname,
		Email:        row.Email,
		PricePerHour: row.PricePerHour,
	}, nil
}

// RowsToCustomers maps every row, stopping at the first failure. It never
// returns a partial result, and an empty input yields an empty, non-nil slice.
func RowsToCustomers(rows []Row) ([]Customer, error) {
	customers := make([]Customer, 0, len(rows))
	for _, row := range rows {
		c, err := RowToCustomer(row)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}
