package customer

import (
	"errors"
	"testing"

	"github.com/deppfellow/customers-api/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestRowToCustomer(t *testing.T) {
	row := Row{
		ID:           ptr(int64(1)),
		Name:         "Ada",
		Surname:      "Lovelace",
		Email:        nil,
		PricePerHour: 50.0,
	}

	c, err := RowToCustomer(row)
	require.NoError(t, err)
	assert.Equal(t, Customer{ID: 1, Name: "Ada", Surname: "Lovelace", PricePerHour: 50.0}, c)
}

func TestRowToCustomer_MissingID(t *testing.T) {
	_, err := RowToCustomer(Row{Name: "Ada", Surname: "Lovelace"})
	require.Error(t, err)

	var mappingErr *errs.MappingError
	require.True(t, errors.As(err, &mappingErr))
	assert.Equal(t, errs.MappingMissingID, mappingErr.Kind)
	assert.Equal(t, EntityName, mappingErr.Entity)
}

func TestRowsToCustomers(t *testing.T) {
	rows := []Row{
		{ID: ptr(int64(1)), Name: "Ada", Surname: "Lovelace", PricePerHour: 50},
		{ID: ptr(int64(2)), Name: "Alan", Surname: "Turing", Email: ptr("alan@example.com"), PricePerHour: 75},
	}

	customers, err := RowsToCustomers(rows)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, int64(2), customers[1].ID)
	assert.Equal(t, "alan@example.com", *customers[1].Email)
}

func TestRowsToCustomers_Empty(t *testing.T) {
	customers, err := RowsToCustomers(nil)
	require.NoError(t, err)
	assert.NotNil(t, customers)
	assert.Empty(t, customers)
}

func TestRowsToCustomers_ShortCircuits(t *testing.T) {
	rows := []Row{
		{ID: ptr(int64(1)), Name: "Ada"},
		{Name: "Broken"},
		{ID: ptr(int64(3)), Name: "Grace"},
	}

	customers, err := RowsToCustomers(rows)
	require.Error(t, err)
	assert.Nil(t, customers)
}
