package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	custom := "CUSTOMER_NOT_FOUND"

	tests := []struct {
		name       string
		err        *HTTPError
		wantStatus int
		wantCode   string
	}{
		{"bad request", NewBadRequestError("bad", false, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"not found custom code", NewNotFoundError("missing", true, &custom), http.StatusNotFound, custom},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
		{"forbidden", NewForbiddenError("no", false), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestNewStoreError(t *testing.T) {
	code := "CUSTOMER_REQUIRED"
	fields := []FieldError{{Field: "name", Error: "is required"}}

	err := NewStoreError("The Name is required", true, &code, fields)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, code, err.Code)
	assert.Equal(t, "The Name is required", err.Message)
	assert.Equal(t, fields, err.Errors)

	generic := NewStoreError("", false, nil, nil)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), generic.Message)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", generic.Code)
}

func TestHTTPError_As(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("Customer not found", true, nil))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestMappingError(t *testing.T) {
	err := NewMissingIDError("customer")

	assert.Equal(t, "cannot map customer row: MISSING_ID", err.Error())
	assert.Equal(t, "CUSTOMER_MAPPING_FAILED", err.Code())

	var mappingErr *MappingError
	require.True(t, errors.As(fmt.Errorf("list: %w", err), &mappingErr))
	assert.Equal(t, MappingMissingID, mappingErr.Kind)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
