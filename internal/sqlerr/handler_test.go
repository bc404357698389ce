package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/customers-api/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_NoRows(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "pgx with table",
			err:         pkgerrors.Wrap(pgx.ErrNoRows, "failed to collect row from table:customers"),
			wantMessage: "Customer not found",
		},
		{
			name:        "database/sql with table",
			err:         fmt.Errorf("failed to get row from table:customers: %w", sql.ErrNoRows),
			wantMessage: "Customer not found",
		},
		{
			name:        "without table",
			err:         pgx.ErrNoRows,
			wantMessage: "Resource not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tt.err))
			assert.Equal(t, http.StatusNotFound, httpErr.Status)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
		})
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewBadRequestError("bad id", false, nil, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleError_PgConstraintViolations(t *testing.T) {
	tests := []struct {
		name       string
		pgErr      *pgconn.PgError
		wantCode   string
		wantMsg    string
		wantFields int
	}{
		{
			name:       "not null",
			pgErr:      &pgconn.PgError{Code: "23502", Severity: "ERROR", TableName: "customers", ColumnName: "surname"},
			wantCode:   "CUSTOMER_REQUIRED",
			wantMsg:    "The Surname is required",
			wantFields: 1,
		},
		{
			name:     "unique",
			pgErr:    &pgconn.PgError{Code: "23505", Severity: "ERROR", TableName: "customers", ConstraintName: "customers_email_key"},
			wantCode: "CUSTOMER_ALREADY_EXISTS",
			wantMsg:  "A Customer with this Email already exists",
		},
		{
			name:     "check",
			pgErr:    &pgconn.PgError{Code: "23514", Severity: "ERROR", TableName: "customers", ColumnName: "price_per_hour"},
			wantCode: "CUSTOMER_INVALID",
			wantMsg:  "The Price Per Hour value does not meet required conditions",
		},
		{
			name:     "connection",
			pgErr:    &pgconn.PgError{Code: "08006", Severity: "FATAL"},
			wantCode: "RECORD_UNAVAILABLE",
			wantMsg:  "The database is currently unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(fmt.Errorf("insert: %w", tt.pgErr)))
			assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.Len(t, httpErr.Errors, tt.wantFields)
		})
	}
}

func TestHandleError_SQLiteConstraintViolation(t *testing.T) {
	sqliteErr := sqlite3.Error{
		Code:         sqlite3.ErrConstraint,
		ExtendedCode: sqlite3.ErrConstraintNotNull,
	}

	sqlErr := ConvertSQLiteError(sqliteErr)
	assert.Equal(t, NotNullViolation, sqlErr.Code)

	httpErr := asHTTPError(t, HandleError(sqliteErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "RECORD_REQUIRED", httpErr.Code)
}

func TestHandleError_Unknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ConnectionFailure, MapCode("08001"))
	assert.Equal(t, Other, MapCode("42P01"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_customers_email"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("customers_email_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk"))
}

func TestTableFromMessage(t *testing.T) {
	assert.Equal(t, "customers", tableFromMessage("failed to collect row from table:customers: no rows"))
	assert.Equal(t, "customers", tableFromMessage("failed to get row from table:customers for id=5: no rows"))
	assert.Equal(t, "customer_notes", tableFromMessage("x table:customer_notes"))
	assert.Equal(t, "", tableFromMessage("no table marker"))
}
