package sqlerr

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ConvertSQLiteError converts a go-sqlite3 error into an *Error.
//
// SQLite reports the failing column inside the message, e.g.
// "NOT NULL constraint failed: customers.name", which is parsed into
// TableName and ColumnName.
func ConvertSQLiteError(src sqlite3.Error) *Error {
	sqlErr := &Error{
		Code:         mapSQLiteCode(src),
		Severity:     SeverityError,
		DatabaseCode: src.ExtendedCode.Error(),
		Message:      src.Error(),
		driverErr:    src,
	}

	if _, target, found := strings.Cut(src.Error(), "constraint failed: "); found {
		// Composite constraints list several columns; the first one names the table.
		first, _, _ := strings.Cut(target, ",")
		table, column, ok := strings.Cut(strings.TrimSpace(first), ".")
		if ok {
			sqlErr.TableName = table
			sqlErr.ColumnName = column
			sqlErr.ConstraintName = table + "_" + column + "_key"
		}
	}

	return sqlErr
}

func mapSQLiteCode(src sqlite3.Error) Code {
	switch src.ExtendedCode {
	case sqlite3.ErrConstraintNotNull:
		return NotNullViolation
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return UniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	case sqlite3.ErrConstraintCheck:
		return CheckViolation
	}

	switch src.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen:
		return ConnectionFailure
	}

	return Other
}

func convertSQLiteError(err error) *Error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return ConvertSQLiteError(sqliteErr)
	}
	return nil
}
