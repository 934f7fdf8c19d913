package apperr

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/5w1tchy/libapi/internal/api/httpx"
	"github.com/5w1tchy/libapi/internal/models"
	"github.com/5w1tchy/libapi/internal/store/crud"
	"github.com/5w1tchy/libapi/internal/validate"
)

// FromPG maps a pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	p := Problem{Status: http.StatusInternalServerError, Err: "database error"}

	switch pg.Code {
	case "23505": // unique_violation
		p.Status = http.StatusConflict
		p.Err = "value already exists"
	case "23502": // not_null_violation
		p.Status = http.StatusBadRequest
		p.Err = "required field is missing"
		if pg.ColumnName != "" {
			p.Err += ": " + pg.ColumnName
		}
	case "23514": // check_violation
		p.Status = http.StatusUnprocessableEntity
		p.Err = "constraint failed"
	case "22P02": // invalid_text_representation
		p.Status = http.StatusBadRequest
		p.Err = "invalid format"
	case "22001": // string_data_right_truncation
		p.Status = http.StatusBadRequest
		p.Err = "value is too long"
	case "22003": // numeric_value_out_of_range
		p.Status = http.StatusBadRequest
		p.Err = "value out of range"
	case "40001": // serialization_failure
		p.Status = http.StatusConflict
		p.Err = "transaction conflict, please retry"
		p.Retryable = true
	case "40P01": // deadlock_detected
		p.Status = http.StatusConflict
		p.Err = "deadlock detected, please retry"
		p.Retryable = true
	case "53300": // too_many_connections
		p.Status = http.StatusServiceUnavailable
		p.Err = "too many connections, please retry"
		p.Retryable = true
	case "57P01", "57P03": // admin_shutdown, cannot_connect_now
		p.Status = http.StatusServiceUnavailable
		p.Err = "database unavailable, please retry"
		p.Retryable = true
	default:
		if msg := strings.TrimSpace(pg.Message); msg != "" {
			p.Err = "database error: " + msg
		}
	}
	return p, true
}

// FromSQLite maps a sqlite3.Error the same way FromPG does.
func FromSQLite(err error) (Problem, bool) {
	var lite sqlite3.Error
	if !errors.As(err, &lite) {
		return Problem{}, false
	}
	p := Problem{Status: http.StatusInternalServerError, Err: "database error: " + lite.Error()}
	switch lite.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		p.Status = http.StatusConflict
		p.Err = "value already exists"
	case sqlite3.ErrConstraintNotNull:
		p.Status = http.StatusBadRequest
		p.Err = "required field is missing"
	case sqlite3.ErrConstraintCheck:
		p.Status = http.StatusUnprocessableEntity
		p.Err = "constraint failed"
	}
	if lite.Code == sqlite3.ErrBusy || lite.Code == sqlite3.ErrLocked {
		p.Status = http.StatusServiceUnavailable
		p.Err = "database busy, please retry"
		p.Retryable = true
	}
	return p, true
}

// FromError classifies any error a handler can see.
func FromError(err error) Problem {
	var pe *validate.ParamError
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &pe):
		return Problem{Status: http.StatusBadRequest, Err: pe.Error()}
	case errors.As(err, &tooBig):
		return Problem{Status: http.StatusRequestEntityTooLarge, Err: "request body too large"}
	case errors.Is(err, httpx.ErrBadBody), errors.Is(err, models.ErrMissingField):
		return Problem{Status: http.StatusBadRequest, Err: err.Error()}
	case errors.Is(err, crud.ErrNotFound):
		return Problem{Status: http.StatusNotFound, Err: err.Error()}
	case errors.Is(err, crud.ErrUnavailable):
		return Problem{Status: http.StatusServiceUnavailable, Err: err.Error(), Retryable: true}
	case errors.Is(err, crud.ErrConflict):
		return Problem{Status: http.StatusConflict, Err: "value already exists"}
	case errors.Is(err, context.DeadlineExceeded):
		return Problem{Status: http.StatusServiceUnavailable, Err: "storage timeout", Retryable: true}
	}
	if p, ok := FromPG(err); ok {
		return p
	}
	if p, ok := FromSQLite(err); ok {
		return p
	}
	return Problem{Status: http.StatusInternalServerError, Err: err.Error()}
}
