package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

func NewNotFound(resource string) error {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

func NewConflict(message string, err error) error {
	return &DomainError{
		Code:       "CONFLICT",
		Message:    message,
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Postgres
// no-rows and unique-violation conditions get their own codes so
// services can branch on them.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource").(*DomainError)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return NewConflict("duplicate record", err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// IsNotFound reports whether err represents an absent record.
func IsNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND"
}

// IsConflict reports whether err represents a duplicate insert.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == "CONFLICT"
}
