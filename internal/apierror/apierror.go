// Package apierror provides the standardized error taxonomy and response
// structures for the API. All errors returned to clients go through this
// package to ensure consistency and to prevent leaking internal details
// (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for HTTP mapping and client semantics.
type Kind int

const (
	// KindConflict: duplicate open caixa, sale without an open caixa,
	// closing an already-closed caixa.
	KindConflict Kind = iota + 1
	// KindValidation: empty item list, insufficient stock, missing payment
	// sub-fields.
	KindValidation
	// KindNotFound: no matching caixa/venda/produto.
	KindNotFound
	// KindForbidden: cross-operator access without the admin role.
	KindForbidden
)

// Error is a typed domain error surfaced directly to the caller with a
// human-readable detail message. None of these are retried automatically.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func Conflict(detail string) error   { return &Error{Kind: KindConflict, Detail: detail} }
func Validation(detail string) error { return &Error{Kind: KindValidation, Detail: detail} }
func NotFound(detail string) error   { return &Error{Kind: KindNotFound, Detail: detail} }
func Forbidden(detail string) error  { return &Error{Kind: KindForbidden, Detail: detail} }

// Status maps an error to its HTTP status code. Untyped errors map to 500 —
// handlers must replace their detail with a generic message before responding.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}
