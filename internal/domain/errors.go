package domain

import (
	"errors"
	"net/http"
)

// Code classifies an AppError. Handlers never pick HTTP statuses themselves;
// they return an AppError and the response layer maps its Code.
type Code int

const (
	CodeNotFound Code = iota + 1
	CodeAlreadyExists
	CodeValidation
	CodeInternal
	CodeUnauthorized
	CodeForbidden
)

var codeStatus = map[Code]int{
	CodeNotFound:      http.StatusNotFound,
	CodeAlreadyExists: http.StatusConflict,
	CodeValidation:    http.StatusBadRequest,
	CodeInternal:      http.StatusInternalServerError,
	CodeUnauthorized:  http.StatusUnauthorized,
	CodeForbidden:     http.StatusForbidden,
}

// Status is the HTTP status a Code is answered with.
func (c Code) Status() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// AppError is a failure the API reports to the caller. Message is shown to
// the user as is; Err stays server side.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// Shared sentinels. Match them with the Is helpers, which compare codes, so
// a NewAppError with the same code matches too.
var (
	ErrNotFound      = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal      = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrUnauthorized  = &AppError{Code: CodeUnauthorized, Message: "invalid credentials"}
	ErrForbidden     = &AppError{Code: CodeForbidden, Message: "forbidden"}
)

func NewAppError(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the outermost AppError in err's chain, and
// false when there is none.
func CodeOf(err error) (Code, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return 0, false
	}
	return appErr.Code, true
}

func IsNotFound(err error) bool      { return hasCode(err, CodeNotFound) }
func IsAlreadyExists(err error) bool { return hasCode(err, CodeAlreadyExists) }
func IsValidation(err error) bool    { return hasCode(err, CodeValidation) }
func IsInternal(err error) bool      { return hasCode(err, CodeInternal) }
func IsUnauthorized(err error) bool  { return hasCode(err, CodeUnauthorized) }
func IsForbidden(err error) bool     { return hasCode(err, CodeForbidden) }

func hasCode(err error, code Code) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// HTTPStatusCode maps err to a response status. Anything that is not an
// AppError is a 500.
func HTTPStatusCode(err error) int {
	c, ok := CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	return c.Status()
}
