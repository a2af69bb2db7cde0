package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок. Транслятор в handler сопоставляет их с HTTP-статусами через errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	// ErrFileNotFound означает, что в файловом хранилище нет ожидаемого объекта.
	ErrFileNotFound = errors.New("file not found")
)

// Error несёт вид ошибки и сообщение, которое можно показать клиенту.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError создаёт ошибку заданного вида с форматированным сообщением.
func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return NewError(ErrValidation, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return NewError(ErrNotFound, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return NewError(ErrConflict, format, args...)
}
