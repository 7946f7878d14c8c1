package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Códigos de validación estables (los consume el cliente para resaltar campos).
const (
	CodeMissingReference   = "MISSING_REFERENCE"
	CodeUnknownReference   = "UNKNOWN_REFERENCE"
	CodeSameLocation       = "SAME_LOCATION"
	CodeNoDetails          = "NO_DETAILS"
	CodeNonNumericQuantity = "NON_NUMERIC_QUANTITY"
	CodeQuantityOutOfRange = "QUANTITY_OUT_OF_RANGE"
	CodeNonPositive        = "NON_POSITIVE_QUANTITY"
	CodeZeroQuantity       = "ZERO_QUANTITY"
	CodeMissingSupply      = "MISSING_SUPPLY"
	CodeInvalidDate        = "INVALID_DATE"
	CodeExpired            = "EXPIRED_DATE"
	CodeInvalidExitReason  = "INVALID_EXIT_REASON"
	CodeCapacityExceeded   = "CAPACITY_EXCEEDED"
)

// ValidationError es un rechazo recuperable del validador: se reporta tal cual, sin reintento.
// Line es el índice (base 0) de la línea de detalle afectada, o -1 si aplica a la cabecera.
type ValidationError struct {
	Code    string
	Message string
	Line    int
}

func (e *ValidationError) Error() string { return e.Message }

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un error de cabecera.
func NewValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...), Line: -1}
}

// NewLineError construye un error asociado a una línea de detalle.
func NewLineError(line int, code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...), Line: line}
}

// CapacityError es la ValidationError de cantidad por encima del máximo disponible.
// Se revalida siempre, aunque la UI ya haya limitado el campo.
type CapacityError struct {
	ValidationError
	Requested string
	Available string
}

// Is permite errors.Is(err, ErrInvalidInput) y errors.Is(err, ErrInsufficientStock).
func (e *CapacityError) Is(target error) bool {
	return target == ErrInvalidInput || target == ErrInsufficientStock
}

// As expone el ValidationError embebido a errors.As.
func (e *CapacityError) As(target any) bool {
	if t, ok := target.(**ValidationError); ok {
		*t = &e.ValidationError
		return true
	}
	return false
}

// SubmissionError envuelve la falla del gateway. El mensaje es el del gateway sin cambios.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return e.Err.Error() }

func (e *SubmissionError) Unwrap() error { return e.Err }

// NewCapacityError construye el error de capacidad para la línea dada.
func NewCapacityError(line int, requested, available string) *CapacityError {
	return &CapacityError{
		ValidationError: ValidationError{
			Code:    CodeCapacityExceeded,
			Message: fmt.Sprintf("detail %d: quantity %s exceeds available quantity %s", line+1, requested, available),
			Line:    line,
		},
		Requested: requested,
		Available: available,
	}
}
