package validators

import (
	"errors"
	"strings"
)

// ErrInvalidDownPayment первоначальный взнос суммой при нулевой цене
var ErrInvalidDownPayment = errors.New("invalid down payment")

// FieldProblem ошибка конкретного поля запроса
type FieldProblem struct {
	Field   string
	Message string
}

// ValidationError запрос отклонён целиком
type ValidationError struct {
	Problems []FieldProblem
	Err      error
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Problems: []FieldProblem{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RowDiagnostic причина, по которой единовременный платёж пропущен
type RowDiagnostic struct {
	Index  int
	Input  OneTimePaymentInput
	Reason string
}
