package calculations

import (
	"errors"
	"fmt"
)

// ErrNonConvergent кредит не гасится за допустимое число периодов
var ErrNonConvergent = errors.New("loan does not amortize")

// NonConvergentLoanError описывает, почему график не сходится
type NonConvergentLoanError struct {
	Reason string
	Period int
}

func (e *NonConvergentLoanError) Error() string {
	if e.Period > 0 {
		return fmt.Sprintf("loan does not amortize: %s (period %d)", e.Reason, e.Period)
	}
	return "loan does not amortize: " + e.Reason
}

func (e *NonConvergentLoanError) Is(target error) bool {
	return target == ErrNonConvergent
}
