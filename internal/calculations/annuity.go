package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mortgage-calc-go/pkg/utils"
)

// MonthlyRate переводит годовую ставку в процентах в месячную долю
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100.0 / 12.0
}

// MonthlyPayment рассчитывает аннуитетный платёж
//
//	r = annualRatePercent / 100 / 12
//	M = P * r * (1+r)^n / ((1+r)^n - 1),  M = P / n при r == 0
//
// (1+r)^n - 1 считается через Expm1/Log1p, чтобы очень малые ставки
// не превращали знаменатель в ноль.
func MonthlyPayment(principal, annualRatePercent float64, months int) (float64, error) {
	if months <= 0 {
		return 0, &NonConvergentLoanError{Reason: "term must be positive"}
	}
	if principal <= Epsilon {
		return 0, nil
	}

	P := principal
	n := float64(months)
	r := MonthlyRate(annualRatePercent)

	var payment float64
	if r == 0.0 {
		payment = P / n
	} else {
		growth := n * math.Log1p(r)
		factor := math.Exp(growth)
		payment = P * r * factor / math.Expm1(growth)
	}

	if !utils.IsFinite(payment) || payment <= 0 {
		return 0, &NonConvergentLoanError{
			Reason: fmt.Sprintf("monthly payment %g is not a positive finite number", payment),
		}
	}
	if payment-P*r <= 0 {
		return 0, &NonConvergentLoanError{
			Reason: "monthly payment does not cover first-period interest",
		}
	}

	return payment, nil
}
