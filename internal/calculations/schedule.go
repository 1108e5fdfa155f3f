package calculations

import (
	"fmt"
	"math"
)

// Epsilon остаток долга, который считается нулевым
const Epsilon = 1e-6

// GenerateSchedule строит помесячный график погашения.
//
// Все накопленные суммы хранятся с полной точностью, округление выполняется
// только при формировании ответа. Число итераций ограничено
// TermMonths + margin; если долг не погашен к этому моменту, возвращается
// NonConvergentLoanError.
func GenerateSchedule(spec LoanSpec, margin int) (*CalculationResult, error) {
	if spec.TermMonths <= 0 {
		return nil, &NonConvergentLoanError{Reason: "term must be positive"}
	}
	if margin < 0 {
		margin = 0
	}

	P := spec.Principal()

	payment, err := MonthlyPayment(P, spec.AnnualRatePercent, spec.TermMonths)
	if err != nil {
		return nil, err
	}

	// Кредит уже погашен первоначальным взносом
	if P <= Epsilon {
		return &CalculationResult{
			Summary:  Summarize(spec, payment, nil),
			Schedule: []ScheduleRow{},
		}, nil
	}

	schedule, err := simulate(spec, payment, spec.TermMonths+margin)
	if err != nil {
		return nil, err
	}

	return &CalculationResult{
		Summary:  Summarize(spec, payment, schedule),
		Schedule: schedule,
	}, nil
}

// simulate прогоняет помесячную итерацию с заданным платежом,
// но не дольше limit периодов
func simulate(spec LoanSpec, payment float64, limit int) ([]ScheduleRow, error) {
	P := spec.Principal()
	n := spec.TermMonths
	r := MonthlyRate(spec.AnnualRatePercent)

	schedule := make([]ScheduleRow, 0, n)
	resolver := NewExtraPaymentResolver(spec)
	month, year := spec.StartMonth, spec.StartYear
	// Платёж выше процентов первого месяца гасит долг ровно за n периодов;
	// всё, что остаётся к периоду n, это накопленная ошибка float64,
	// которая растёт как (1+r)^n.
	amortizes := payment-P*r > 0

	balance := P
	cumP := 0.0
	cumI := 0.0

	for m := 1; ; m++ {
		if m > limit {
			return nil, &NonConvergentLoanError{
				Reason: fmt.Sprintf("balance %.2f remains after %d periods", balance, limit),
				Period: limit,
			}
		}

		interest := balance * r

		basePrincipal := math.Min(payment-interest, balance)
		if basePrincipal < 0 {
			basePrincipal = 0
		}

		extra := resolver.Resolve(month, year)
		principalPayment := math.Min(basePrincipal+extra, balance)
		extraApplied := math.Max(principalPayment-basePrincipal, 0)

		if m == n && amortizes {
			principalPayment = balance
		}

		cumP += principalPayment
		cumI += interest

		// Остаток выводится из погашенной суммы, поэтому
		// cumP + balance == P выполняется на каждом шаге.
		balance = P - cumP
		if balance <= Epsilon {
			balance = 0
		}

		schedule = append(schedule, ScheduleRow{
			MonthIndex:              m,
			CalendarMonth:           month,
			CalendarYear:            year,
			InterestPayment:         interest,
			PrincipalPayment:        principalPayment,
			ExtraPayment:            extraApplied,
			CumulativePrincipalPaid: cumP,
			CumulativeInterestPaid:  cumI,
			RemainingBalance:        balance,
			CumulativeTotalPaid:     cumP + cumI,
		})

		if balance == 0 {
			break
		}

		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	return schedule, nil
}
