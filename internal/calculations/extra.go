package calculations

type periodKey struct {
	month int
	year  int
}

// ExtraPaymentResolver считает досрочное погашение основного долга за месяц
// из трёх независимых источников: ежемесячного, ежегодного и единовременных.
type ExtraPaymentResolver struct {
	monthly     float64
	yearly      float64
	anniversary int
	oneTime     map[periodKey]float64
}

// NewExtraPaymentResolver готовит резолвер для параметров кредита.
// Единовременные платежи с одинаковым месяцем и годом суммируются.
func NewExtraPaymentResolver(spec LoanSpec) *ExtraPaymentResolver {
	oneTime := make(map[periodKey]float64, len(spec.OneTimePayments))
	for _, p := range spec.OneTimePayments {
		oneTime[periodKey{month: p.Month, year: p.Year}] += p.Amount
	}

	return &ExtraPaymentResolver{
		monthly:     spec.MonthlyExtra,
		yearly:      spec.YearlyExtra,
		anniversary: spec.StartMonth,
		oneTime:     oneTime,
	}
}

// Resolve возвращает сумму досрочных платежей за календарный месяц.
// Ежегодный платёж приходится на годовщину месяца начала кредита.
func (r *ExtraPaymentResolver) Resolve(month, year int) float64 {
	extra := r.monthly
	if month == r.anniversary {
		extra += r.yearly
	}
	extra += r.oneTime[periodKey{month: month, year: year}]
	return extra
}
