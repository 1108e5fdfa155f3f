package calculations

// Summarize собирает итоги по построенному графику.
// Для пустого графика датой погашения считается дата начала кредита.
func Summarize(spec LoanSpec, monthlyPayment float64, schedule []ScheduleRow) LoanSummary {
	summary := LoanSummary{
		Principal:      spec.Principal(),
		MonthlyPayment: monthlyPayment,
		PayoffMonth:    spec.StartMonth,
		PayoffYear:     spec.StartYear,
		Months:         len(schedule),
	}

	if len(schedule) == 0 {
		return summary
	}

	last := schedule[len(schedule)-1]
	summary.TotalAmountPaid = last.CumulativeTotalPaid
	summary.TotalInterestPaid = last.CumulativeInterestPaid
	summary.PayoffMonth = last.CalendarMonth
	summary.PayoffYear = last.CalendarYear

	return summary
}
