package calculations

import (
	"strconv"
	"time"
)

// PaymentEvent единовременный досрочный платёж, привязанный к календарному месяцу
type PaymentEvent struct {
	Amount float64
	Month  int
	Year   int
}

// LoanSpec нормализованные параметры кредита.
// Создаётся один раз на запрос и после этого не изменяется.
type LoanSpec struct {
	Price             float64
	DownPercentage    float64
	TermMonths        int
	AnnualRatePercent float64
	StartMonth        int
	StartYear         int
	MonthlyExtra      float64
	YearlyExtra       float64
	OneTimePayments   []PaymentEvent
}

// Principal возвращает сумму кредита за вычетом первоначального взноса
func (s LoanSpec) Principal() float64 {
	return s.Price * (1 - s.DownPercentage/100)
}

// HasExtras сообщает, задан ли хотя бы один канал досрочного погашения
func (s LoanSpec) HasExtras() bool {
	if s.MonthlyExtra > 0 || s.YearlyExtra > 0 {
		return true
	}
	for _, p := range s.OneTimePayments {
		if p.Amount > 0 {
			return true
		}
	}
	return false
}

// WithoutExtras возвращает копию параметров без досрочных платежей
func (s LoanSpec) WithoutExtras() LoanSpec {
	s.MonthlyExtra = 0
	s.YearlyExtra = 0
	s.OneTimePayments = nil
	return s
}

// ScheduleRow одна строка графика платежей
type ScheduleRow struct {
	MonthIndex              int
	CalendarMonth           int
	CalendarYear            int
	InterestPayment         float64
	PrincipalPayment        float64
	ExtraPayment            float64
	CumulativePrincipalPaid float64
	CumulativeInterestPaid  float64
	RemainingBalance        float64
	CumulativeTotalPaid     float64
}

// LoanSummary итоговые показатели по графику
type LoanSummary struct {
	Principal         float64
	MonthlyPayment    float64
	TotalAmountPaid   float64
	TotalInterestPaid float64
	PayoffMonth       int
	PayoffYear        int
	Months            int
}

// PayoffDate месяц и год полного погашения в виде "December 2053"
func (s LoanSummary) PayoffDate() string {
	return FormatPeriod(s.PayoffMonth, s.PayoffYear)
}

// FormatPeriod форматирует календарный месяц для ответа
func FormatPeriod(month, year int) string {
	return time.Month(month).String() + " " + strconv.Itoa(year)
}

// CalculationResult результат расчёта графика
type CalculationResult struct {
	Summary  LoanSummary
	Schedule []ScheduleRow
}

// ComparisonResult сравнение графика с досрочными платежами и без них
type ComparisonResult struct {
	Baseline      LoanSummary
	WithExtras    LoanSummary
	MonthsSaved   int
	InterestSaved float64
}
