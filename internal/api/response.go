package api

import (
	"github.com/cloud-ru/mortgage-calc-go/internal/calculations"
	"github.com/cloud-ru/mortgage-calc-go/internal/validators"
	"github.com/cloud-ru/mortgage-calc-go/pkg/utils"
)

// ScheduleRow строка графика; имена полей совпадают с тем, что ожидает клиент
type ScheduleRow struct {
	Month            int     `json:"Month"`
	Year             int     `json:"Year"`
	PrincipalPayment float64 `json:"Principal Payment"`
	InterestPayment  float64 `json:"Interest Payment"`
	PrincipalPaid    float64 `json:"Principal Paid"`
	InterestPaid     float64 `json:"Interest Paid"`
	LoanBalance      float64 `json:"Loan Balance"`
	TotalAmountPaid  float64 `json:"Total Amount Paid"`
}

// SkippedPayment единовременный платёж, не попавший в расчёт
type SkippedPayment struct {
	Index  int      `json:"index"`
	Amount *float64 `json:"amount"`
	Month  *int     `json:"month"`
	Year   *int     `json:"year"`
	Reason string   `json:"reason"`
}

// CalculateResponse ответ POST /calculate
type CalculateResponse struct {
	MonthlyPayment        float64          `json:"monthly_payment"`
	TotalAmountPaid       float64          `json:"total_amount_paid"`
	PayoffDate            *string          `json:"payoff_date"`
	AmortizationSchedule  []ScheduleRow    `json:"amortization_schedule"`
	SkippedOneTimePayment []SkippedPayment `json:"skipped_one_time_payments,omitempty"`
}

// Summary краткие итоги для сравнения
type Summary struct {
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalAmountPaid   float64 `json:"total_amount_paid"`
	TotalInterestPaid float64 `json:"total_interest_paid"`
	PayoffDate        string  `json:"payoff_date"`
	Months            int     `json:"months"`
}

// CompareResponse ответ POST /compare
type CompareResponse struct {
	Baseline      Summary          `json:"baseline"`
	WithExtras    Summary          `json:"with_extras"`
	MonthsSaved   int              `json:"months_saved"`
	InterestSaved float64          `json:"interest_saved"`
	Skipped       []SkippedPayment `json:"skipped_one_time_payments,omitempty"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewCalculateResponse переводит результат расчёта в формат ответа.
// Денежные значения округляются до центов только здесь.
func NewCalculateResponse(result *calculations.CalculationResult, diagnostics []validators.RowDiagnostic) CalculateResponse {
	rows := make([]ScheduleRow, 0, len(result.Schedule))
	for _, row := range result.Schedule {
		rows = append(rows, ScheduleRow{
			Month:            row.CalendarMonth,
			Year:             row.CalendarYear,
			PrincipalPayment: utils.Round2(row.PrincipalPayment),
			InterestPayment:  utils.Round2(row.InterestPayment),
			PrincipalPaid:    utils.Round2(row.CumulativePrincipalPaid),
			InterestPaid:     utils.Round2(row.CumulativeInterestPaid),
			LoanBalance:      utils.Round2(row.RemainingBalance),
			TotalAmountPaid:  utils.Round2(row.CumulativeTotalPaid),
		})
	}

	payoff := result.Summary.PayoffDate()

	return CalculateResponse{
		MonthlyPayment:        utils.Round2(result.Summary.MonthlyPayment),
		TotalAmountPaid:       utils.Round2(result.Summary.TotalAmountPaid),
		PayoffDate:            &payoff,
		AmortizationSchedule:  rows,
		SkippedOneTimePayment: NewSkippedPayments(diagnostics),
	}
}

// NewCompareResponse переводит сравнение в формат ответа
func NewCompareResponse(result *calculations.ComparisonResult, diagnostics []validators.RowDiagnostic) CompareResponse {
	return CompareResponse{
		Baseline:      newSummary(result.Baseline),
		WithExtras:    newSummary(result.WithExtras),
		MonthsSaved:   result.MonthsSaved,
		InterestSaved: utils.Round2(result.InterestSaved),
		Skipped:       NewSkippedPayments(diagnostics),
	}
}

// NewSkippedPayments переводит диагностику валидатора в формат ответа
func NewSkippedPayments(diagnostics []validators.RowDiagnostic) []SkippedPayment {
	if len(diagnostics) == 0 {
		return nil
	}
	skipped := make([]SkippedPayment, 0, len(diagnostics))
	for _, d := range diagnostics {
		skipped = append(skipped, SkippedPayment{
			Index:  d.Index,
			Amount: d.Input.Amount,
			Month:  d.Input.Month,
			Year:   d.Input.Year,
			Reason: d.Reason,
		})
	}
	return skipped
}

func newSummary(s calculations.LoanSummary) Summary {
	return Summary{
		MonthlyPayment:    utils.Round2(s.MonthlyPayment),
		TotalAmountPaid:   utils.Round2(s.TotalAmountPaid),
		TotalInterestPaid: utils.Round2(s.TotalInterestPaid),
		PayoffDate:        s.PayoffDate(),
		Months:            s.Months,
	}
}
