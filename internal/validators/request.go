package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cloud-ru/mortgage-calc-go/internal/calculations"
	"github.com/cloud-ru/mortgage-calc-go/internal/config"
)

// OneTimePaymentInput единовременный платёж в том виде, в каком он пришёл
type OneTimePaymentInput struct {
	Amount *float64 `json:"amount" validate:"required,gte=0"`
	Month  *int     `json:"month" validate:"required,min=1,max=12"`
	Year   *int     `json:"year" validate:"required"`
}

// LoanRequest тело запроса POST /calculate.
// Первоначальный взнос задаётся либо процентом, либо суммой.
type LoanRequest struct {
	Price               *float64              `json:"price" validate:"required,gte=0"`
	DownPercentage      *float64              `json:"down_percentage" validate:"omitempty,gte=0,lte=100"`
	DownPaymentAmount   *float64              `json:"down_payment_amount" validate:"omitempty,gte=0"`
	Term                *int                  `json:"term" validate:"required,gt=0"`
	Rate                *float64              `json:"rate" validate:"required,gte=0"`
	StartMonth          *int                  `json:"start_month" validate:"required,min=1,max=12"`
	StartYear           *int                  `json:"start_year" validate:"required"`
	MonthlyExtraPayment float64               `json:"monthly_extra_payment" validate:"gte=0"`
	YearlyExtraPayment  float64               `json:"yearly_extra_payment" validate:"gte=0"`
	OneTimePayments     []OneTimePaymentInput `json:"one_time_payments"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// В сообщениях используем имена полей из JSON
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateLoanRequest превращает запрос в LoanSpec.
// Ошибки полей верхнего уровня отклоняют запрос целиком, а некорректные
// единовременные платежи отбрасываются и возвращаются как диагностика.
func ValidateLoanRequest(cfg *config.Config, req LoanRequest) (calculations.LoanSpec, []RowDiagnostic, error) {
	if err := validate.Struct(req); err != nil {
		return calculations.LoanSpec{}, nil, structError(err)
	}

	price := *req.Price
	downPercentage, err := resolveDownPercentage(price, req.DownPercentage, req.DownPaymentAmount)
	if err != nil {
		return calculations.LoanSpec{}, nil, err
	}

	checks := []error{
		CheckPrice(cfg, price),
		CheckDownPercentage(downPercentage),
		CheckTermYears(cfg, *req.Term),
		CheckRate(cfg, *req.Rate),
		CheckStartMonth(*req.StartMonth),
		CheckExtraPayment(cfg, "monthly_extra_payment", req.MonthlyExtraPayment),
		CheckExtraPayment(cfg, "yearly_extra_payment", req.YearlyExtraPayment),
		CheckOneTimePaymentCount(cfg, len(req.OneTimePayments)),
	}
	if err := mergeValidationErrors(checks); err != nil {
		return calculations.LoanSpec{}, nil, err
	}

	spec := calculations.LoanSpec{
		Price:             price,
		DownPercentage:    downPercentage,
		TermMonths:        *req.Term * 12,
		AnnualRatePercent: *req.Rate,
		StartMonth:        *req.StartMonth,
		StartYear:         *req.StartYear,
		MonthlyExtra:      req.MonthlyExtraPayment,
		YearlyExtra:       req.YearlyExtraPayment,
	}

	var diagnostics []RowDiagnostic
	for i, row := range req.OneTimePayments {
		event, reason := validateOneTimePayment(cfg, spec, row)
		if reason != "" {
			diagnostics = append(diagnostics, RowDiagnostic{Index: i, Input: row, Reason: reason})
			continue
		}
		spec.OneTimePayments = append(spec.OneTimePayments, event)
	}

	return spec, diagnostics, nil
}

// resolveDownPercentage переводит взнос суммой в проценты
func resolveDownPercentage(price float64, percentage, amount *float64) (float64, error) {
	switch {
	case percentage != nil && amount != nil:
		return 0, newValidationError("down_percentage", "specify either down_percentage or down_payment_amount, not both")
	case percentage != nil:
		return *percentage, nil
	case amount == nil:
		return 0, newValidationError("down_percentage", "this field is required")
	}

	down := *amount
	if price == 0 {
		if down > 0 {
			return 0, &ValidationError{
				Problems: []FieldProblem{{
					Field:   "down_payment_amount",
					Message: "cannot have a down payment amount if the item price is 0",
				}},
				Err: ErrInvalidDownPayment,
			}
		}
		return 0, nil
	}
	if down > price {
		return 0, newValidationError("down_payment_amount",
			fmt.Sprintf("must be between 0 and the total price (%.2f)", price))
	}

	return down / price * 100, nil
}

func validateOneTimePayment(cfg *config.Config, spec calculations.LoanSpec, row OneTimePaymentInput) (calculations.PaymentEvent, string) {
	if err := validate.Struct(row); err != nil {
		return calculations.PaymentEvent{}, structError(err).Error()
	}
	if err := CheckExtraPayment(cfg, "amount", *row.Amount); err != nil {
		return calculations.PaymentEvent{}, err.Error()
	}

	month, year := *row.Month, *row.Year
	if year < spec.StartYear || (year == spec.StartYear && month < spec.StartMonth) {
		return calculations.PaymentEvent{}, fmt.Sprintf(
			"one-time payment on %d/%d cannot be before loan start date (%d/%d)",
			month, year, spec.StartMonth, spec.StartYear)
	}

	return calculations.PaymentEvent{Amount: *row.Amount, Month: month, Year: year}, ""
}

func structError(err error) *ValidationError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return newValidationError("request", err.Error())
	}

	result := &ValidationError{}
	for _, fe := range fieldErrors {
		result.Problems = append(result.Problems, FieldProblem{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return result
}

func mergeValidationErrors(errs []error) error {
	merged := &ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			merged.Problems = append(merged.Problems, ve.Problems...)
			continue
		}
		merged.Problems = append(merged.Problems, FieldProblem{Field: "request", Message: err.Error()})
	}
	if len(merged.Problems) == 0 {
		return nil
	}
	return merged
}

// validationMessage человекочитаемое сообщение для тега валидатора
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gte", "min":
		return "must be greater than or equal to " + fe.Param()
	case "lte", "max":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "invalid value"
	}
}
