package validators

import (
	"fmt"

	"github.com/cloud-ru/mortgage-calc-go/internal/config"
	"github.com/cloud-ru/mortgage-calc-go/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечное и лежит в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return newValidationError(name, "must be a finite number")
	}
	if value < minInclusive {
		return newValidationError(name, fmt.Sprintf("must be greater than or equal to %g", minInclusive))
	}
	if value > maxInclusive {
		return newValidationError(name, fmt.Sprintf("is too large (> %g)", maxInclusive))
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return newValidationError(name, fmt.Sprintf("must be in range [%d; %d]", minInclusive, maxInclusive))
	}
	return nil
}

// CheckPrice проверяет стоимость покупки
func CheckPrice(cfg *config.Config, price float64) error {
	return ValidatePositiveNumber("price", price, 0.0, cfg.MaxPrice)
}

// CheckDownPercentage проверяет первоначальный взнос в процентах
func CheckDownPercentage(percentage float64) error {
	return ValidatePositiveNumber("down_percentage", percentage, 0.0, 100.0)
}

// CheckRate проверяет процентную ставку
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("rate", rate, 0.0, cfg.MaxRate)
}

// CheckTermYears проверяет срок в годах
func CheckTermYears(cfg *config.Config, years int) error {
	return ValidateIntRange("term", years, 1, cfg.MaxTermYears)
}

// CheckStartMonth проверяет месяц начала кредита
func CheckStartMonth(month int) error {
	return ValidateIntRange("start_month", month, 1, 12)
}

// CheckExtraPayment проверяет сумму досрочного платежа
func CheckExtraPayment(cfg *config.Config, name string, amount float64) error {
	return ValidatePositiveNumber(name, amount, 0.0, cfg.MaxExtraPayment)
}

// CheckOneTimePaymentCount ограничивает число единовременных платежей в запросе
func CheckOneTimePaymentCount(cfg *config.Config, count int) error {
	return ValidateIntRange("one_time_payments", count, 0, cfg.MaxOneTimePayments)
}
