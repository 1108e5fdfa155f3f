package calculations

import "math"

// Compare строит график с досрочными платежами и без них
// и считает сэкономленные месяцы и проценты
func Compare(spec LoanSpec, margin int) (*ComparisonResult, error) {
	withExtras, err := GenerateSchedule(spec, margin)
	if err != nil {
		return nil, err
	}

	baseline := withExtras
	if spec.HasExtras() {
		baseline, err = GenerateSchedule(spec.WithoutExtras(), margin)
		if err != nil {
			return nil, err
		}
	}

	monthsSaved := baseline.Summary.Months - withExtras.Summary.Months
	if monthsSaved < 0 {
		monthsSaved = 0
	}
	interestSaved := math.Max(baseline.Summary.TotalInterestPaid-withExtras.Summary.TotalInterestPaid, 0)

	return &ComparisonResult{
		Baseline:      baseline.Summary,
		WithExtras:    withExtras.Summary,
		MonthsSaved:   monthsSaved,
		InterestSaved: interestSaved,
	}, nil
}
