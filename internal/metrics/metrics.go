package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CalculationRequests счетчик запросов на расчет
	CalculationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_requests_total",
			Help: "Общее количество запросов на расчет графика",
		},
		[]string{"endpoint", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"endpoint", "error_type"},
	)

	// SkippedOneTimePayments счетчик отброшенных единовременных платежей
	SkippedOneTimePayments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skipped_one_time_payments_total",
			Help: "Единовременные платежи, пропущенные при валидации",
		},
	)

	// RateLimitedRequests запросы, отклонённые лимитером
	RateLimitedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Запросы, отклонённые ограничением частоты",
		},
		[]string{"route"},
	)

	// ScheduleLength длина построенных графиков в месяцах
	ScheduleLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "schedule_length_months",
			Help:    "Количество строк в построенном графике",
			Buckets: []float64{0, 12, 60, 120, 180, 240, 300, 360, 480, 600},
		},
	)
)
