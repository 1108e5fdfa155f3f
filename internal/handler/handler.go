package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mortgage-calc-go/internal/api"
	"github.com/cloud-ru/mortgage-calc-go/internal/calculations"
	"github.com/cloud-ru/mortgage-calc-go/internal/config"
	"github.com/cloud-ru/mortgage-calc-go/internal/metrics"
	"github.com/cloud-ru/mortgage-calc-go/internal/validators"
)

const maxBodyBytes = 1 << 20

// requestError ошибка, которую можно показать клиенту
type requestError struct {
	status    int
	errorType string
	err       error
}

func (e *requestError) Error() string {
	return e.err.Error()
}

// CalculateHandler обрабатывает POST /calculate
func CalculateHandler(cfg *config.Config, tracer trace.Tracer, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpoint := config.RouteCalculate

		_, span := tracer.Start(r.Context(), endpoint)
		defer span.End()

		spec, diagnostics, reqErr := parseRequest(cfg, w, r, span)
		if reqErr != nil {
			fail(w, span, log, endpoint, reqErr)
			return
		}

		result, err := calculations.GenerateSchedule(spec, cfg.ScheduleMargin)
		if err != nil {
			fail(w, span, log, endpoint, calculationError(err))
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("monthly_payment", result.Summary.MonthlyPayment),
			attribute.Float64("total_paid", result.Summary.TotalAmountPaid),
			attribute.Int("schedule_months", result.Summary.Months),
		)
		metrics.ScheduleLength.Observe(float64(result.Summary.Months))
		metrics.CalculationRequests.WithLabelValues(endpoint, "success").Inc()

		log.WithFields(logrus.Fields{
			"endpoint":        endpoint,
			"principal":       result.Summary.Principal,
			"term_months":     spec.TermMonths,
			"schedule_months": result.Summary.Months,
			"payoff_date":     result.Summary.PayoffDate(),
			"skipped":         len(diagnostics),
		}).Debug("schedule calculated")

		writeJSON(w, http.StatusOK, api.NewCalculateResponse(result, diagnostics))
	}
}

// CompareHandler обрабатывает POST /compare
func CompareHandler(cfg *config.Config, tracer trace.Tracer, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpoint := config.RouteCompare

		_, span := tracer.Start(r.Context(), endpoint)
		defer span.End()

		spec, diagnostics, reqErr := parseRequest(cfg, w, r, span)
		if reqErr != nil {
			fail(w, span, log, endpoint, reqErr)
			return
		}

		result, err := calculations.Compare(spec, cfg.ScheduleMargin)
		if err != nil {
			fail(w, span, log, endpoint, calculationError(err))
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("months_saved", result.MonthsSaved),
			attribute.Float64("interest_saved", result.InterestSaved),
		)
		metrics.CalculationRequests.WithLabelValues(endpoint, "success").Inc()

		writeJSON(w, http.StatusOK, api.NewCompareResponse(result, diagnostics))
	}
}

// HealthHandler обрабатывает GET /healthz
func HealthHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"service": cfg.OTELServiceName,
		})
	}
}

// parseRequest декодирует и валидирует тело запроса
func parseRequest(cfg *config.Config, w http.ResponseWriter, r *http.Request, span trace.Span) (calculations.LoanSpec, []validators.RowDiagnostic, *requestError) {
	var req validators.LoanRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return calculations.LoanSpec{}, nil, &requestError{
			status:    http.StatusBadRequest,
			errorType: "decode",
			err:       fmt.Errorf("invalid request body: %w", err),
		}
	}

	spec, diagnostics, err := validators.ValidateLoanRequest(cfg, req)
	if err != nil {
		return calculations.LoanSpec{}, nil, &requestError{
			status:    http.StatusUnprocessableEntity,
			errorType: "validation",
			err:       err,
		}
	}

	span.SetAttributes(
		attribute.Float64("price", spec.Price),
		attribute.Float64("down_percentage", spec.DownPercentage),
		attribute.Float64("annual_rate_percent", spec.AnnualRatePercent),
		attribute.Int("term_months", spec.TermMonths),
		attribute.Int("one_time_payments", len(spec.OneTimePayments)),
		attribute.Int("skipped_one_time_payments", len(diagnostics)),
	)
	if len(diagnostics) > 0 {
		metrics.SkippedOneTimePayments.Add(float64(len(diagnostics)))
	}

	return spec, diagnostics, nil
}

func calculationError(err error) *requestError {
	if errors.Is(err, calculations.ErrNonConvergent) {
		return &requestError{
			status:    http.StatusUnprocessableEntity,
			errorType: "non_convergent",
			err:       err,
		}
	}
	return &requestError{
		status:    http.StatusInternalServerError,
		errorType: "calculation",
		err:       fmt.Errorf("calculation failed: %w", err),
	}
}

func fail(w http.ResponseWriter, span trace.Span, log logrus.FieldLogger, endpoint string, reqErr *requestError) {
	span.SetAttributes(attribute.String("error", reqErr.errorType))
	span.SetStatus(codes.Error, reqErr.Error())
	metrics.CalculationErrors.WithLabelValues(endpoint, reqErr.errorType).Inc()
	metrics.CalculationRequests.WithLabelValues(endpoint, "error").Inc()

	entry := log.WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"error_type": reqErr.errorType,
	}).WithError(reqErr.err)
	if reqErr.status >= http.StatusInternalServerError {
		entry.Error("calculation request failed")
	} else {
		entry.Warn("calculation request rejected")
	}

	writeJSON(w, reqErr.status, api.ErrorResponse{Detail: reqErr.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
