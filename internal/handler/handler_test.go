package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/mortgage-calc-go/internal/api"
	"github.com/cloud-ru/mortgage-calc-go/internal/config"
	"github.com/cloud-ru/mortgage-calc-go/internal/middleware"
)

const mortgageBody = `{
	"price": 300000,
	"down_percentage": 20,
	"term": 30,
	"rate": 6,
	"start_month": 1,
	"start_year": 2024,
	"monthly_extra_payment": 0,
	"yearly_extra_payment": 0,
	"one_time_payments": []
}`

func testConfig() *config.Config {
	return &config.Config{
		Port:               8000,
		MaxPrice:           1e10,
		MaxTermYears:       50,
		MaxRate:            100,
		MaxExtraPayment:    1e9,
		MaxOneTimePayments: 100,
		OTELServiceName:    "mortgage-calculator",
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewRouter(cfg, noop.NewTracerProvider().Tracer("test"), logger, limiter)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeCalculate(t *testing.T, w *httptest.ResponseRecorder) api.CalculateResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp api.CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

func TestCalculateHandler_OK(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)

	w := post(t, h, "/calculate", mortgageBody)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decodeCalculate(t, w)

	assert.Equal(t, 1438.92, resp.MonthlyPayment)
	require.NotNil(t, resp.PayoffDate)
	assert.Equal(t, "December 2053", *resp.PayoffDate)
	require.Len(t, resp.AmortizationSchedule, 360)

	first := resp.AmortizationSchedule[0]
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 1200.0, first.InterestPayment)
	assert.Equal(t, 238.92, first.PrincipalPayment)

	last := resp.AmortizationSchedule[359]
	assert.Equal(t, 0.0, last.LoanBalance)
	assert.InDelta(t, 240000, last.PrincipalPaid, 0.01)
	assert.Equal(t, resp.TotalAmountPaid, last.TotalAmountPaid)
	assert.Nil(t, resp.SkippedOneTimePayment)
}

func TestCalculateHandler_WireFieldNames(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)
	w := post(t, h, "/calculate", mortgageBody)
	require.Equal(t, http.StatusOK, w.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"monthly_payment", "total_amount_paid", "payoff_date", "amortization_schedule"} {
		assert.Contains(t, raw, key)
	}

	var rows []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["amortization_schedule"], &rows))
	for _, key := range []string{
		"Month", "Year", "Principal Payment", "Interest Payment",
		"Principal Paid", "Interest Paid", "Loan Balance", "Total Amount Paid",
	} {
		assert.Contains(t, rows[0], key)
	}
}

func TestCalculateHandler_YearlyExtraPaysOffEarly(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)
	base := decodeCalculate(t, post(t, h, "/calculate", mortgageBody))

	resp := decodeCalculate(t, post(t, h, "/calculate", `{
		"price": 300000, "down_percentage": 20, "term": 30, "rate": 6,
		"start_month": 1, "start_year": 2024, "yearly_extra_payment": 5000
	}`))

	assert.Less(t, len(resp.AmortizationSchedule), 360)
	assert.Less(t, resp.TotalAmountPaid, base.TotalAmountPaid)
	assert.Equal(t, base.MonthlyPayment, resp.MonthlyPayment)
}

func TestCalculateHandler_FullDownPayment(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)

	resp := decodeCalculate(t, post(t, h, "/calculate", `{
		"price": 300000, "down_percentage": 100, "term": 30, "rate": 6,
		"start_month": 4, "start_year": 2025
	}`))

	assert.Zero(t, resp.MonthlyPayment)
	assert.Zero(t, resp.TotalAmountPaid)
	assert.NotNil(t, resp.AmortizationSchedule)
	assert.Empty(t, resp.AmortizationSchedule)
	require.NotNil(t, resp.PayoffDate)
	assert.Equal(t, "April 2025", *resp.PayoffDate)
}

func TestCalculateHandler_SkipsInvalidOneTimePayments(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)

	resp := decodeCalculate(t, post(t, h, "/calculate", `{
		"price": 300000, "down_percentage": 20, "term": 30, "rate": 6,
		"start_month": 6, "start_year": 2024,
		"one_time_payments": [
			{"amount": 1000, "month": 0, "year": 2025},
			{"amount": 1000, "month": 5, "year": 2024},
			{"amount": 1000, "month": null, "year": 2025},
			{"amount": 20000, "month": 6, "year": 2025}
		]
	}`))

	require.Len(t, resp.SkippedOneTimePayment, 3)
	assert.Equal(t, 0, resp.SkippedOneTimePayment[0].Index)
	assert.Equal(t, 1, resp.SkippedOneTimePayment[1].Index)
	assert.Contains(t, resp.SkippedOneTimePayment[1].Reason, "before loan start date")
	assert.Equal(t, 2, resp.SkippedOneTimePayment[2].Index)
	assert.Less(t, len(resp.AmortizationSchedule), 360)
}

func TestCalculateHandler_DownPaymentAmount(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)

	resp := decodeCalculate(t, post(t, h, "/calculate", `{
		"price": 300000, "down_payment_amount": 60000, "term": 30, "rate": 6,
		"start_month": 1, "start_year": 2024
	}`))
	assert.Equal(t, 1438.92, resp.MonthlyPayment)
}

func TestCalculateHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantDetail string
	}{
		{
			name:       "invalid json",
			body:       `{invalid-json}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid request body",
		},
		{
			name:       "wrong type",
			body:       `{"price": "a lot"}`,
			wantStatus: http.StatusBadRequest,
			wantDetail: "invalid request body",
		},
		{
			name: "zero price with down amount",
			body: `{"price": 0, "down_payment_amount": 100, "term": 30, "rate": 6,
				"start_month": 1, "start_year": 2024}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "cannot have a down payment amount if the item price is 0",
		},
		{
			name: "down percentage out of range",
			body: `{"price": 1000, "down_percentage": 120, "term": 30, "rate": 6,
				"start_month": 1, "start_year": 2024}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "down_percentage: must be less than or equal to 100",
		},
		{
			name:       "missing fields",
			body:       `{"price": 1000, "down_percentage": 10}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "term: this field is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t, testConfig(), nil)
			w := post(t, h, "/calculate", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, detail(t, w), tt.wantDetail)
		})
	}
}

func TestCalculateHandler_NonConvergent(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRate = 1e12
	h := newTestRouter(t, cfg, nil)

	w := post(t, h, "/calculate", `{"price": 1000, "down_percentage": 0, "term": 30, "rate": 1e9,
		"start_month": 1, "start_year": 2024}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, detail(t, w), "loan does not amortize")
}

func TestCalculateHandler_Deterministic(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)
	body := `{"price": 450000, "down_percentage": 12.5, "term": 25, "rate": 5.375,
		"start_month": 9, "start_year": 2024, "monthly_extra_payment": 150,
		"one_time_payments": [{"amount": 12000, "month": 3, "year": 2027}]}`

	a := post(t, h, "/calculate", body)
	b := post(t, h, "/calculate", body)

	require.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, a.Body.Bytes(), b.Body.Bytes())
}

func TestCalculateHandler_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calculate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCalculateHandler_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	cfg.CompareRateLimitPerMinute = 1
	limiter := middleware.NewRateLimiter(cfg.RouteLimits(), time.Minute)
	defer limiter.Stop()
	h := newTestRouter(t, cfg, limiter)

	assert.Equal(t, http.StatusOK, post(t, h, "/calculate", mortgageBody).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(t, h, "/calculate", mortgageBody).Code)
	assert.Equal(t, http.StatusOK, post(t, h, "/compare", mortgageBody).Code,
		"compare has its own budget")
	assert.Equal(t, http.StatusTooManyRequests, post(t, h, "/compare", mortgageBody).Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code, "health checks are not rate limited")
}

func TestCompareHandler(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)

	w := post(t, h, "/compare", `{
		"price": 300000, "down_percentage": 20, "term": 30, "rate": 6,
		"start_month": 1, "start_year": 2024, "yearly_extra_payment": 5000
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 360, resp.Baseline.Months)
	assert.Equal(t, "December 2053", resp.Baseline.PayoffDate)
	assert.Less(t, resp.WithExtras.Months, 360)
	assert.Equal(t, resp.Baseline.Months-resp.WithExtras.Months, resp.MonthsSaved)
	assert.Greater(t, resp.InterestSaved, 0.0)
}

func TestHealthHandler(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"mortgage-calculator"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, testConfig(), nil)
	post(t, h, "/calculate", mortgageBody)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "calculation_requests_total")
}
