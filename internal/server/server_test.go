package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/estate/internal/audit/audittest"
	billrepo "github.com/smallbiznis/estate/internal/bill/repository"
	billservice "github.com/smallbiznis/estate/internal/bill/service"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/dbtest"
	directoryrepo "github.com/smallbiznis/estate/internal/directory/repository"
	expenserepo "github.com/smallbiznis/estate/internal/expense/repository"
	expenseservice "github.com/smallbiznis/estate/internal/expense/service"
	"github.com/smallbiznis/estate/internal/observability"
	paymentrepo "github.com/smallbiznis/estate/internal/payment/repository"
	paymentservice "github.com/smallbiznis/estate/internal/payment/service"
	payoutservice "github.com/smallbiznis/estate/internal/payout/service"
	performancerepo "github.com/smallbiznis/estate/internal/performance/repository"
	performanceservice "github.com/smallbiznis/estate/internal/performance/service"
	"github.com/smallbiznis/estate/internal/providers/pdf"
	reportrepo "github.com/smallbiznis/estate/internal/report/repository"
	reportservice "github.com/smallbiznis/estate/internal/report/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

type testServer struct {
	engine *gin.Engine
	audit  *audittest.Recorder
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	dbtest.SeedUser(t, db, 1, "Admin", "admin")
	dbtest.SeedUser(t, db, 7, "Asha", "resident")
	dbtest.SeedUser(t, db, 20, "Mohan", "staff")
	dbtest.SeedUnit(t, db, 101, "101", 7)
	resolved := testNow.Add(-24 * time.Hour)
	dbtest.SeedTicket(t, db, dbtest.Ticket{ID: 900, Title: "Pump repair", Status: "resolved",
		AssignedTo: dbtest.Int64(20), ActualCost: dbtest.Decimal("1000"), ResolvedAt: &resolved})
	dbtest.SeedTicket(t, db, dbtest.Ticket{ID: 901, Title: "Gate motor", Status: "open",
		AssignedTo: dbtest.Int64(20)})

	node, err := snowflake.NewNode(9)
	require.NoError(t, err)
	log := zaptest.NewLogger(t)
	fc := clock.NewFakeClock(testNow)
	policy := config.NewStaticPolicyHolder(config.DefaultPolicy())
	rec := &audittest.Recorder{}
	units := directoryrepo.NewUnitDirectory(db)
	staff := directoryrepo.NewStaffDirectory(db)
	tickets := directoryrepo.NewTicketDirectory(db, fc)
	bills := billrepo.Provide()
	expenses := expenserepo.Provide()

	srv := NewServer(ServerParams{
		Gin: NewEngine(observability.Config{}, nil),
		BillSvc: billservice.New(billservice.Params{
			DB: db, Log: log, GenID: node, Repo: bills, Units: units, Policy: policy, Clock: fc, Audit: rec,
		}),
		PaymentSvc: paymentservice.New(paymentservice.Params{
			DB: db, Log: log, GenID: node, Repo: paymentrepo.Provide(), Bills: bills, Clock: fc,
			Policy: policy, Audit: rec, PDF: pdf.New(),
		}),
		PayoutSvc: payoutservice.New(payoutservice.Params{
			DB: db, Log: log, GenID: node, Expenses: expenses, Tickets: tickets, Policy: policy, Clock: fc, Audit: rec,
		}),
		ExpenseSvc: expenseservice.New(expenseservice.Params{
			DB: db, Log: log, GenID: node, Repo: expenses, Staff: staff, Clock: fc, Audit: rec,
		}),
		PerformanceSvc: performanceservice.New(performanceservice.Params{
			DB: db, Log: log, Repo: performancerepo.Provide(), Expenses: expenses, Staff: staff,
		}),
		ReportSvc: reportservice.New(reportservice.Params{
			DB: db, Log: log, Repo: reportrepo.Provide(), Clock: fc,
		}),
	})
	return testServer{engine: srv.Engine(), audit: rec}
}

func (s testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "1")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Header().Get("Content-Type") != "application/pdf" && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	}
	return rec, decoded
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data envelope: %v", body)
	return d
}

func errorCode(body map[string]any) string {
	e, _ := body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestBillLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/api/bills", map[string]any{
		"unit_id":   "101",
		"bill_type": "maintenance",
		"amount":    2500,
		"due_date":  testNow.AddDate(0, 0, -5).Format(time.RFC3339),
		"bill_date": testNow.AddDate(0, 0, -20).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	billID := data(t, body)["id"].(string)

	rec, body = s.do(t, http.MethodGet, "/api/bills?unit_id=101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	bills := data(t, body)["bills"].([]any)
	require.Len(t, bills, 1)
	view := bills[0].(map[string]any)
	assert.Equal(t, "overdue", view["status"])
	assert.EqualValues(t, 5, view["days_overdue"])
	assert.Equal(t, "250", view["fine_amount"])

	rec, body = s.do(t, http.MethodPost, "/api/payments", map[string]any{
		"bill_id":        billID,
		"amount":         "2500.01",
		"payment_method": "upi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "amount_mismatch", errorCode(body))

	rec, body = s.do(t, http.MethodPost, "/api/payments", map[string]any{
		"bill_id":        billID,
		"payer_id":       "7",
		"amount":         2500,
		"payment_method": "upi",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paymentID := data(t, body)["id"].(string)

	rec, body = s.do(t, http.MethodPost, "/api/payments", map[string]any{
		"bill_id":        billID,
		"payer_id":       "7",
		"amount":         2500,
		"payment_method": "upi",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bill_already_paid", errorCode(body))

	rec, body = s.do(t, http.MethodGet, "/api/bills/"+billID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paid", data(t, body)["status"])

	rec, body = s.do(t, http.MethodGet, "/api/payments/"+paymentID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, billID, data(t, body)["bill_id"])
	assert.Equal(t, "success", data(t, body)["status"])

	rec, body = s.do(t, http.MethodGet, "/api/payments/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "payment_not_found", errorCode(body))

	rec, body = s.do(t, http.MethodGet, "/api/receipts/"+paymentID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Verified", data(t, body)["status"])

	rec, _ = s.do(t, http.MethodGet, "/api/receipts/"+paymentID+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec, body = s.do(t, http.MethodGet, "/api/finance/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2500", data(t, body)["total_revenue"])
	assert.Equal(t, "0", data(t, body)["pending_dues"])

	assert.Equal(t, []string{"bill.created", "payment.recorded"}, s.audit.Actions())
}

func TestPayoutOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodGet, "/api/maintenance-payouts/pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["data"], 1)

	rec, body = s.do(t, http.MethodPost, "/api/maintenance-payouts/901/approve", map[string]any{"bonus_percentage": 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ticket_not_resolved", errorCode(body))

	rec, body = s.do(t, http.MethodPost, "/api/maintenance-payouts/900/approve", map[string]any{"bonus_percentage": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1100", data(t, body)["amount"])

	rec, body = s.do(t, http.MethodPost, "/api/maintenance-payouts/900/approve", map[string]any{"bonus_percentage": 10})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "payout_already_recorded", errorCode(body))

	rec, _ = s.do(t, http.MethodPost, "/api/maintenance-payouts/12345/approve", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = s.do(t, http.MethodGet, "/api/staff/20/performance?year=2026&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	perf := data(t, body)
	assert.EqualValues(t, 1, perf["tasks_completed"])
	assert.Equal(t, "1100", perf["total_maintenance_value"])

	rec, body = s.do(t, http.MethodGet, "/api/staff/20/performance?month=3", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_period", errorCode(body))

	rec, body = s.do(t, http.MethodGet, "/api/finance/expense-stats?staff_id=20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["data"], 1)
}

func TestExpenseBookOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/api/expenses", map[string]any{
		"expense_type": "salary",
		"amount":       "15000",
		"staff_id":     "20",
		"period_month": 3,
		"period_year":  2026,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := data(t, body)["id"].(string)
	assert.Equal(t, "pending", data(t, body)["payment_status"])

	rec, body = s.do(t, http.MethodPost, "/api/expenses/"+id+"/pay", map[string]any{"payment_method": "bank_transfer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "paid", data(t, body)["payment_status"])

	rec, body = s.do(t, http.MethodPost, "/api/expenses/"+id+"/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "expense_not_pending", errorCode(body))

	rec, body = s.do(t, http.MethodGet, "/api/staff/20/salary-history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)

	rec, body = s.do(t, http.MethodGet, "/api/expenses?expense_type=salary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data(t, body)["expenses"], 1)
}

func TestRequestValidation(t *testing.T) {
	s := newTestServer(t)

	rec, body := s.do(t, http.MethodPost, "/api/bills", map[string]any{"unit_id": "101"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", errorCode(body))
	fields := body["error"].(map[string]any)["errors"].([]any)
	require.NotEmpty(t, fields)
	assert.Equal(t, "bill_type", fields[0].(map[string]any)["field"])

	rec, body = s.do(t, http.MethodPost, "/api/bills", map[string]any{"unit_id": "101", "bill_type": "water", "amount": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_amount", errorCode(body))

	rec, body = s.do(t, http.MethodGet, "/api/bills/abc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "bill_not_found", errorCode(body))

	rec, body = s.do(t, http.MethodGet, "/api/bills?status=pending", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_status", errorCode(body))

	rec, _ = s.do(t, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
