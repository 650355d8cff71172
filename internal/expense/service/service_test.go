package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/internal/audit/audittest"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/dbtest"
	directoryrepo "github.com/smallbiznis/estate/internal/directory/repository"
	"github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/internal/expense/repository"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)

type fixture struct {
	svc   domain.Service
	clock *clock.FakeClock
	audit *audittest.Recorder
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	dbtest.SeedUser(t, db, 1, "Admin", "admin")
	dbtest.SeedUser(t, db, 20, "Mohan", "staff")
	dbtest.SeedUser(t, db, 7, "Asha", "resident")

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	fc := clock.NewFakeClock(testNow)
	rec := &audittest.Recorder{}
	svc := New(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Repo:  repository.Provide(),
		Staff: directoryrepo.NewStaffDirectory(db),
		Clock: fc,
		Audit: rec,
	})
	return fixture{svc: svc, clock: fc, audit: rec}
}

func staff(id int64) *snowflake.ID {
	v := snowflake.ID(id)
	return &v
}

func intPtr(v int) *int { return &v }

func salary(month int, amount string) domain.CreateExpenseRequest {
	return domain.CreateExpenseRequest{
		ExpenseType: "salary",
		Category:    "monthly_salary",
		Amount:      decimal.RequireFromString(amount),
		StaffID:     staff(20),
		PeriodMonth: intPtr(month),
		PeriodYear:  intPtr(2026),
		ActorID:     1,
	}
}

func TestCreateManualExpense(t *testing.T) {
	f := setup(t)

	expense, err := f.svc.Create(context.Background(), domain.CreateExpenseRequest{
		ExpenseType:   " Utility ",
		Category:      "electricity",
		Amount:        decimal.RequireFromString("4200.75"),
		PaymentStatus: "paid",
		PaymentMethod: "bank_transfer",
		Notes:         " March bill ",
		ActorID:       1,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TypeUtility, expense.ExpenseType)
	assert.Equal(t, domain.StatusPaid, expense.PaymentStatus)
	require.NotNil(t, expense.PaymentDate)
	assert.True(t, testNow.Equal(*expense.PaymentDate))
	require.NotNil(t, expense.PaymentMethod)
	assert.Equal(t, "bank_transfer", *expense.PaymentMethod)
	assert.Nil(t, expense.MaintenanceTicketID)
	assert.Equal(t, "March bill", expense.Notes)
	require.NotNil(t, expense.RecordedByID)
	assert.Equal(t, snowflake.ID(1), *expense.RecordedByID)

	stored, err := f.svc.Get(context.Background(), expense.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(expense.Amount))
	assert.Equal(t, []string{"expense.created"}, f.audit.Actions())
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name   string
		mutate func(*domain.CreateExpenseRequest)
		want   error
	}{
		{"unknown type", func(r *domain.CreateExpenseRequest) { r.ExpenseType = "bonus" }, domain.ErrInvalidType},
		{"zero amount", func(r *domain.CreateExpenseRequest) { r.Amount = decimal.Zero }, domain.ErrInvalidAmount},
		{"three decimals", func(r *domain.CreateExpenseRequest) { r.Amount = decimal.RequireFromString("10.005") }, domain.ErrInvalidAmount},
		{"reserved category", func(r *domain.CreateExpenseRequest) { r.Category = domain.CategoryMaintenancePayout }, domain.ErrInvalidCategory},
		{"month out of range", func(r *domain.CreateExpenseRequest) { r.PeriodMonth = intPtr(13) }, domain.ErrInvalidPeriod},
		{"month without year", func(r *domain.CreateExpenseRequest) { r.PeriodYear = nil }, domain.ErrInvalidPeriod},
		{"salary without staff", func(r *domain.CreateExpenseRequest) { r.StaffID = nil }, domain.ErrStaffRequired},
		{"unknown staff", func(r *domain.CreateExpenseRequest) { r.StaffID = staff(99) }, domain.ErrInvalidStaff},
		{"resident is not staff", func(r *domain.CreateExpenseRequest) { r.StaffID = staff(7) }, domain.ErrInvalidStaff},
		{"cancelled on create", func(r *domain.CreateExpenseRequest) { r.PaymentStatus = "cancelled" }, domain.ErrInvalidStatus},
		{"unknown method", func(r *domain.CreateExpenseRequest) { r.PaymentMethod = "crypto" }, domain.ErrInvalidMethod},
		{"no recording actor", func(r *domain.CreateExpenseRequest) { r.ActorID = 0 }, domain.ErrActorRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := salary(3, "15000")
			tt.mutate(&req)
			_, err := f.svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}
	assert.Empty(t, f.audit.Entries())
}

func TestSettleTransitionsOnlyFromPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	pending, err := f.svc.Create(ctx, salary(3, "15000"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, pending.PaymentStatus)
	assert.Nil(t, pending.PaymentDate)

	f.clock.Advance(2 * time.Hour)
	paid, err := f.svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: pending.ID, PaymentMethod: "UPI", ActorID: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, "upi", *paid.PaymentMethod)
	require.NotNil(t, paid.PaymentDate)
	assert.True(t, testNow.Add(2*time.Hour).Equal(*paid.PaymentDate))

	_, err = f.svc.Cancel(ctx, pending.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotPending)
	_, err = f.svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: pending.ID})
	assert.ErrorIs(t, err, domain.ErrNotPending)

	other, err := f.svc.Create(ctx, salary(4, "15000"))
	require.NoError(t, err)
	cancelled, err := f.svc.Cancel(ctx, other.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.PaymentStatus)
	assert.Nil(t, cancelled.PaymentDate)

	_, err = f.svc.MarkPaid(ctx, domain.MarkPaidRequest{ID: other.ID})
	assert.ErrorIs(t, err, domain.ErrNotPending)
	assert.True(t, apperr.Is(err, apperr.KindAlreadyPaid))

	_, err = f.svc.Cancel(ctx, 424242, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, []string{"expense.created", "expense.paid", "expense.created", "expense.cancelled"}, f.audit.Actions())
}

func TestListAndSalaryHistory(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for month := 1; month <= 3; month++ {
		_, err := f.svc.Create(ctx, salary(month, "15000"))
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, domain.CreateExpenseRequest{
		ExpenseType: "other",
		Amount:      decimal.RequireFromString("300"),
		ActorID:     1,
	})
	require.NoError(t, err)

	history, err := f.svc.SalaryHistory(ctx, 20)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 3, *history[0].PeriodMonth)
	assert.Equal(t, 1, *history[2].PeriodMonth)

	salaries, err := f.svc.List(ctx, domain.ListExpenseRequest{ExpenseType: "salary", StaffID: 20})
	require.NoError(t, err)
	assert.Len(t, salaries.Expenses, 3)

	feb, err := f.svc.List(ctx, domain.ListExpenseRequest{PeriodYear: 2026, PeriodMonth: 2})
	require.NoError(t, err)
	require.Len(t, feb.Expenses, 1)

	page, err := f.svc.List(ctx, domain.ListExpenseRequest{Pagination: pagination.Pagination{PageSize: 3}})
	require.NoError(t, err)
	assert.Len(t, page.Expenses, 3)
	assert.True(t, page.HasMore)

	_, err = f.svc.List(ctx, domain.ListExpenseRequest{PeriodMonth: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	_, err = f.svc.List(ctx, domain.ListExpenseRequest{Status: "refunded"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	none, err := f.svc.SalaryHistory(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, none)
}
