package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/internal/dbtest"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	"github.com/smallbiznis/estate/internal/directory/mocks"
	directoryrepo "github.com/smallbiznis/estate/internal/directory/repository"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	expenserepo "github.com/smallbiznis/estate/internal/expense/repository"
	"github.com/smallbiznis/estate/internal/performance/domain"
	"github.com/smallbiznis/estate/internal/performance/repository"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var created = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc    domain.Service
	db     *gorm.DB
	nextID int64
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	dbtest.SeedUser(t, db, 20, "Mohan", "staff")
	dbtest.SeedUser(t, db, 21, "Latha", "staff")
	dbtest.SeedUser(t, db, 7, "Asha", "resident")
	dbtest.SeedTicket(t, db, dbtest.Ticket{ID: 900, Status: "closed", AssignedTo: dbtest.Int64(20)})
	dbtest.SeedTicket(t, db, dbtest.Ticket{ID: 901, Status: "resolved", AssignedTo: dbtest.Int64(20)})
	dbtest.SeedTicket(t, db, dbtest.Ticket{ID: 902, Status: "closed", AssignedTo: dbtest.Int64(21)})

	svc := New(Params{
		DB:       db,
		Log:      zaptest.NewLogger(t),
		Repo:     repository.Provide(),
		Expenses: expenserepo.Provide(),
		Staff:    directoryrepo.NewStaffDirectory(db),
	})
	return &fixture{svc: svc, db: db, nextID: 1000}
}

type row struct {
	kind   string
	amount string
	staff  int64
	ticket int64
	status string
	month  int
	year   int
}

func (f *fixture) add(t *testing.T, r row) {
	t.Helper()
	f.nextID++
	e := expensedomain.Expense{
		ID:            snowflake.ID(f.nextID),
		ExpenseType:   r.kind,
		Amount:        decimal.RequireFromString(r.amount),
		PaymentStatus: r.status,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	if r.staff != 0 {
		id := snowflake.ID(r.staff)
		e.StaffID = &id
	}
	if r.ticket != 0 {
		id := snowflake.ID(r.ticket)
		e.MaintenanceTicketID = &id
	}
	if r.month != 0 {
		month, year := r.month, r.year
		e.PeriodMonth, e.PeriodYear = &month, &year
	}
	require.NoError(t, expenserepo.Provide().Insert(context.Background(), f.db, &e))
}

func intPtr(v int) *int { return &v }

func TestPerformanceCountsPaidExpensesOnly(t *testing.T) {
	f := setup(t)
	f.add(t, row{kind: "salary", amount: "500", staff: 20, status: "paid", month: 3, year: 2026})
	f.add(t, row{kind: "maintenance", amount: "200", staff: 20, ticket: 900, status: "paid", month: 3, year: 2026})
	f.add(t, row{kind: "maintenance", amount: "300", staff: 20, ticket: 901, status: "pending", month: 3, year: 2026})

	perf, err := f.svc.GetPerformance(context.Background(), 20, domain.Period{})
	require.NoError(t, err)

	assert.Equal(t, snowflake.ID(20), perf.StaffID)
	assert.Equal(t, "Mohan", perf.StaffName)
	assert.EqualValues(t, 1, perf.TasksCompleted)
	assert.Equal(t, "200.00", perf.TotalMaintenanceValue.StringFixed(2))
	assert.Equal(t, "500.00", perf.TotalSalaryPaid.StringFixed(2))
	assert.EqualValues(t, 1, perf.SalaryPaymentCount)
}

func TestPerformancePeriodScoping(t *testing.T) {
	f := setup(t)
	f.add(t, row{kind: "salary", amount: "15000", staff: 20, status: "paid", month: 2, year: 2026})
	f.add(t, row{kind: "salary", amount: "15000", staff: 20, status: "paid", month: 3, year: 2026})
	f.add(t, row{kind: "salary", amount: "14000", staff: 20, status: "paid", month: 3, year: 2025})
	f.add(t, row{kind: "maintenance", amount: "1100.50", staff: 20, ticket: 900, status: "paid", month: 3, year: 2026})
	f.add(t, row{kind: "salary", amount: "9000", staff: 21, status: "paid", month: 3, year: 2026})

	march, err := f.svc.GetPerformance(context.Background(), 20, domain.Period{Year: intPtr(2026), Month: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "15000.00", march.TotalSalaryPaid.StringFixed(2))
	assert.Equal(t, "1100.50", march.TotalMaintenanceValue.StringFixed(2))
	assert.EqualValues(t, 1, march.TasksCompleted)
	require.NotNil(t, march.PeriodMonth)
	assert.Equal(t, 3, *march.PeriodMonth)

	year, err := f.svc.GetPerformance(context.Background(), 20, domain.Period{Year: intPtr(2026)})
	require.NoError(t, err)
	assert.Equal(t, "30000.00", year.TotalSalaryPaid.StringFixed(2))
	assert.EqualValues(t, 2, year.SalaryPaymentCount)

	empty, err := f.svc.GetPerformance(context.Background(), 20, domain.Period{Year: intPtr(2024)})
	require.NoError(t, err)
	assert.Zero(t, empty.TasksCompleted)
	assert.True(t, empty.TotalSalaryPaid.IsZero())
	assert.True(t, empty.TotalMaintenanceValue.IsZero())
	assert.Zero(t, empty.SalaryPaymentCount)
}

func TestPerformanceRejectsBadInput(t *testing.T) {
	f := setup(t)

	_, err := f.svc.GetPerformance(context.Background(), 20, domain.Period{Month: intPtr(3)})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.GetPerformance(context.Background(), 20, domain.Period{Year: intPtr(2026), Month: intPtr(0)})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	_, err = f.svc.GetPerformance(context.Background(), 7, domain.Period{})
	assert.ErrorIs(t, err, directorydomain.ErrStaffNotFound)

	_, err = f.svc.SalaryHistory(context.Background(), 404)
	assert.ErrorIs(t, err, directorydomain.ErrStaffNotFound)
}

func TestAggregateStats(t *testing.T) {
	f := setup(t)
	f.add(t, row{kind: "salary", amount: "500", staff: 20, status: "paid", month: 3, year: 2026})
	f.add(t, row{kind: "maintenance", amount: "200", staff: 20, ticket: 900, status: "paid", month: 3, year: 2026})
	f.add(t, row{kind: "maintenance", amount: "300", staff: 20, ticket: 901, status: "pending", month: 3, year: 2026})
	f.add(t, row{kind: "maintenance", amount: "75", staff: 21, ticket: 902, status: "paid", month: 3, year: 2026})
	f.add(t, row{kind: "utility", amount: "40", status: "cancelled"})

	all, err := f.svc.GetAggregateStats(context.Background(), domain.AggregateFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "maintenance", all[0].ExpenseType)
	assert.Equal(t, "575.00", all[0].Total.StringFixed(2))
	assert.Equal(t, "275.00", all[0].Paid.StringFixed(2))
	assert.Equal(t, "300.00", all[0].Pending.StringFixed(2))
	assert.EqualValues(t, 3, all[0].Count)
	assert.Equal(t, "salary", all[1].ExpenseType)
	assert.True(t, all[1].Pending.IsZero())

	staff, err := f.svc.GetAggregateStats(context.Background(), domain.AggregateFilter{StaffID: 21})
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "75.00", staff[0].Paid.StringFixed(2))

	_, err = f.svc.GetAggregateStats(context.Background(), domain.AggregateFilter{Period: domain.Period{Month: intPtr(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestSalaryHistoryLatestFirst(t *testing.T) {
	f := setup(t)
	f.add(t, row{kind: "salary", amount: "14000", staff: 20, status: "paid", month: 12, year: 2025})
	f.add(t, row{kind: "salary", amount: "15000", staff: 20, status: "pending", month: 1, year: 2026})
	f.add(t, row{kind: "maintenance", amount: "200", staff: 20, ticket: 900, status: "paid", month: 1, year: 2026})

	history, err := f.svc.SalaryHistory(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2026, *history[0].PeriodYear)
	assert.Equal(t, 2025, *history[1].PeriodYear)
}

func TestPerformanceValidatesPeriodBeforeLookup(t *testing.T) {
	db := dbtest.Open(t)
	ctrl := gomock.NewController(t)
	staff := mocks.NewMockStaffDirectory(ctrl)
	staff.EXPECT().
		Get(gomock.Any(), snowflake.ID(20)).
		Return(directorydomain.Staff{ID: 20, Name: "Mohan", Role: directorydomain.RoleStaff}, nil).
		Times(1)

	svc := New(Params{
		DB:       db,
		Log:      zaptest.NewLogger(t),
		Repo:     repository.Provide(),
		Expenses: expenserepo.Provide(),
		Staff:    staff,
	})

	_, err := svc.GetPerformance(context.Background(), 20, domain.Period{Month: intPtr(3)})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	perf, err := svc.GetPerformance(context.Background(), 20, domain.Period{Year: intPtr(2026)})
	require.NoError(t, err)
	assert.Equal(t, "Mohan", perf.StaffName)
	assert.Zero(t, perf.TasksCompleted)
}
