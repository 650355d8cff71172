package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/internal/audit/audittest"
	"github.com/smallbiznis/estate/internal/bill/domain"
	"github.com/smallbiznis/estate/internal/bill/repository"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/dbtest"
	"github.com/smallbiznis/estate/internal/directory/mocks"
	directoryrepo "github.com/smallbiznis/estate/internal/directory/repository"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
	audit *audittest.Recorder
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	dbtest.SeedUser(t, db, 7, "Asha", "resident")
	dbtest.SeedUnit(t, db, 101, "101", 7)
	dbtest.SeedUnit(t, db, 102, "102", 7)
	dbtest.SeedUnit(t, db, 201, "201")

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(testNow)
	rec := &audittest.Recorder{}
	svc := New(Params{
		DB:     db,
		Log:    zaptest.NewLogger(t),
		GenID:  node,
		Repo:   repository.Provide(),
		Units:  directoryrepo.NewUnitDirectory(db),
		Policy: config.NewStaticPolicyHolder(config.DefaultPolicy()),
		Clock:  fc,
		Audit:  rec,
	})
	return fixture{svc: svc, db: db, clock: fc, audit: rec}
}

func TestCreateAppliesDefaults(t *testing.T) {
	f := setup(t)

	bill, err := f.svc.Create(context.Background(), domain.CreateBillRequest{
		UnitID:      101,
		BillType:    " Maintenance Fee ",
		Amount:      decimal.RequireFromString("2500.50"),
		Description: "  March maintenance ",
		ActorID:     1,
	})
	require.NoError(t, err)

	assert.NotZero(t, bill.ID)
	assert.Equal(t, "maintenance-fee", bill.BillType)
	assert.Equal(t, domain.StatusUnpaid, bill.Status)
	assert.Equal(t, "March maintenance", bill.Description)
	assert.True(t, testNow.Equal(bill.BillDate))
	assert.True(t, testNow.AddDate(0, 0, 15).Equal(bill.DueDate))
	require.NotNil(t, bill.CreatedBy)
	assert.Equal(t, snowflake.ID(1), *bill.CreatedBy)
	assert.Equal(t, []string{"bill.created"}, f.audit.Actions())

	stored, err := f.svc.Get(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2500.50").Equal(stored.Amount))
	assert.Equal(t, domain.StatusUnpaid, stored.Status)
}

func TestCreateDueDateDefaultsFromBillDate(t *testing.T) {
	f := setup(t)
	billDate := testNow.AddDate(0, 0, -3)

	bill, err := f.svc.Create(context.Background(), domain.CreateBillRequest{
		UnitID:   101,
		BillType: "water",
		Amount:   decimal.NewFromInt(300),
		BillDate: &billDate,
	})
	require.NoError(t, err)
	assert.True(t, billDate.AddDate(0, 0, 15).Equal(bill.DueDate))
}

func TestCreateValidation(t *testing.T) {
	before := testNow.AddDate(0, 0, -1)
	cases := []struct {
		name string
		req  domain.CreateBillRequest
		want error
	}{
		{"zero amount", domain.CreateBillRequest{UnitID: 101, BillType: "water", Amount: decimal.Zero}, domain.ErrInvalidAmount},
		{"negative amount", domain.CreateBillRequest{UnitID: 101, BillType: "water", Amount: decimal.NewFromInt(-5)}, domain.ErrInvalidAmount},
		{"sub-cent amount", domain.CreateBillRequest{UnitID: 101, BillType: "water", Amount: decimal.RequireFromString("10.005")}, domain.ErrInvalidAmount},
		{"missing unit", domain.CreateBillRequest{BillType: "water", Amount: decimal.NewFromInt(10)}, domain.ErrInvalidUnit},
		{"unknown unit", domain.CreateBillRequest{UnitID: 999, BillType: "water", Amount: decimal.NewFromInt(10)}, domain.ErrInvalidUnit},
		{"blank type", domain.CreateBillRequest{UnitID: 101, BillType: "  ", Amount: decimal.NewFromInt(10)}, domain.ErrInvalidBillType},
		{"due before bill date", domain.CreateBillRequest{UnitID: 101, BillType: "water", Amount: decimal.NewFromInt(10), DueDate: &before}, domain.ErrInvalidDueDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := setup(t)
			_, err := f.svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, apperr.Is(err, apperr.KindValidation))

			var count int64
			require.NoError(t, f.db.Raw(`SELECT COUNT(1) FROM bills`).Scan(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestListDerivesOverdueAtReadTime(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	due := testNow.AddDate(0, 0, -5)
	billDate := due.AddDate(0, 0, -15)

	bill, err := f.svc.Create(ctx, domain.CreateBillRequest{
		UnitID: 101, BillType: "maintenance", Amount: decimal.NewFromInt(2500), BillDate: &billDate, DueDate: &due,
	})
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, domain.ListBillRequest{UnitID: 101})
	require.NoError(t, err)
	require.Len(t, resp.Bills, 1)
	view := resp.Bills[0]
	assert.Equal(t, domain.StatusOverdue, view.Status)
	assert.Equal(t, 5, view.DaysOverdue)
	assert.True(t, decimal.NewFromInt(250).Equal(view.FineAmount))
	assert.True(t, decimal.NewFromInt(2750).Equal(view.TotalDue))

	f.clock.Advance(48 * time.Hour)
	later, err := f.svc.Get(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, later.DaysOverdue)

	var stored string
	require.NoError(t, f.db.Raw(`SELECT status FROM bills WHERE id = ?`, bill.ID).Scan(&stored).Error)
	assert.Equal(t, domain.StatusUnpaid, stored)
}

func TestListScopesAndFilters(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	past := testNow.AddDate(0, 0, -2)
	pastBillDate := past.AddDate(0, 0, -10)

	_, err := f.svc.Create(ctx, domain.CreateBillRequest{UnitID: 101, BillType: "water", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.CreateBillRequest{UnitID: 102, BillType: "water", Amount: decimal.NewFromInt(200), BillDate: &pastBillDate, DueDate: &past})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, domain.CreateBillRequest{UnitID: 201, BillType: "water", Amount: decimal.NewFromInt(300)})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, domain.ListBillRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Bills, 3)

	resident, err := f.svc.List(ctx, domain.ListBillRequest{ResidentID: 7})
	require.NoError(t, err)
	assert.Len(t, resident.Bills, 2)

	nobody, err := f.svc.List(ctx, domain.ListBillRequest{ResidentID: 8})
	require.NoError(t, err)
	assert.Empty(t, nobody.Bills)

	overdue, err := f.svc.List(ctx, domain.ListBillRequest{Status: "overdue"})
	require.NoError(t, err)
	require.Len(t, overdue.Bills, 1)
	assert.Equal(t, snowflake.ID(102), overdue.Bills[0].UnitID)

	unpaid, err := f.svc.List(ctx, domain.ListBillRequest{Status: "unpaid"})
	require.NoError(t, err)
	assert.Len(t, unpaid.Bills, 2)

	_, err = f.svc.List(ctx, domain.ListBillRequest{Status: "late"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var ids []snowflake.ID
	for i := 0; i < 3; i++ {
		bill, err := f.svc.Create(ctx, domain.CreateBillRequest{UnitID: 101, BillType: "water", Amount: decimal.NewFromInt(int64(100 + i))})
		require.NoError(t, err)
		ids = append(ids, bill.ID)
	}

	first, err := f.svc.List(ctx, domain.ListBillRequest{Pagination: pagination.Pagination{PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, first.Bills, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, ids[2], first.Bills[0].ID)
	assert.Equal(t, ids[1], first.Bills[1].ID)

	second, err := f.svc.List(ctx, domain.ListBillRequest{Pagination: pagination.Pagination{PageSize: 2, PageToken: first.NextPageToken}})
	require.NoError(t, err)
	require.Len(t, second.Bills, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, ids[0], second.Bills[0].ID)

	_, err = f.svc.List(ctx, domain.ListBillRequest{Pagination: pagination.Pagination{PageToken: "%%%"}})
	assert.ErrorIs(t, err, pagination.ErrInvalidPageToken)
}

func TestGetUnknownBill(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Get(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateSurfacesDirectoryFailure(t *testing.T) {
	db := dbtest.Open(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	units := mocks.NewMockUnitDirectory(ctrl)
	units.EXPECT().
		Exists(gomock.Any(), snowflake.ID(101)).
		Return(false, apperr.Storage("unit exists", errors.New("connection reset")))

	svc := New(Params{
		DB:     db,
		Log:    zaptest.NewLogger(t),
		GenID:  node,
		Repo:   repository.Provide(),
		Units:  units,
		Policy: config.NewStaticPolicyHolder(config.DefaultPolicy()),
		Clock:  clock.NewFakeClock(testNow),
		Audit:  &audittest.Recorder{},
	})

	_, err = svc.Create(context.Background(), domain.CreateBillRequest{
		UnitID: 101, BillType: "water", Amount: decimal.NewFromInt(10),
	})
	assert.True(t, apperr.Is(err, apperr.KindStorage))

	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(1) FROM bills`).Scan(&count).Error)
	assert.Zero(t, count)
}
