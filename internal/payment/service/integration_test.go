//go:build integration

package service

import (
	"context"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/estate/internal/audit/audittest"
	billdomain "github.com/smallbiznis/estate/internal/bill/domain"
	billrepo "github.com/smallbiznis/estate/internal/bill/repository"
	"github.com/smallbiznis/estate/internal/dbtest"
	"github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayBillConcurrentPayersOnPostgres(t *testing.T) {
	db := dbtest.OpenPostgres(t)
	dbtest.SeedUser(t, db, 7, "Asha", "resident")
	dbtest.SeedUnit(t, db, 101, "101", 7)

	f := fixture{
		svc:   newService(t, db, &audittest.Recorder{}),
		db:    db,
		bills: billrepo.Provide(),
	}
	f.seedBill(t, 500, "2500.00", billdomain.StatusUnpaid)

	const payers = 16
	results := make(chan error, payers)
	var wg sync.WaitGroup
	for i := 0; i < payers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PayBill(context.Background(), domain.PayBillRequest{
				BillID:        500,
				PayerID:       snowflake.ID(7),
				Amount:        decimal.RequireFromString("2500.00"),
				PaymentMethod: "upi",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	paid := 0
	for err := range results {
		if err == nil {
			paid++
			continue
		}
		require.True(t, apperr.Is(err, apperr.KindAlreadyPaid), err.Error())
	}
	assert.Equal(t, 1, paid)
	assert.EqualValues(t, 1, f.paymentCount(t, 500))
	assert.Equal(t, billdomain.StatusPaid, f.billStatus(t, 500))
}
