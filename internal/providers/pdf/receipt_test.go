package pdf

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptProducesPDF(t *testing.T) {
	r, err := New().GenerateReceipt(context.Background(), ReceiptData{
		ReceiptID:      "1795312345678901248",
		DatePaid:       "2026-03-05",
		BillID:         "1795312345678901000",
		BillType:       "maintenance",
		UnitID:         "101",
		Amount:         "2500.00",
		Currency:       "INR",
		PaymentMethod:  "upi",
		TransactionRef: "TXN-01J9ZK3M4N5XYZ",
		Status:         "Verified",
	})
	require.NoError(t, err)

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestGenerateReceiptRequiresID(t *testing.T) {
	_, err := New().GenerateReceipt(context.Background(), ReceiptData{})
	assert.ErrorIs(t, err, ErrEmptyReceipt)
}
