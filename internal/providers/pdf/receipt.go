package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ReceiptData holds the pre-formatted strings printed on a payment receipt.
type ReceiptData struct {
	ReceiptID      string
	DatePaid       string
	BillID         string
	BillType       string
	UnitID         string
	Amount         string
	Currency       string
	PaymentMethod  string
	TransactionRef string
	Status         string
}

var ErrEmptyReceipt = errors.New("receipt id is required")

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt ReceiptData) (io.Reader, error) {
	if receipt.ReceiptID == "" {
		return nil, ErrEmptyReceipt
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, p.societyName, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Payment receipt", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	m.AddRow(4, line.NewCol(12))

	m.AddRow(24,
		col.New(6).Add(
			text.New("Receipt number: "+receipt.ReceiptID, props.Text{Top: 2}),
			text.New("Date paid: "+receipt.DatePaid, props.Text{Top: 7}),
			text.New("Status: "+receipt.Status, props.Text{Top: 12}),
		),
		col.New(6).Add(
			text.New("Unit: "+receipt.UnitID, props.Text{Top: 2, Align: align.Right}),
			text.New("Bill: "+receipt.BillID, props.Text{Top: 7, Align: align.Right}),
			text.New("Transaction: "+receipt.TransactionRef, props.Text{Top: 12, Align: align.Right}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, receipt.Currency+" "+receipt.Amount+" paid on "+receipt.DatePaid, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Method", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		text.NewCol(6, receipt.BillType, props.Text{Size: 9}),
		text.NewCol(3, receipt.PaymentMethod, props.Text{Size: 9}),
		text.NewCol(3, receipt.Amount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Total", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(3, receipt.Amount, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
