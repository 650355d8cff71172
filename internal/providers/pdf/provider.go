package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// Provider renders ledger documents.
type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

type PDFProvider struct {
	societyName string
}

func New() Provider {
	return &PDFProvider{societyName: "Residents' Welfare Association"}
}

var Module = fx.Module("pdf.provider",
	fx.Provide(New),
)
