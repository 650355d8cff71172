package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	auditdomain "github.com/smallbiznis/estate/internal/audit/domain"
	billdomain "github.com/smallbiznis/estate/internal/bill/domain"
	"github.com/smallbiznis/estate/internal/clock"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/lock"
	"github.com/smallbiznis/estate/internal/observability/metrics"
	"github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/internal/providers/pdf"
	"github.com/smallbiznis/estate/pkg/apperr"
	"github.com/smallbiznis/estate/pkg/db"
	"github.com/smallbiznis/estate/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	Bills         billdomain.Repository
	Clock         clock.Clock
	Policy        *config.PolicyHolder
	Audit         auditdomain.Logger
	PDF           pdf.Provider
	Lock          *lock.PaymentLock      `optional:"true"`
	Metrics       *metrics.Metrics       `optional:"true"`
	LedgerMetrics *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	bills         billdomain.Repository
	clock         clock.Clock
	policy        *config.PolicyHolder
	audit         auditdomain.Logger
	pdf           pdf.Provider
	lock          *lock.PaymentLock
	metrics       *metrics.Metrics
	ledgerMetrics *metrics.LedgerMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("payment.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		bills:         p.Bills,
		clock:         p.Clock,
		policy:        p.Policy,
		audit:         p.Audit,
		pdf:           p.PDF,
		lock:          p.Lock,
		metrics:       p.Metrics,
		ledgerMetrics: p.LedgerMetrics,
	}
}

// PayBill settles a bill in full. The payment insert and the bill status flip
// commit together; the unique index on payments.bill_id and the conditional
// status update reject any second settlement.
func (s *Service) PayBill(ctx context.Context, req domain.PayBillRequest) (domain.Payment, error) {
	started := time.Now()
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))

	payment, err := s.payBill(ctx, req)
	s.ledgerMetrics.ObserveWrite(metrics.WritePayBill, started, err)
	if err != nil {
		s.metrics.RecordPayment(ctx, req.PaymentMethod, apperr.CodeOf(err))
		if apperr.Is(err, apperr.KindAlreadyPaid) {
			s.metrics.RecordConflict(ctx, "bill", apperr.CodeOf(err))
		}
		if apperr.Is(err, apperr.KindStorage) {
			s.log.Error("payment failed", zap.String("bill_id", req.BillID.String()), zap.Error(err))
		}
		return domain.Payment{}, err
	}

	s.metrics.RecordPayment(ctx, payment.PaymentMethod, "paid")
	s.log.Info("bill paid",
		zap.String("bill_id", payment.BillID.String()),
		zap.String("payment_id", payment.ID.String()),
	)
	s.audit.Record(ctx, auditdomain.Entry{
		ActorID:      payment.PayerID.String(),
		Action:       auditdomain.ActionPaymentRecorded,
		ResourceType: "payment",
		ResourceID:   payment.ID.String(),
		Metadata: datatypes.JSONMap{
			"bill_id":               payment.BillID.String(),
			"amount":                payment.AmountPaid.StringFixed(2),
			"payment_method":        payment.PaymentMethod,
			"transaction_reference": payment.TransactionReference,
		},
	})
	return payment, nil
}

func (s *Service) payBill(ctx context.Context, req domain.PayBillRequest) (domain.Payment, error) {
	if req.BillID == 0 {
		return domain.Payment{}, domain.ErrInvalidBill
	}
	if req.PayerID == 0 {
		return domain.Payment{}, domain.ErrInvalidPayer
	}
	if !domain.ValidMethod(req.PaymentMethod) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}
	if !req.Amount.IsPositive() {
		return domain.Payment{}, domain.ErrInvalidAmount
	}

	release, ok, err := s.lock.AcquireBill(ctx, req.BillID)
	switch {
	case err != nil:
		// the transaction below still serialises payers
		s.log.Warn("payment lock unavailable", zap.String("bill_id", req.BillID.String()), zap.Error(err))
	case !ok:
		return domain.Payment{}, domain.ErrPaymentInProgress
	default:
		defer release()
	}

	now := s.clock.Now().UTC()
	var payment domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bill, err := s.bills.FindByIDForUpdate(ctx, tx, req.BillID)
		if err != nil {
			return err
		}
		if bill == nil {
			return billdomain.ErrNotFound
		}
		if bill.Status == billdomain.StatusPaid {
			return domain.ErrBillAlreadyPaid
		}
		if !req.Amount.Equal(bill.Amount) {
			return domain.ErrAmountMismatch
		}

		payment = domain.Payment{
			ID:                   s.genID.Generate(),
			BillID:               bill.ID,
			PayerID:              req.PayerID,
			AmountPaid:           bill.Amount,
			PaymentMethod:        req.PaymentMethod,
			TransactionReference: newTransactionReference(),
			Status:               domain.StatusSuccess,
			PaidAt:               now,
			CreatedAt:            now,
		}
		if err := s.repo.Insert(ctx, tx, &payment); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrBillAlreadyPaid
			}
			return err
		}

		updated, err := s.bills.MarkPaid(ctx, tx, bill.ID, now)
		if err != nil {
			return err
		}
		if !updated {
			return domain.ErrBillAlreadyPaid
		}
		return nil
	})
	if err != nil {
		if db.IsLockConflictErr(err) {
			return domain.Payment{}, domain.ErrPaymentInProgress
		}
		return domain.Payment{}, apperr.Storage("pay bill", err)
	}
	return payment, nil
}

func (s *Service) Get(ctx context.Context, paymentID snowflake.ID) (domain.Payment, error) {
	if paymentID == 0 {
		return domain.Payment{}, domain.ErrNotFound
	}
	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *payment, nil
}

func (s *Service) GetReceipt(ctx context.Context, paymentID snowflake.ID) (domain.Receipt, error) {
	if paymentID == 0 {
		return domain.Receipt{}, domain.ErrNotFound
	}
	receipt, err := s.repo.FindReceipt(ctx, s.db, paymentID)
	if err != nil {
		return domain.Receipt{}, err
	}
	if receipt == nil {
		return domain.Receipt{}, domain.ErrNotFound
	}
	return *receipt, nil
}

func (s *Service) RenderReceipt(ctx context.Context, paymentID snowflake.ID) (io.Reader, error) {
	receipt, err := s.GetReceipt(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return s.pdf.GenerateReceipt(ctx, pdf.ReceiptData{
		ReceiptID:      receipt.ReceiptID.String(),
		DatePaid:       receipt.Date.Format("2006-01-02"),
		BillID:         receipt.BillID.String(),
		BillType:       receipt.BillType,
		UnitID:         receipt.UnitID.String(),
		Amount:         receipt.Amount.StringFixed(2),
		Currency:       s.policy.Get().Currency,
		PaymentMethod:  receipt.Method,
		TransactionRef: receipt.TransactionRef,
		Status:         receipt.Status,
	})
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	page := req.Pagination.Normalize()
	afterID, err := page.AfterID()
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		BillID:  req.BillID,
		PayerID: req.PayerID,
		AfterID: afterID,
		Limit:   page.PageSize + 1,
	})
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	items, pageInfo := pagination.Trim(items, page.PageSize, func(p *domain.Payment) string {
		return pagination.IDCursor(p.ID)
	})
	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}
	return domain.ListPaymentResponse{PageInfo: pageInfo, Payments: payments}, nil
}

func newTransactionReference() string {
	return "TXN-" + ulid.Make().String()
}
