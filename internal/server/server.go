package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/estate/internal/audit"
	"github.com/smallbiznis/estate/internal/bill"
	billdomain "github.com/smallbiznis/estate/internal/bill/domain"
	"github.com/smallbiznis/estate/internal/config"
	"github.com/smallbiznis/estate/internal/directory"
	"github.com/smallbiznis/estate/internal/expense"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/internal/lock"
	"github.com/smallbiznis/estate/internal/observability"
	obsmiddleware "github.com/smallbiznis/estate/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/estate/internal/observability/metrics"
	obstracing "github.com/smallbiznis/estate/internal/observability/tracing"
	"github.com/smallbiznis/estate/internal/payment"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/internal/payout"
	payoutdomain "github.com/smallbiznis/estate/internal/payout/domain"
	"github.com/smallbiznis/estate/internal/performance"
	performancedomain "github.com/smallbiznis/estate/internal/performance/domain"
	"github.com/smallbiznis/estate/internal/providers/pdf"
	"github.com/smallbiznis/estate/internal/report"
	reportdomain "github.com/smallbiznis/estate/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	directory.Module,
	audit.Module,
	lock.Module,
	pdf.Module,
	bill.Module,
	payment.Module,
	expense.Module,
	payout.Module,
	performance.Module,
	report.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	registerFieldNames()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	billSvc        billdomain.Service
	paymentSvc     paymentdomain.Service
	payoutSvc      payoutdomain.Service
	expenseSvc     expensedomain.Service
	performanceSvc performancedomain.Service
	reportSvc      reportdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	BillSvc        billdomain.Service
	PaymentSvc     paymentdomain.Service
	PayoutSvc      payoutdomain.Service
	ExpenseSvc     expensedomain.Service
	PerformanceSvc performancedomain.Service
	ReportSvc      reportdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		billSvc:        p.BillSvc,
		paymentSvc:     p.PaymentSvc,
		payoutSvc:      p.PayoutSvc,
		expenseSvc:     p.ExpenseSvc,
		performanceSvc: p.PerformanceSvc,
		reportSvc:      p.ReportSvc,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/bills", s.CreateBill)
	api.GET("/bills", s.ListBills)
	api.GET("/bills/:id", s.GetBillByID)

	api.POST("/payments", s.PayBill)
	api.GET("/payments", s.ListPayments)
	api.GET("/payments/:id", s.GetPayment)
	api.GET("/receipts/:payment_id", s.GetReceipt)
	api.GET("/receipts/:payment_id/pdf", s.DownloadReceipt)

	api.GET("/maintenance-payouts/pending", s.ListPendingPayouts)
	api.POST("/maintenance-payouts/:ticket_id/approve", s.ApprovePayout)

	api.POST("/expenses", s.CreateExpense)
	api.GET("/expenses", s.ListExpenses)
	api.GET("/expenses/:id", s.GetExpenseByID)
	api.POST("/expenses/:id/pay", s.MarkExpensePaid)
	api.POST("/expenses/:id/cancel", s.CancelExpense)

	api.GET("/staff/:id/performance", s.GetStaffPerformance)
	api.GET("/staff/:id/salary-history", s.GetSalaryHistory)

	api.GET("/finance/expense-stats", s.GetExpenseStats)
	api.GET("/finance/reports", s.GetFinancialReport)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
