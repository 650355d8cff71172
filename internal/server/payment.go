package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type payBillRequest struct {
	BillID        string           `json:"bill_id" binding:"required"`
	PayerID       string           `json:"payer_id"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
}

// PayBill settles a bill. The payer defaults to the calling actor.
func (s *Server) PayBill(c *gin.Context) {
	var req payBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	billID, err := parseOptionalSnowflakeID(req.BillID)
	if err != nil || billID == nil {
		AbortWithError(c, paymentdomain.ErrInvalidBill)
		return
	}
	payerID, err := parseOptionalSnowflakeID(req.PayerID)
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidPayer)
		return
	}
	payer := actor
	if payerID != nil {
		payer = *payerID
	}

	payment, err := s.paymentSvc.PayBill(c.Request.Context(), paymentdomain.PayBillRequest{
		BillID:        *billID,
		PayerID:       payer,
		Amount:        *req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func (s *Server) ListPayments(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	billID, err := queryID(c, "bill_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	payerID, err := queryID(c, "payer_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), paymentdomain.ListPaymentRequest{
		Pagination: query,
		BillID:     billID,
		PayerID:    payerID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPayment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, paymentdomain.ErrNotFound)
		return
	}

	payment, err := s.paymentSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func (s *Server) GetReceipt(c *gin.Context) {
	id, err := pathID(c, "payment_id")
	if err != nil {
		AbortWithError(c, paymentdomain.ErrNotFound)
		return
	}

	receipt, err := s.paymentSvc.GetReceipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": receipt})
}

func (s *Server) DownloadReceipt(c *gin.Context) {
	id, err := pathID(c, "payment_id")
	if err != nil {
		AbortWithError(c, paymentdomain.ErrNotFound)
		return
	}

	doc, err := s.paymentSvc.RenderReceipt(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, id.String()))
	c.Data(http.StatusOK, "application/pdf", body)
}
