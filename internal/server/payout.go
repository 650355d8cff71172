package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	payoutdomain "github.com/smallbiznis/estate/internal/payout/domain"
)

type approvePayoutRequest struct {
	BonusPercentage *decimal.Decimal `json:"bonus_percentage"`
	PaymentMethod   string           `json:"payment_method"`
}

func (s *Server) ListPendingPayouts(c *gin.Context) {
	pending, err := s.payoutSvc.ListPending(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pending})
}

func (s *Server) ApprovePayout(c *gin.Context) {
	ticketID, err := pathID(c, "ticket_id")
	if err != nil {
		AbortWithError(c, directorydomain.ErrTicketNotFound)
		return
	}

	var req approvePayoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, bindError(err))
			return
		}
	}
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	expense, err := s.payoutSvc.Approve(c.Request.Context(), payoutdomain.ApproveRequest{
		TicketID:        ticketID,
		BonusPercentage: req.BonusPercentage,
		PaymentMethod:   req.PaymentMethod,
		ActorID:         actor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expense})
}
