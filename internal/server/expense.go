package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	expensedomain "github.com/smallbiznis/estate/internal/expense/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type createExpenseRequest struct {
	ExpenseType   string           `json:"expense_type" binding:"required"`
	Category      string           `json:"category" binding:"max=64"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	StaffID       string           `json:"staff_id"`
	PeriodMonth   *int             `json:"period_month"`
	PeriodYear    *int             `json:"period_year"`
	PaymentStatus string           `json:"payment_status"`
	PaymentMethod string           `json:"payment_method"`
	Notes         string           `json:"notes" binding:"max=2000"`
}

type markExpensePaidRequest struct {
	PaymentMethod string `json:"payment_method"`
	PaymentDate   string `json:"payment_date"`
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	staffID, err := parseOptionalSnowflakeID(req.StaffID)
	if err != nil {
		AbortWithError(c, expensedomain.ErrInvalidStaff)
		return
	}

	expense, err := s.expenseSvc.Create(c.Request.Context(), expensedomain.CreateExpenseRequest{
		ExpenseType:   req.ExpenseType,
		Category:      req.Category,
		Amount:        *req.Amount,
		StaffID:       staffID,
		PeriodMonth:   req.PeriodMonth,
		PeriodYear:    req.PeriodYear,
		PaymentStatus: req.PaymentStatus,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		ActorID:       actor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": expense})
}

func (s *Server) ListExpenses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ExpenseType string `form:"expense_type"`
		Status      string `form:"payment_status"`
		Year        int    `form:"year"`
		Month       int    `form:"month"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	staffID, err := queryID(c, "staff_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.expenseSvc.List(c.Request.Context(), expensedomain.ListExpenseRequest{
		Pagination:  query.Pagination,
		ExpenseType: query.ExpenseType,
		StaffID:     staffID,
		Status:      query.Status,
		PeriodYear:  query.Year,
		PeriodMonth: query.Month,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetExpenseByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}

	expense, err := s.expenseSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expense})
}

func (s *Server) MarkExpensePaid(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}
	var req markExpensePaidRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, bindError(err))
			return
		}
	}
	paidAt, err := parseOptionalTime(req.PaymentDate)
	if err != nil {
		AbortWithError(c, invalidParam("payment_date"))
		return
	}
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	expense, err := s.expenseSvc.MarkPaid(c.Request.Context(), expensedomain.MarkPaidRequest{
		ID:            id,
		PaymentMethod: req.PaymentMethod,
		PaidAt:        paidAt,
		ActorID:       actor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expense})
}

func (s *Server) CancelExpense(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, expensedomain.ErrNotFound)
		return
	}
	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	expense, err := s.expenseSvc.Cancel(c.Request.Context(), id, actor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expense})
}
