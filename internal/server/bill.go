package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	billdomain "github.com/smallbiznis/estate/internal/bill/domain"
	"github.com/smallbiznis/estate/pkg/db/pagination"
)

type createBillRequest struct {
	UnitID      string           `json:"unit_id" binding:"required"`
	BillType    string           `json:"bill_type" binding:"required,max=64"`
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	BillDate    string           `json:"bill_date"`
	DueDate     string           `json:"due_date"`
	Description string           `json:"description" binding:"max=1000"`
}

func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	actor, err := actorID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	unitID, err := parseOptionalSnowflakeID(req.UnitID)
	if err != nil || unitID == nil {
		AbortWithError(c, billdomain.ErrInvalidUnit)
		return
	}
	billDate, err := parseOptionalTime(req.BillDate)
	if err != nil {
		AbortWithError(c, invalidParam("bill_date"))
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		AbortWithError(c, billdomain.ErrInvalidDueDate)
		return
	}

	bill, err := s.billSvc.Create(c.Request.Context(), billdomain.CreateBillRequest{
		UnitID:      *unitID,
		BillType:    req.BillType,
		Amount:      *req.Amount,
		BillDate:    billDate,
		DueDate:     dueDate,
		Description: strings.TrimSpace(req.Description),
		ActorID:     actor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": bill})
}

func (s *Server) ListBills(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	unitID, err := queryID(c, "unit_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	residentID, err := queryID(c, "resident_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billSvc.List(c.Request.Context(), billdomain.ListBillRequest{
		Pagination: query.Pagination,
		UnitID:     unitID,
		ResidentID: residentID,
		Status:     query.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, billdomain.ErrNotFound)
		return
	}

	bill, err := s.billSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}
