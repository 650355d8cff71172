package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	performancedomain "github.com/smallbiznis/estate/internal/performance/domain"
)

func (s *Server) GetExpenseStats(c *gin.Context) {
	staffID, err := queryID(c, "staff_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	totals, err := s.performanceSvc.GetAggregateStats(c.Request.Context(), performancedomain.AggregateFilter{
		StaffID: staffID,
		Period:  period,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": totals})
}

func (s *Server) GetFinancialReport(c *gin.Context) {
	stats, err := s.reportSvc.GetFinancialStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
