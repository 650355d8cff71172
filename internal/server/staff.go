package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	directorydomain "github.com/smallbiznis/estate/internal/directory/domain"
	performancedomain "github.com/smallbiznis/estate/internal/performance/domain"
)

func periodFromQuery(c *gin.Context) (performancedomain.Period, error) {
	year, err := parseOptionalInt(c.Query("year"))
	if err != nil {
		return performancedomain.Period{}, invalidParam("year")
	}
	month, err := parseOptionalInt(c.Query("month"))
	if err != nil {
		return performancedomain.Period{}, invalidParam("month")
	}
	return performancedomain.Period{Year: year, Month: month}, nil
}

func (s *Server) GetStaffPerformance(c *gin.Context) {
	staffID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, directorydomain.ErrStaffNotFound)
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	perf, err := s.performanceSvc.GetPerformance(c.Request.Context(), staffID, period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": perf})
}

func (s *Server) GetSalaryHistory(c *gin.Context) {
	staffID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, directorydomain.ErrStaffNotFound)
		return
	}

	history, err := s.performanceSvc.SalaryHistory(c.Request.Context(), staffID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history})
}
