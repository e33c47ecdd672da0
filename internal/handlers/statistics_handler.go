package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodtracker/internal/services"
)

// StatisticsHandler serves pantry statistics.
type StatisticsHandler struct {
	statisticsService services.StatisticsServicer
	financialService  services.FinancialServicer
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsService services.StatisticsServicer, financialService services.FinancialServicer) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, financialService: financialService}
}

// GetProductCounts returns product totals of a pantry
// @Summary     Product counts
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     200 {object} statistics.ProductCounts "Counts"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/stats [get]
func (h *StatisticsHandler) GetProductCounts(c *gin.Context) {
	userID, pantryID, ok := pantryRequest(c)
	if !ok {
		return
	}

	counts, err := h.statisticsService.GetProductCounts(userID, pantryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, counts)
}

// GetFinancial returns the money saved and wasted in a pantry
// @Summary     Financial summary
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     200 {object} services.FinancialSummary "Saved and wasted value"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/stats/financial [get]
func (h *StatisticsHandler) GetFinancial(c *gin.Context) {
	userID, pantryID, ok := pantryRequest(c)
	if !ok {
		return
	}

	summary, err := h.financialService.GetSummary(userID, pantryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetTrends returns the daily number of added products
// @Summary     Addition trend
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       id         path  string true  "Pantry ID"
// @Param       range_days query int    false "Window in days (default 30)"
// @Success     200 {array}  statistics.TrendPoint "Daily counts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/stats/trends [get]
func (h *StatisticsHandler) GetTrends(c *gin.Context) {
	userID, pantryID, ok := pantryRequest(c)
	if !ok {
		return
	}
	days, err := queryInt(c, "range_days")
	if err != nil {
		respondWithError(c, err)
		return
	}

	trend, err := h.statisticsService.GetAdditionTrend(userID, pantryID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// GetCategories returns consumed and wasted amounts per category
// @Summary     Category breakdown
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     200 {array}  statistics.CategoryWaste "Per-category amounts"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/stats/categories [get]
func (h *StatisticsHandler) GetCategories(c *gin.Context) {
	userID, pantryID, ok := pantryRequest(c)
	if !ok {
		return
	}

	breakdown, err := h.statisticsService.GetCategoryBreakdown(userID, pantryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": breakdown})
}

// GetMostWasted returns the products with the highest wasted value
// @Summary     Most wasted products
// @Tags        statistics
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Pantry ID"
// @Param       limit query int    false "Number of products (default 3)"
// @Success     200 {array}  statistics.WastedProduct "Products"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/stats/most-wasted [get]
func (h *StatisticsHandler) GetMostWasted(c *gin.Context) {
	userID, pantryID, ok := pantryRequest(c)
	if !ok {
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondWithError(c, err)
		return
	}

	products, err := h.statisticsService.GetMostWasted(userID, pantryID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// pantryRequest reads the user and pantry path ID, writing the error
// response itself when either is missing.
func pantryRequest(c *gin.Context) (string, string, bool) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	pantryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return "", "", false
	}
	return userID, pantryID, true
}
