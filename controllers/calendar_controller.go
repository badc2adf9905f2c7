package controllers

import (
	"net/http"
	"strconv"

	"github.com/Pranavpatre/Delivery-Food-Summarizer/services"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	Svc *services.CalendarService
}

func NewCalendarController(svc *services.CalendarService) *CalendarController {
	return &CalendarController{Svc: svc}
}

// GetCalendarMonth returns the per-day order buckets for one month.
func (h *CalendarController) GetCalendarMonth(c *gin.Context) {
	userID := c.GetUint("userID")

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	out, err := h.Svc.MonthView(c.Request.Context(), userID, year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetOrders returns a paginated, newest-first order list.
func (h *CalendarController) GetOrders(c *gin.Context) {
	userID := c.GetUint("userID")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	out, err := h.Svc.Orders(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetSummary returns the rolling multi-month stats and health insights.
func (h *CalendarController) GetSummary(c *gin.Context) {
	userID := c.GetUint("userID")

	out, err := h.Svc.Summary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}
