// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportController handles all reporting functions
type ReportController struct{}

// SalesSummary is the sales analytics payload
type SalesSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue  float64             `json:"currentYearRevenue"`
	YearGrowth          float64             `json:"yearGrowth"`
	ConversionRate      float64             `json:"conversionRate"`
	LostReasons         []LostReasonSummary `json:"lostReasons"`
	TopClients          []ClientSummary     `json:"topClients"`
	QuickStats          QuickStatistics     `json:"quickStats"`
}

type LostReasonSummary struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

type ClientSummary struct {
	Name   string  `json:"name"`
	Quotes int     `json:"quotes"`
	Value  float64 `json:"value"`
}

type QuickStatistics struct {
	TotalClients   int     `json:"totalClients"`
	TotalQuotes    int     `json:"totalQuotes"`
	AvgQuoteValue  float64 `json:"avgQuoteValue"`
	QuotesLost     int     `json:"quotesLost"`
	QuotesAccepted int     `json:"quotesAccepted"`
}

// GetSalesAnalytics returns the complete sales analytics summary
func (rc *ReportController) GetSalesAnalytics(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	loc := now.Location()

	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, loc)
	quarterStartMonth := time.Month(((int(currentMonth)-1)/3)*3 + 1)
	firstOfQuarter := time.Date(currentYear, quarterStartMonth, 1, 0, 0, 0, 0, loc)
	firstOfYear := time.Date(currentYear, 1, 1, 0, 0, 0, 0, loc)

	currentMonthRevenue, err := rc.getRevenue(shopUUID, firstOfMonth, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}
	lastMonthRevenue, err := rc.getRevenue(shopUUID, firstOfMonth.AddDate(0, -1, 0), firstOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}
	currentQuarterRevenue, err := rc.getRevenue(shopUUID, firstOfQuarter, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}
	lastQuarterRevenue, err := rc.getRevenue(shopUUID, firstOfQuarter.AddDate(0, -3, 0), firstOfQuarter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}
	currentYearRevenue, err := rc.getRevenue(shopUUID, firstOfYear, now)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}
	lastYearRevenue, err := rc.getRevenue(shopUUID, firstOfYear.AddDate(-1, 0, 0), firstOfYear)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	// Conversion: accepted or beyond, over everything that left draft
	var sentCount, wonCount, lostCount int64
	config.DB.Model(&models.Quote{}).
		Where("shop_id = ? AND status <> ?", shopUUID, models.StatusDraft).
		Count(&sentCount)
	config.DB.Model(&models.Quote{}).
		Where("shop_id = ? AND status IN ?", shopUUID, []models.QuoteStatus{
			models.StatusAccepted, models.StatusRepairing, models.StatusCompleted,
		}).Count(&wonCount)
	config.DB.Model(&models.Quote{}).
		Where("shop_id = ? AND status = ?", shopUUID, models.StatusLost).
		Count(&lostCount)

	conversionRate := 0.0
	if sentCount > 0 {
		conversionRate = float64(wonCount) / float64(sentCount) * 100
	}

	var lostReasons []LostReasonSummary
	config.DB.Raw(`
		SELECT lost_reason AS reason, COUNT(*) AS count
		FROM quotes
		WHERE shop_id = ? AND status = ?
		GROUP BY lost_reason
		ORDER BY count DESC
	`, shopUUID, models.StatusLost).Scan(&lostReasons)

	var topClients []ClientSummary
	config.DB.Raw(`
		SELECT c.name, COUNT(q.id) AS quotes, COALESCE(SUM(q.grand_total), 0) AS value
		FROM quotes q
		JOIN clients c ON c.id = q.client_id
		WHERE q.shop_id = ? AND q.status IN ?
		GROUP BY c.name
		ORDER BY value DESC
		LIMIT 5
	`, shopUUID, []models.QuoteStatus{
		models.StatusAccepted, models.StatusRepairing, models.StatusCompleted,
	}).Scan(&topClients)

	var totalClients, totalQuotes int64
	config.DB.Model(&models.Client{}).Where("shop_id = ?", shopUUID).Count(&totalClients)
	config.DB.Model(&models.Quote{}).Where("shop_id = ?", shopUUID).Count(&totalQuotes)

	var avgQuoteValue float64
	config.DB.Model(&models.Quote{}).
		Select("COALESCE(AVG(grand_total), 0)").
		Where("shop_id = ? AND subtotal > 0", shopUUID).
		Scan(&avgQuoteValue)

	summary := SalesSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           growth(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         growth(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:  currentYearRevenue,
		YearGrowth:          growth(currentYearRevenue, lastYearRevenue),
		ConversionRate:      conversionRate,
		LostReasons:         lostReasons,
		TopClients:          topClients,
		QuickStats: QuickStatistics{
			TotalClients:   int(totalClients),
			TotalQuotes:    int(totalQuotes),
			AvgQuoteValue:  avgQuoteValue,
			QuotesLost:     int(lostCount),
			QuotesAccepted: int(wonCount),
		},
	}

	c.JSON(http.StatusOK, summary)
}

// getRevenue sums completed repairs in [from, to)
func (rc *ReportController) getRevenue(shopID uuid.UUID, from, to time.Time) (float64, error) {
	var revenue float64
	err := config.DB.Model(&models.Quote{}).
		Select("COALESCE(SUM(grand_total), 0)").
		Where("shop_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?",
			shopID, models.StatusCompleted, from, to).
		Scan(&revenue).Error
	return revenue, err
}

func growth(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
