package controllers

import (
	"errors"
	"net/http"
	"time"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/services"
	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDashboardOverview returns the shop's pipeline at a glance
func GetDashboardOverview(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	// Quotes per lifecycle stage
	pipeline := gin.H{}
	type statusCount struct {
		Status models.QuoteStatus
		Count  int64
	}
	var counts []statusCount
	if err := config.DB.Model(&models.Quote{}).
		Select("status, count(*) as count").
		Where("shop_id = ?", shopUUID).
		Group("status").Scan(&counts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load pipeline")
		return
	}
	for _, sc := range counts {
		pipeline[string(sc.Status)] = sc.Count
	}

	// Revenue this month from completed repairs
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue float64
	if err := config.DB.Model(&models.Quote{}).
		Select("COALESCE(SUM(grand_total), 0)").
		Where("shop_id = ? AND status = ? AND updated_at >= ?", shopUUID, models.StatusCompleted, firstOfMonth).
		Scan(&monthlyRevenue).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load revenue")
		return
	}

	var totalClients int64
	config.DB.Model(&models.Client{}).Where("shop_id = ?", shopUUID).Count(&totalClients)

	// Size of the follow-up queue at the default threshold
	var openQuotes []models.Quote
	if err := config.DB.Where("shop_id = ? AND status IN ?", shopUUID,
		[]models.QuoteStatus{models.StatusDraft, models.StatusSent, models.StatusNegotiating}).
		Find(&openQuotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load open quotes")
		return
	}
	needFollowUp := 0
	for _, quote := range openQuotes {
		var last models.FollowUp
		var lastPtr *models.FollowUp
		err := config.DB.Where("quote_id = ?", quote.ID).
			Order("created_at DESC").First(&last).Error
		if err == nil {
			lastPtr = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		assessment := services.AssessFollowUp(now, quote.CreatedAt, lastPtr, services.DefaultFollowUpThresholdDays)
		if assessment.NeedsFollowUp {
			needFollowUp++
		}
	}

	// Last five quotes with their client
	type recentQuote struct {
		Number     string             `json:"number"`
		ClientName string             `json:"clientName"`
		Status     models.QuoteStatus `json:"status"`
		GrandTotal float64            `json:"grandTotal"`
		CreatedAt  time.Time          `json:"createdAt"`
	}
	var recent []recentQuote
	config.DB.Raw(`
		SELECT q.number, c.name AS client_name, q.status, q.grand_total, q.created_at
		FROM quotes q
		JOIN clients c ON c.id = q.client_id
		WHERE q.shop_id = ?
		ORDER BY q.created_at DESC
		LIMIT 5
	`, shopUUID).Scan(&recent)

	c.JSON(http.StatusOK, gin.H{
		"pipeline":          pipeline,
		"monthlyRevenue":    monthlyRevenue,
		"totalClients":      totalClients,
		"openQuotes":        len(openQuotes),
		"needFollowUp":      needFollowUp,
		"recentQuotes":      recent,
	})
}
