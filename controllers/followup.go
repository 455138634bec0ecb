// controllers/followup.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/services"
	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateFollowUpInput struct {
	Method    string     `json:"method" binding:"required,oneof=call email sms visit"`
	Outcome   string     `json:"outcome"`
	NextDueAt *time.Time `json:"nextDueAt"`
}

// CreateFollowUp logs a relance (contact attempt) on a quote
func CreateFollowUp(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userFromContext(c)
	if !ok {
		return
	}
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input CreateFollowUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var quote models.Quote
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, quoteUUID).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	followUp := models.FollowUp{
		ID:        uuid.New(),
		ShopID:    shopUUID,
		QuoteID:   quote.ID,
		Method:    input.Method,
		Outcome:   input.Outcome,
		NextDueAt: input.NextDueAt,
		AuthorID:  userUUID,
	}

	if err := config.DB.Create(&followUp).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create follow-up")
		return
	}

	c.JSON(http.StatusCreated, followUp)
}

// GetFollowUps lists the relance log of one quote, newest first
func GetFollowUps(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var quote models.Quote
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, quoteUUID).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var followUps []models.FollowUp
	if err := config.DB.Where("quote_id = ?", quote.ID).
		Order("created_at DESC").Find(&followUps).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve follow-ups")
		return
	}

	c.JSON(http.StatusOK, followUps)
}

// GetFollowUpQueue returns the open quotes annotated by the prioritizer,
// high priority first, oldest first within a band. The annotation is
// recomputed on every call and never stored.
func GetFollowUpQueue(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	threshold := services.DefaultFollowUpThresholdDays
	if raw := c.Query("daysThreshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "daysThreshold must be a positive integer")
			return
		}
		threshold = parsed
	}

	query := config.DB.Where("shop_id = ?", shopUUID)
	if status := c.Query("status"); status != "" {
		if !services.ValidQuoteStatus(models.QuoteStatus(status)) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown status filter")
			return
		}
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status IN ?", []models.QuoteStatus{
			models.StatusDraft, models.StatusSent, models.StatusNegotiating,
		})
	}
	if estimator := c.Query("estimatorId"); estimator != "" {
		estimatorUUID, err := uuid.Parse(estimator)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimatorId format")
			return
		}
		query = query.Where("created_by_user_id = ?", estimatorUUID)
	}

	var quotes []models.Quote
	if err := query.Find(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quotes")
		return
	}

	now := time.Now()
	items := make([]services.QueueItem, 0, len(quotes))
	for _, quote := range quotes {
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

		items = append(items, services.QueueItem{
			Quote:              quote,
			FollowUpAssessment: services.AssessFollowUp(now, quote.CreatedAt, lastPtr, threshold),
		})
	}

	services.SortQueue(items)

	c.JSON(http.StatusOK, items)
}
