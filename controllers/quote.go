// controllers/quote.go
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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateQuoteInput defines the expected JSON structure for creating a quote
type CreateQuoteInput struct {
	ClientID  uuid.UUID `json:"clientId" binding:"required"`
	VehicleID uuid.UUID `json:"vehicleId" binding:"required"`
	Notes     string    `json:"notes"`
}

// UpdateQuoteInput is the patch object for a quote. Client and vehicle can
// only change while the quote is still a draft.
type UpdateQuoteInput struct {
	ClientID  *uuid.UUID `json:"clientId"`
	VehicleID *uuid.UUID `json:"vehicleId"`
	Notes     *string    `json:"notes"`
}

// QuoteItemInput defines the JSON structure for adding a line item
type QuoteItemInput struct {
	Category    string  `json:"category" binding:"required,oneof=labor part paint other"`
	Description string  `json:"description" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"min=0"`
}

// UpdateQuoteItemInput is the patch object for a line item
type UpdateQuoteItemInput struct {
	Category    *string  `json:"category" binding:"omitempty,oneof=labor part paint other"`
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity" binding:"omitempty,gt=0"`
	UnitPrice   *float64 `json:"unitPrice" binding:"omitempty,min=0"`
}

// ChangeStatusInput drives the quote lifecycle. The lost branch additionally
// requires a reason code.
type ChangeStatusInput struct {
	Status     models.QuoteStatus `json:"status" binding:"required"`
	Notes      string             `json:"notes"`
	LostReason string             `json:"lostReason"`
	LostNotes  string             `json:"lostNotes"`
}

// CreateQuote opens a new draft quote for a client's vehicle
func CreateQuote(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input CreateQuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, input.ClientID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// The vehicle must belong to the same client
	var vehicle models.Vehicle
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, input.VehicleID).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if vehicle.ClientID != client.ID {
		utils.RespondWithError(c, http.StatusBadRequest, "Vehicle does not belong to this client")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	year := time.Now().Year()
	number, seq, err := services.NextQuoteNumber(tx, shopUUID, year)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to allocate quote number")
		return
	}

	quote := models.Quote{
		ID:              uuid.New(),
		ShopID:          shopUUID,
		CreatedByUserID: userUUID,
		Number:          number,
		Year:            year,
		SequenceNumber:  seq,
		ClientID:        input.ClientID,
		VehicleID:       input.VehicleID,
		Status:          models.StatusDraft,
		Notes:           input.Notes,
	}

	if err := tx.Create(&quote).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, quote)
}

// GetQuotes lists the shop's quotes, optionally filtered by status and
// estimator.
func GetQuotes(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").Where("shop_id = ?", shopUUID)

	if status := c.Query("status"); status != "" {
		if !services.ValidQuoteStatus(models.QuoteStatus(status)) {
			utils.RespondWithError(c, http.StatusBadRequest, "Unknown status filter")
			return
		}
		query = query.Where("status = ?", status)
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
	if err := query.Order("created_at DESC").Find(&quotes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve quotes")
		return
	}

	c.JSON(http.StatusOK, quotes)
}

// GetQuote retrieves a quote with its items, history, follow-ups and claim
func GetQuote(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var quote models.Quote
	if err := config.DB.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("FollowUps", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Claim").
		Preload("Claim.Notes").
		Where("shop_id = ? AND id = ?", shopUUID, quoteUUID).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, quote)
}

// UpdateQuote patches a quote's notes, and its client/vehicle while draft
func UpdateQuote(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateQuoteInput
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

	if (input.ClientID != nil || input.VehicleID != nil) && quote.Status != models.StatusDraft {
		utils.RespondWithError(c, http.StatusConflict, "Client and vehicle can only change while the quote is a draft")
		return
	}

	if input.ClientID != nil {
		quote.ClientID = *input.ClientID
	}
	if input.VehicleID != nil {
		quote.VehicleID = *input.VehicleID
	}
	if input.ClientID != nil || input.VehicleID != nil {
		var vehicle models.Vehicle
		if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, quote.VehicleID).
			First(&vehicle).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
			return
		}
		if vehicle.ClientID != quote.ClientID {
			utils.RespondWithError(c, http.StatusBadRequest, "Vehicle does not belong to this client")
			return
		}
	}
	if input.Notes != nil {
		quote.Notes = *input.Notes
	}

	if err := config.DB.Save(&quote).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// DeleteQuote removes a draft quote. Quotes that left draft, or that carry a
// claim, cannot be deleted.
func DeleteQuote(c *gin.Context) {
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

	if quote.Status != models.StatusDraft {
		utils.RespondWithError(c, http.StatusConflict, "Only draft quotes can be deleted")
		return
	}

	var claimCount int64
	if err := config.DB.Model(&models.Claim{}).Where("quote_id = ?", quote.ID).
		Count(&claimCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if claimCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Quote cannot be deleted while a claim references it")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote items")
		return
	}
	if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.FollowUp{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote follow-ups")
		return
	}
	if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteStatusHistory{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote history")
		return
	}
	if err := tx.Delete(&quote).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
}

// draftQuoteForItemChange loads the quote and verifies the item ledger is
// still mutable.
func draftQuoteForItemChange(c *gin.Context, tx *gorm.DB, shopUUID, quoteUUID uuid.UUID) (*models.Quote, bool) {
	var quote models.Quote
	if err := tx.Where("shop_id = ? AND id = ?", shopUUID, quoteUUID).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	if quote.Status != models.StatusDraft {
		utils.RespondWithError(c, http.StatusConflict, "Line items can only change while the quote is a draft")
		return nil, false
	}
	return &quote, true
}

// recomputeTotals overwrites the quote's derived money fields from its
// current item ledger, inside the caller's transaction.
func recomputeTotals(tx *gorm.DB, quote *models.Quote) (services.Totals, error) {
	var items []models.QuoteItem
	if err := tx.Where("quote_id = ?", quote.ID).Find(&items).Error; err != nil {
		return services.Totals{}, err
	}

	totals := services.ComputeTotals(items)
	err := tx.Model(&models.Quote{}).Where("id = ?", quote.ID).
		Updates(map[string]interface{}{
			"subtotal":    totals.Subtotal,
			"tax1":        totals.Tax1,
			"tax2":        totals.Tax2,
			"grand_total": totals.GrandTotal,
		}).Error
	return totals, err
}

// AddQuoteItem appends a line item to a draft quote and returns the item with
// the recomputed totals
func AddQuoteItem(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input QuoteItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quote, ok := draftQuoteForItemChange(c, tx, shopUUID, quoteUUID)
	if !ok {
		tx.Rollback()
		return
	}

	item := models.QuoteItem{
		ID:          uuid.New(),
		QuoteID:     quote.ID,
		Category:    input.Category,
		Description: input.Description,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		Total:       services.LineTotal(input.Quantity, input.UnitPrice),
	}

	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create item")
		return
	}

	totals, err := recomputeTotals(tx, quote)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recompute totals")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{"item": item, "totals": totals})
}

// UpdateQuoteItem patches a line item of a draft quote
func UpdateQuoteItem(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemUUID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	var input UpdateQuoteItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quote, ok := draftQuoteForItemChange(c, tx, shopUUID, quoteUUID)
	if !ok {
		tx.Rollback()
		return
	}

	var item models.QuoteItem
	if err := tx.Where("quote_id = ? AND id = ?", quote.ID, itemUUID).
		First(&item).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	item.Total = services.LineTotal(item.Quantity, item.UnitPrice)

	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update item")
		return
	}

	totals, err := recomputeTotals(tx, quote)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recompute totals")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"item": item, "totals": totals})
}

// DeleteQuoteItem removes a line item from a draft quote
func DeleteQuoteItem(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	itemUUID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	quote, ok := draftQuoteForItemChange(c, tx, shopUUID, quoteUUID)
	if !ok {
		tx.Rollback()
		return
	}

	result := tx.Where("quote_id = ? AND id = ?", quote.ID, itemUUID).
		Delete(&models.QuoteItem{})
	if result.Error != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusNotFound, "Item not found")
		return
	}

	totals, err := recomputeTotals(tx, quote)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recompute totals")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully", "totals": totals})
}

// ChangeQuoteStatus advances a quote through its lifecycle
func ChangeQuoteStatus(c *gin.Context) {
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

	var input ChangeStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var quote models.Quote
	if err := tx.Where("shop_id = ? AND id = ?", shopUUID, quoteUUID).
		First(&quote).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var itemCount int64
	if err := tx.Model(&models.QuoteItem{}).Where("quote_id = ?", quote.ID).
		Count(&itemCount).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	entry, err := services.ApplyTransition(&quote, itemCount, services.TransitionInput{
		To:         input.Status,
		Notes:      input.Notes,
		LostReason: input.LostReason,
		LostNotes:  input.LostNotes,
		ActorID:    userUUID,
		Now:        time.Now(),
	})
	if err != nil {
		tx.Rollback()
		var illegal *services.IllegalTransitionError
		if errors.As(err, &illegal) {
			utils.RespondWithError(c, http.StatusConflict, illegal.Error())
			return
		}
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := tx.Save(&quote).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update status")
		return
	}
	if err := tx.Create(entry).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record status change")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, quote)
}

// GetQuoteHistory returns the immutable status audit trail
func GetQuoteHistory(c *gin.Context) {
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

	var history []models.QuoteStatusHistory
	if err := config.DB.Where("quote_id = ?", quote.ID).
		Order("created_at ASC").Find(&history).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve history")
		return
	}

	c.JSON(http.StatusOK, history)
}
