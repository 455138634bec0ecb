package controllers

import (
	"errors"
	"net/http"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateClaimInput struct {
	InsurerID       uuid.UUID `json:"insurerId" binding:"required"`
	ClaimNumber     string    `json:"claimNumber"`
	NegotiatedPrice float64   `json:"negotiatedPrice" binding:"min=0"`
}

type UpdateClaimInput struct {
	InsurerID       *uuid.UUID `json:"insurerId"`
	ClaimNumber     *string    `json:"claimNumber"`
	NegotiatedPrice *float64   `json:"negotiatedPrice" binding:"omitempty,min=0"`
}

type AddClaimNoteInput struct {
	Body string `json:"body" binding:"required"`
}

// quoteForClaim loads the quote the claim routes are nested under.
func quoteForClaim(c *gin.Context, shopUUID uuid.UUID) (*models.Quote, bool) {
	quoteUUID, ok := pathUUID(c, "id")
	if !ok {
		return nil, false
	}

	var quote models.Quote
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, quoteUUID).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Quote not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	return &quote, true
}

// CreateClaim opens the insurance claim for a quote. A quote carries at most
// one claim, and only active insurers accept new claims.
func CreateClaim(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quote, ok := quoteForClaim(c, shopUUID)
	if !ok {
		return
	}

	var input CreateClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.Claim
	if err := config.DB.Where("quote_id = ?", quote.ID).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Quote already has a claim")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var insurer models.Insurer
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, input.InsurerID).
		First(&insurer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Insurer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if !insurer.IsActive {
		utils.RespondWithError(c, http.StatusConflict, "Insurer is deactivated and cannot take new claims")
		return
	}

	// Provisional reference until the insurer communicates the real number
	claimNumber := input.ClaimNumber
	if claimNumber == "" {
		claimNumber = "REC-" + utils.GenerateRandomString(8)
	}

	claim := models.Claim{
		ID:              uuid.New(),
		ShopID:          shopUUID,
		QuoteID:         quote.ID,
		InsurerID:       input.InsurerID,
		ClaimNumber:     claimNumber,
		NegotiatedPrice: input.NegotiatedPrice,
	}

	if err := config.DB.Create(&claim).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create claim")
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// GetClaim retrieves the claim of a quote with its negotiation log
func GetClaim(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quote, ok := quoteForClaim(c, shopUUID)
	if !ok {
		return
	}

	var claim models.Claim
	if err := config.DB.Preload("Notes", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("quote_id = ?", quote.ID).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Claim not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// UpdateClaim patches the claim (insurer, claim number, negotiated price)
func UpdateClaim(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	quote, ok := quoteForClaim(c, shopUUID)
	if !ok {
		return
	}

	var input UpdateClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var claim models.Claim
	if err := config.DB.Where("quote_id = ?", quote.ID).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Claim not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.InsurerID != nil {
		var insurer models.Insurer
		if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, *input.InsurerID).
			First(&insurer).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Insurer not found")
			return
		}
		if !insurer.IsActive {
			utils.RespondWithError(c, http.StatusConflict, "Insurer is deactivated and cannot take new claims")
			return
		}
		claim.InsurerID = *input.InsurerID
	}
	if input.ClaimNumber != nil {
		claim.ClaimNumber = *input.ClaimNumber
	}
	if input.NegotiatedPrice != nil {
		claim.NegotiatedPrice = *input.NegotiatedPrice
	}

	if err := config.DB.Save(&claim).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update claim")
		return
	}

	c.JSON(http.StatusOK, claim)
}

// AddClaimNote appends an entry to the claim's negotiation log. Entries are
// never edited or removed.
func AddClaimNote(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userFromContext(c)
	if !ok {
		return
	}
	quote, ok := quoteForClaim(c, shopUUID)
	if !ok {
		return
	}

	var input AddClaimNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var claim models.Claim
	if err := config.DB.Where("quote_id = ?", quote.ID).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Claim not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	note := models.ClaimNote{
		ID:       uuid.New(),
		ClaimID:  claim.ID,
		AuthorID: userUUID,
		Body:     input.Body,
	}

	if err := config.DB.Create(&note).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add note")
		return
	}

	c.JSON(http.StatusCreated, note)
}
