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

type CreateInsurerInput struct {
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
}

type UpdateInsurerInput struct {
	Name         *string `json:"name"`
	ContactName  *string `json:"contactName"`
	ContactPhone *string `json:"contactPhone"`
	ContactEmail *string `json:"contactEmail"`
	IsActive     *bool   `json:"isActive"`
}

// CreateInsurer adds an insurance company to the shop directory
func CreateInsurer(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var input CreateInsurerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	insurer := models.Insurer{
		ID:           uuid.New(),
		ShopID:       shopUUID,
		Name:         input.Name,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		ContactEmail: input.ContactEmail,
		IsActive:     true,
	}

	if err := config.DB.Create(&insurer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create insurer")
		return
	}

	c.JSON(http.StatusCreated, insurer)
}

// GetInsurers retrieves the shop's insurer directory. Pass ?active=true to
// hide deactivated entries.
func GetInsurers(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	query := config.DB.Where("shop_id = ?", shopUUID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var insurers []models.Insurer
	if err := query.Find(&insurers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve insurers")
		return
	}

	c.JSON(http.StatusOK, insurers)
}

// GetInsurer retrieves a specific insurer by ID
func GetInsurer(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	insurerUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var insurer models.Insurer
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, insurerUUID).
		First(&insurer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Insurer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, insurer)
}

// UpdateInsurer updates an existing insurer
func UpdateInsurer(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	insurerUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateInsurerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var insurer models.Insurer
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, insurerUUID).
		First(&insurer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Insurer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		insurer.Name = *input.Name
	}
	if input.ContactName != nil {
		insurer.ContactName = *input.ContactName
	}
	if input.ContactPhone != nil {
		insurer.ContactPhone = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		insurer.ContactEmail = *input.ContactEmail
	}
	if input.IsActive != nil {
		insurer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&insurer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update insurer")
		return
	}

	c.JSON(http.StatusOK, insurer)
}

// DeactivateInsurer soft-deletes an insurer. The row is kept so existing
// claims keep a valid reference; it only stops appearing for new claims.
func DeactivateInsurer(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	insurerUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Model(&models.Insurer{}).
		Where("shop_id = ? AND id = ?", shopUUID, insurerUUID).
		Update("is_active", false)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate insurer")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Insurer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Insurer deactivated"})
}
