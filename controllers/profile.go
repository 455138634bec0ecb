package controllers

import (
	"net/http"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateShopProfileInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// GetProfile returns the shop settings
func GetProfile(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var shop models.Shop
	if err := config.DB.First(&shop, "id = ?", shopUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Shop not found")
		return
	}

	var templates []models.RelanceTemplate
	config.DB.Where("shop_id = ?", shopUUID).Find(&templates)

	c.JSON(http.StatusOK, gin.H{
		"name":             shop.Name,
		"address":          shop.Address,
		"phone":            shop.Phone,
		"businessHours":    shop.BusinessHours,
		"followUpDigests":  shop.FollowUpDigests,
		"smsNotifications": shop.SMSNotifications,
		"relanceTemplates": templates,
	})
}

// UpdateShopProfile patches the shop identity fields
func UpdateShopProfile(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var input UpdateShopProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var shop models.Shop
	if err := config.DB.First(&shop, "id = ?", shopUUID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Shop not found")
		return
	}

	if input.Name != nil {
		shop.Name = *input.Name
	}
	if input.Address != nil {
		shop.Address = *input.Address
	}
	if input.Phone != nil {
		shop.Phone = *input.Phone
	}

	if err := config.DB.Save(&shop).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// UpdateBusinessHours replaces the shop's opening hours
func UpdateBusinessHours(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var input struct {
		BusinessHours models.JSONB `json:"businessHours" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := config.DB.Model(&models.Shop{}).Where("id = ?", shopUUID).
		Update("business_hours", input.BusinessHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update business hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Business hours updated"})
}

type UpdateRelanceTemplateInput struct {
	Type     string  `json:"type" binding:"required,oneof=digest"`
	Message  *string `json:"message"`
	IsActive *bool   `json:"isActive"`
}

// UpdateRelanceTemplate edits the digest message template
func UpdateRelanceTemplate(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var input UpdateRelanceTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var template models.RelanceTemplate
	if err := config.DB.Where("shop_id = ? AND type = ?", shopUUID, input.Type).
		First(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Template not found")
		return
	}

	if input.Message != nil {
		template.Message = *input.Message
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&template).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update template")
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateNotificationSettings toggles the digest and SMS switches
func UpdateNotificationSettings(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var input struct {
		FollowUpDigests  *bool `json:"followUpDigests"`
		SMSNotifications *bool `json:"smsNotifications"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	updates := map[string]interface{}{}
	if input.FollowUpDigests != nil {
		updates["follow_up_digests"] = *input.FollowUpDigests
	}
	if input.SMSNotifications != nil {
		updates["sms_notifications"] = *input.SMSNotifications
	}
	if len(updates) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No settings provided")
		return
	}

	if err := config.DB.Model(&models.Shop{}).Where("id = ?", shopUUID).
		Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated"})
}
