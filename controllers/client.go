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

// CreateClientInput defines the expected JSON structure for creating a client
type CreateClientInput struct {
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Email   *string `json:"email"`
	Address string  `json:"address"`
	Notes   string  `json:"notes"`
}

// UpdateClientInput defines the expected JSON structure for updating a client
type UpdateClientInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// CreateClient creates a new client for the shop
func CreateClient(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	userUUID, ok := userFromContext(c)
	if !ok {
		return
	}

	var input CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	client := models.Client{
		ID:              uuid.New(),
		ShopID:          shopUUID,
		CreatedByUserID: userUUID,
		Name:            input.Name,
		Phone:           input.Phone,
		Address:         input.Address,
		Notes:           input.Notes,
	}
	if input.Email != nil {
		client.Email = *input.Email
	}

	if err := config.DB.Create(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create client")
		return
	}

	c.JSON(http.StatusCreated, client)
}

// GetClients retrieves all clients for the shop
func GetClients(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var clients []models.Client
	if err := config.DB.Where("shop_id = ?", shopUUID).Find(&clients).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	c.JSON(http.StatusOK, clients)
}

// GetClient retrieves a specific client by ID, vehicles included
func GetClient(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	clientUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.Preload("Vehicles").
		Where("shop_id = ? AND id = ?", shopUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient updates an existing client
func UpdateClient(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	clientUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var client models.Client
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		client.Phone = *input.Phone
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}

	if err := config.DB.Save(&client).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update client")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient deletes a client. A client that still owns quotes cannot be
// deleted.
func DeleteClient(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	clientUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var quoteCount int64
	if err := config.DB.Model(&models.Quote{}).
		Where("shop_id = ? AND client_id = ?", shopUUID, clientUUID).
		Count(&quoteCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if quoteCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Client cannot be deleted while it owns quotes")
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("shop_id = ? AND client_id = ?", shopUUID, clientUUID).
		Delete(&models.Vehicle{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client vehicles")
		return
	}

	result := tx.Where("shop_id = ? AND id = ?", shopUUID, clientUUID).
		Delete(&models.Client{})
	if result.Error != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// GetClientVehicles lists the vehicles owned by one client
func GetClientVehicles(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	clientUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var client models.Client
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, clientUUID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Client not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var vehicles []models.Vehicle
	if err := config.DB.Where("shop_id = ? AND client_id = ?", shopUUID, clientUUID).
		Find(&vehicles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vehicles")
		return
	}

	c.JSON(http.StatusOK, vehicles)
}
