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

type CreateVehicleInput struct {
	ClientID    uuid.UUID `json:"clientId" binding:"required"`
	Make        string    `json:"make" binding:"required"`
	Model       string    `json:"model" binding:"required"`
	Year        int       `json:"year"`
	Color       string    `json:"color"`
	PlateNumber string    `json:"plateNumber"`
	VIN         string    `json:"vin"`
}

type UpdateVehicleInput struct {
	Make        *string `json:"make"`
	Model       *string `json:"model"`
	Year        *int    `json:"year"`
	Color       *string `json:"color"`
	PlateNumber *string `json:"plateNumber"`
	VIN         *string `json:"vin"`
}

// CreateVehicle registers a vehicle under one of the shop's clients
func CreateVehicle(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var input CreateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// The owning client must exist in the same shop
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

	vehicle := models.Vehicle{
		ID:          uuid.New(),
		ShopID:      shopUUID,
		ClientID:    input.ClientID,
		Make:        input.Make,
		ModelName:   input.Model,
		Year:        input.Year,
		Color:       input.Color,
		PlateNumber: input.PlateNumber,
		VIN:         input.VIN,
	}

	if err := config.DB.Create(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicle retrieves a specific vehicle by ID
func GetVehicle(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	vehicleUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, vehicleUUID).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle updates an existing vehicle
func UpdateVehicle(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	vehicleUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, vehicleUUID).
		First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.ModelName = *input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Color != nil {
		vehicle.Color = *input.Color
	}
	if input.PlateNumber != nil {
		vehicle.PlateNumber = *input.PlateNumber
	}
	if input.VIN != nil {
		vehicle.VIN = *input.VIN
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update vehicle")
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle deletes a vehicle not referenced by any quote
func DeleteVehicle(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	vehicleUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var quoteCount int64
	if err := config.DB.Model(&models.Quote{}).
		Where("shop_id = ? AND vehicle_id = ?", shopUUID, vehicleUUID).
		Count(&quoteCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if quoteCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Vehicle cannot be deleted while quotes reference it")
		return
	}

	result := config.DB.Where("shop_id = ? AND id = ?", shopUUID, vehicleUUID).
		Delete(&models.Vehicle{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Vehicle not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted successfully"})
}
