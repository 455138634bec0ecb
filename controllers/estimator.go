package controllers

import (
	"errors"
	"net/http"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddEstimatorInput struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateEstimatorInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}

// GetEstimators lists the shop's users
func GetEstimators(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var estimators []models.User
	if err := config.DB.Where("shop_id = ?", shopUUID).Find(&estimators).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve estimators")
		return
	}

	c.JSON(http.StatusOK, estimators)
}

// AddEstimator creates an estimator account in the shop
func AddEstimator(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}

	var input AddEstimatorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	estimator := models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Password: input.Password, // hashed in BeforeCreate hook
		Role:     "estimator",
		ShopID:   shopUUID,
	}

	if err := config.DB.Create(&estimator).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create estimator")
		return
	}

	c.JSON(http.StatusCreated, estimator)
}

// UpdateEstimator patches an estimator account
func UpdateEstimator(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	estimatorUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input UpdateEstimatorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var estimator models.User
	if err := config.DB.Where("shop_id = ? AND id = ?", shopUUID, estimatorUUID).
		First(&estimator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Estimator not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		estimator.Name = *input.Name
	}
	if input.Phone != nil {
		estimator.Phone = *input.Phone
	}
	if input.IsActive != nil {
		estimator.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&estimator).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update estimator")
		return
	}

	c.JSON(http.StatusOK, estimator)
}

// DeactivateEstimator disables an account. Accounts are kept because quotes
// and audit entries reference them.
func DeactivateEstimator(c *gin.Context) {
	shopUUID, ok := shopFromContext(c)
	if !ok {
		return
	}
	estimatorUUID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("shop_id = ? AND id = ?", shopUUID, estimatorUUID).
		Update("is_active", false)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate estimator")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Estimator not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Estimator deactivated"})
}
