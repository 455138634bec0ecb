package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"carropro-backend/config"
	"carropro-backend/models"
	"carropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email       string       `json:"email" binding:"required,email"`
	Phone       string       `json:"phone" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Password    string       `json:"password" binding:"required,min=8"`
	ShopName    string       `json:"shopName" binding:"required"`
	ShopAddress string       `json:"shopAddress"`
	BusinessHours models.JSONB `json:"businessHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // email or phone
	Password   string `json:"password" binding:"required"`
}

// Register creates a new shop (tenant) with its owner account.
func Register(c *gin.Context) {
	var input RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	// Check if email or phone already exists
	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)

	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	hours := input.BusinessHours
	if hours == nil {
		hours = models.JSONB{
			"monday":    map[string]interface{}{"open": "08:00", "close": "17:00", "closed": false},
			"tuesday":   map[string]interface{}{"open": "08:00", "close": "17:00", "closed": false},
			"wednesday": map[string]interface{}{"open": "08:00", "close": "17:00", "closed": false},
			"thursday":  map[string]interface{}{"open": "08:00", "close": "17:00", "closed": false},
			"friday":    map[string]interface{}{"open": "08:00", "close": "17:00", "closed": false},
			"saturday":  map[string]interface{}{"open": "09:00", "close": "13:00", "closed": false},
			"sunday":    map[string]interface{}{"open": "", "close": "", "closed": true},
		}
	}

	shop := models.Shop{
		ID:              uuid.New(),
		Name:            input.ShopName,
		Address:         input.ShopAddress,
		Phone:           input.Phone,
		BusinessHours:   hours,
		FollowUpDigests: true,
	}

	owner := models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Password: input.Password, // hashed in BeforeCreate hook
		Role:     "owner",
		ShopID:   shop.ID,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&shop).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create shop")
		return
	}
	if err := tx.Create(&owner).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	if err := createDefaultRelanceTemplate(tx, shop.ID); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create templates")
		return
	}
	tx.Commit()

	token, err := utils.GenerateToken(owner.ID.String(), shop.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":       owner.ID,
			"email":    owner.Email,
			"phone":    owner.Phone,
			"shopId":   shop.ID,
			"shopName": shop.Name,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	result := config.DB.Where("email = ? OR phone = ?", identifier, identifier).First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.ShopID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"name":   user.Name,
			"role":   user.Role,
			"shopId": user.ShopID,
		},
	})
}

func Me(c *gin.Context) {
	userID, ok := userFromContext(c)
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Preload("Shop").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"name":     user.Name,
			"role":     user.Role,
			"shopId":   user.ShopID,
			"shopName": user.Shop.Name,
		},
	})
}

func createDefaultRelanceTemplate(tx *gorm.DB, shopID uuid.UUID) error {
	template := models.RelanceTemplate{
		ID:      uuid.New(),
		ShopID:  shopID,
		Type:    "digest",
		Message: "Hi [EstimatorName], [Count] quote(s) need a follow-up today:",
	}
	return tx.Create(&template).Error
}
