package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID          uuid.UUID `gorm:"type:uuid;index;not null" json:"shopId"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdByUserId"`

	Name    string `gorm:"not null" json:"name"`
	Phone   string `gorm:"not null" json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`

	Vehicles []Vehicle `gorm:"foreignKey:ClientID" json:"vehicles,omitempty"`
	Quotes   []Quote   `gorm:"foreignKey:ClientID" json:"-"`

	gorm.Model `json:"-"`
}
