package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID   uuid.UUID `gorm:"type:uuid;index;not null" json:"shopId"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	Make         string `gorm:"not null" json:"make"`
	ModelName    string `gorm:"not null" json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color"`
	PlateNumber  string `json:"plateNumber"`
	VIN          string `gorm:"column:vin" json:"vin"`

	Quotes []Quote `gorm:"foreignKey:VehicleID" json:"-"`

	gorm.Model `json:"-"`
}
