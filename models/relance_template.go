package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelanceTemplate is the per-shop SMS message used by the daily
// follow-up digest.
type RelanceTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID   uuid.UUID `gorm:"type:uuid;index;not null" json:"shopId"`
	Type     string    `gorm:"type:varchar(20);not null" json:"type"` // digest
	Message  string    `gorm:"type:text;not null" json:"message"`
	IsActive bool      `gorm:"default:true" json:"isActive"`
	gorm.Model `json:"-"`
}

// SMSLog records every digest message handed to the SMS gateway.
type SMSLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID       uuid.UUID `gorm:"type:uuid;index;not null" json:"shopId"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"errorMessage"`
	gorm.Model `json:"-"`
}

func (s *SMSLog) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
