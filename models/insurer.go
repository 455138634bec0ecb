package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Insurer is a tenant-scoped directory entry (assurance). Insurers are
// deactivated rather than hard-deleted so claims keep a valid reference.
type Insurer struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID uuid.UUID `gorm:"type:uuid;index;not null" json:"shopId"`

	Name         string `gorm:"not null" json:"name"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
	IsActive     bool   `gorm:"default:true" json:"isActive"`

	Claims []Claim `gorm:"foreignKey:InsurerID" json:"-"`

	gorm.Model `json:"-"`
}
