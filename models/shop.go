package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

type Shop struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name    string    `gorm:"not null" json:"name"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`

	BusinessHours    JSONB `gorm:"type:jsonb;default:'{}'" json:"businessHours"`
	FollowUpDigests  bool  `gorm:"default:true" json:"followUpDigests"`
	SMSNotifications bool  `gorm:"default:false" json:"smsNotifications"`

	Users            []User            `gorm:"foreignKey:ShopID" json:"-"`
	Clients          []Client          `gorm:"foreignKey:ShopID" json:"-"`
	Insurers         []Insurer         `gorm:"foreignKey:ShopID" json:"-"`
	Quotes           []Quote           `gorm:"foreignKey:ShopID" json:"-"`
	RelanceTemplates []RelanceTemplate `gorm:"foreignKey:ShopID" json:"-"`
}

// Custom JSONB type for business hours
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}
