package models

import (
	"time"

	"github.com/google/uuid"
)

// Claim is an insurance claim (reclamation), one-to-one with a quote.
type Claim struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID    uuid.UUID `gorm:"type:uuid;index;not null" json:"shopId"`
	QuoteID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"quoteId"`
	InsurerID uuid.UUID `gorm:"type:uuid;index;not null" json:"insurerId"`

	ClaimNumber     string  `json:"claimNumber"`
	NegotiatedPrice float64 `gorm:"type:decimal(10,2);default:0.0" json:"negotiatedPrice"`

	Notes []ClaimNote `gorm:"foreignKey:ClaimID" json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClaimNote is one entry of the append-only negotiation log.
type ClaimNote struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClaimID uuid.UUID `gorm:"type:uuid;index;not null" json:"claimId"`

	AuthorID  uuid.UUID `gorm:"type:uuid;not null" json:"authorId"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
