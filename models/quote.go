package models

import (
	"time"

	"github.com/google/uuid"
)

// QuoteStatus is the lifecycle stage of a devis.
type QuoteStatus string

const (
	StatusDraft       QuoteStatus = "draft"
	StatusSent        QuoteStatus = "sent"
	StatusNegotiating QuoteStatus = "negotiating"
	StatusAccepted    QuoteStatus = "accepted"
	StatusRepairing   QuoteStatus = "repairing"
	StatusCompleted   QuoteStatus = "completed"
	StatusLost        QuoteStatus = "lost"
)

// LostReason codes captured when a quote is marked lost.
const (
	LostReasonPrice      = "price"
	LostReasonDelay      = "delay"
	LostReasonCompetitor = "competitor"
	LostReasonNoResponse = "no-response"
	LostReasonOther      = "other"
)

// Item categories for a repair estimate.
const (
	ItemCategoryLabor = "labor"
	ItemCategoryPart  = "part"
	ItemCategoryPaint = "paint"
	ItemCategoryOther = "other"
)

type Quote struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shop_number,priority:1" json:"shopId"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null" json:"createdByUserId"`

	// Display number, e.g. DV-2025-0042, sequential per shop per year.
	Number         string `gorm:"not null;uniqueIndex:idx_shop_number,priority:2" json:"number"`
	Year           int    `gorm:"index" json:"year"`
	SequenceNumber int    `json:"sequenceNumber"`

	ClientID  uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	VehicleID uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicleId"`

	Status QuoteStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	Notes  string      `json:"notes"`

	// Derived money fields, overwritten whenever the item set changes.
	Subtotal   float64 `gorm:"type:decimal(10,2);default:0.0" json:"subtotal"`
	Tax1       float64 `gorm:"type:decimal(10,2);default:0.0" json:"tax1"`
	Tax2       float64 `gorm:"type:decimal(10,2);default:0.0" json:"tax2"`
	GrandTotal float64 `gorm:"type:decimal(10,2);default:0.0" json:"grandTotal"`

	LostReason string     `gorm:"type:varchar(20)" json:"lostReason,omitempty"`
	LostNotes  string     `json:"lostNotes,omitempty"`
	LostAt     *time.Time `json:"lostAt,omitempty"`

	Items     []QuoteItem          `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
	History   []QuoteStatusHistory `gorm:"foreignKey:QuoteID" json:"history,omitempty"`
	FollowUps []FollowUp           `gorm:"foreignKey:QuoteID" json:"followUps,omitempty"`
	Claim     *Claim               `gorm:"foreignKey:QuoteID" json:"claim,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type QuoteItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID uuid.UUID `gorm:"type:uuid;index;not null" json:"quoteId"`

	Category    string  `gorm:"type:varchar(20);not null" json:"category"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	Total       float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// QuoteStatusHistory is the append-only audit trail of status changes.
// Rows are never updated or deleted.
type QuoteStatusHistory struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID uuid.UUID `gorm:"type:uuid;index;not null" json:"quoteId"`

	FromStatus QuoteStatus `gorm:"type:varchar(20);not null" json:"fromStatus"`
	ToStatus   QuoteStatus `gorm:"type:varchar(20);not null" json:"toStatus"`
	Notes      string      `json:"notes"`
	ActorID    uuid.UUID   `gorm:"type:uuid;not null" json:"actorId"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// QuoteSequence holds the per-shop, per-year counter behind quote numbers.
type QuoteSequence struct {
	ShopID  uuid.UUID `gorm:"type:uuid;primary_key"`
	Year    int       `gorm:"primary_key;autoIncrement:false"`
	NextSeq int       `gorm:"default:1"`
}
