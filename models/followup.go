package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow-up contact methods.
const (
	FollowUpMethodCall  = "call"
	FollowUpMethodEmail = "email"
	FollowUpMethodSMS   = "sms"
	FollowUpMethodVisit = "visit"
)

// FollowUp is one relance log entry: a contact attempt on a quote.
// The log is append-only.
type FollowUp struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ShopID  uuid.UUID `gorm:"type:uuid;index;not null" json:"shopId"`
	QuoteID uuid.UUID `gorm:"type:uuid;index;not null" json:"quoteId"`

	Method     string     `gorm:"type:varchar(20);not null" json:"method"`
	Outcome    string     `json:"outcome"`
	NextDueAt  *time.Time `json:"nextDueAt,omitempty"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null" json:"authorId"`
	CreatedAt  time.Time  `json:"createdAt"`
}
