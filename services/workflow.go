// services/workflow.go
package services

import (
	"errors"
	"fmt"
	"time"

	"carropro-backend/models"

	"github.com/google/uuid"
)

// IllegalTransitionError reports a status change outside the transition table.
type IllegalTransitionError struct {
	From models.QuoteStatus
	To   models.QuoteStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %q to %q", e.From, e.To)
}

var (
	ErrQuoteHasNoItems = errors.New("a quote with no line items cannot be sent")
	ErrLostReasonMissing = errors.New("a lost reason is required to mark a quote lost")
	ErrLostReasonInvalid = errors.New("unknown lost reason")
)

// CanTransition reports whether the status change is in the transition table.
func CanTransition(from, to models.QuoteStatus) bool {
	switch from {
	case models.StatusDraft:
		return to == models.StatusSent || to == models.StatusLost
	case models.StatusSent:
		return to == models.StatusNegotiating || to == models.StatusAccepted || to == models.StatusLost
	case models.StatusNegotiating:
		return to == models.StatusAccepted || to == models.StatusLost
	case models.StatusAccepted:
		return to == models.StatusRepairing
	case models.StatusRepairing:
		return to == models.StatusCompleted
	case models.StatusLost, models.StatusCompleted:
		return false
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s models.QuoteStatus) bool {
	return s == models.StatusLost || s == models.StatusCompleted
}

// ValidQuoteStatus reports whether s is one of the known lifecycle stages.
func ValidQuoteStatus(s models.QuoteStatus) bool {
	switch s {
	case models.StatusDraft, models.StatusSent, models.StatusNegotiating,
		models.StatusAccepted, models.StatusRepairing, models.StatusCompleted,
		models.StatusLost:
		return true
	}
	return false
}

// ValidLostReason reports whether the code is one of the enumerated reasons.
func ValidLostReason(reason string) bool {
	switch reason {
	case models.LostReasonPrice, models.LostReasonDelay, models.LostReasonCompetitor,
		models.LostReasonNoResponse, models.LostReasonOther:
		return true
	}
	return false
}

// TransitionInput carries everything needed to move a quote to its next stage.
type TransitionInput struct {
	To         models.QuoteStatus
	Notes      string
	LostReason string
	LostNotes  string
	ActorID    uuid.UUID
	Now        time.Time
}

// ApplyTransition validates the change against the transition table and its
// guards, mutates the quote in place and returns the audit entry to append.
// The quote is left untouched when an error is returned. itemCount is the
// current size of the quote's item ledger.
func ApplyTransition(quote *models.Quote, itemCount int64, in TransitionInput) (*models.QuoteStatusHistory, error) {
	if !ValidQuoteStatus(in.To) {
		return nil, fmt.Errorf("unknown status %q", in.To)
	}
	if !CanTransition(quote.Status, in.To) {
		return nil, &IllegalTransitionError{From: quote.Status, To: in.To}
	}
	if in.To == models.StatusSent && itemCount == 0 {
		return nil, ErrQuoteHasNoItems
	}
	if in.To == models.StatusLost {
		if in.LostReason == "" {
			return nil, ErrLostReasonMissing
		}
		if !ValidLostReason(in.LostReason) {
			return nil, ErrLostReasonInvalid
		}
	}

	entry := &models.QuoteStatusHistory{
		ID:         uuid.New(),
		QuoteID:    quote.ID,
		FromStatus: quote.Status,
		ToStatus:   in.To,
		Notes:      in.Notes,
		ActorID:    in.ActorID,
		CreatedAt:  in.Now,
	}

	quote.Status = in.To
	if in.To == models.StatusLost {
		lostAt := in.Now
		quote.LostReason = in.LostReason
		quote.LostNotes = in.LostNotes
		quote.LostAt = &lostAt
	}
	return entry, nil
}
