// services/followup.go
package services

import (
	"sort"
	"time"

	"carropro-backend/models"
	"carropro-backend/utils"
)

// DefaultFollowUpThresholdDays is used when a queue query gives no threshold.
const DefaultFollowUpThresholdDays = 7

// Priority buckets for the follow-up queue.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting, high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// FollowUpAssessment is the stateless classification of one quote. It is
// recomputed on every read and never persisted.
type FollowUpAssessment struct {
	DaysSinceCreation int      `json:"daysSinceCreation"`
	NeedsFollowUp     bool     `json:"needsFollowUp"`
	Priority          Priority `json:"priority"`
}

// AssessFollowUp classifies a quote from its age and its most recent relance
// entry (nil when none exists). thresholdDays <= 0 falls back to the default.
func AssessFollowUp(now, createdAt time.Time, last *models.FollowUp, thresholdDays int) FollowUpAssessment {
	if thresholdDays <= 0 {
		thresholdDays = DefaultFollowUpThresholdDays
	}

	age := utils.DaysBetween(createdAt, now)

	var needs bool
	switch {
	case last == nil:
		needs = age >= thresholdDays
	case last.NextDueAt != nil:
		needs = last.NextDueAt.Before(now)
	default:
		needs = utils.DaysBetween(last.CreatedAt, now) >= thresholdDays
	}

	priority := PriorityLow
	if age > 14 {
		priority = PriorityHigh
	} else if age > 7 {
		priority = PriorityMedium
	}

	return FollowUpAssessment{
		DaysSinceCreation: age,
		NeedsFollowUp:     needs,
		Priority:          priority,
	}
}

// QueueItem is one annotated entry of the follow-up queue.
type QueueItem struct {
	Quote models.Quote `json:"quote"`
	FollowUpAssessment
}

// SortQueue orders the queue: high priority first, then oldest quotes first
// within the same priority band.
func SortQueue(items []QueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority.Rank() != items[j].Priority.Rank() {
			return items[i].Priority.Rank() < items[j].Priority.Rank()
		}
		return items[i].DaysSinceCreation > items[j].DaysSinceCreation
	})
}
