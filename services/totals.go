// services/totals.go
package services

import (
	"math"

	"carropro-backend/models"
)

// Fixed sales tax rates applied sequentially on the subtotal (TPS/TVQ).
const (
	Tax1Rate = 0.05
	Tax2Rate = 0.09975
)

// Totals is the derived money tuple stored on a quote and returned by
// every item-mutating endpoint.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax1       float64 `json:"tax1"`
	Tax2       float64 `json:"tax2"`
	GrandTotal float64 `json:"grandTotal"`
}

// RoundCents rounds a money amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal computes a single item total, rounded to cents.
func LineTotal(quantity, unitPrice float64) float64 {
	return RoundCents(quantity * unitPrice)
}

// ComputeTotals derives the four money fields from the item ledger.
// An empty ledger yields all zeros.
func ComputeTotals(items []models.QuoteItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total
	}
	subtotal = RoundCents(subtotal)
	tax1 := RoundCents(subtotal * Tax1Rate)
	tax2 := RoundCents(subtotal * Tax2Rate)
	return Totals{
		Subtotal:   subtotal,
		Tax1:       tax1,
		Tax2:       tax2,
		GrandTotal: RoundCents(subtotal + tax1 + tax2),
	}
}
