// services/numbering.go
package services

import (
	"errors"
	"fmt"

	"carropro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NextQuoteNumber reserves the next sequential quote number for the shop and
// year, e.g. DV-2025-0042. Must be called inside the transaction that creates
// the quote so an aborted create does not burn a number.
func NextQuoteNumber(tx *gorm.DB, shopID uuid.UUID, year int) (string, int, error) {
	var seq models.QuoteSequence
	err := tx.Where("shop_id = ? AND year = ?", shopID, year).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.QuoteSequence{ShopID: shopID, Year: year, NextSeq: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return "", 0, err
		}
	} else if err != nil {
		return "", 0, err
	}

	n := seq.NextSeq
	if err := tx.Model(&models.QuoteSequence{}).
		Where("shop_id = ? AND year = ?", shopID, year).
		Update("next_seq", gorm.Expr("next_seq + ?", 1)).Error; err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("DV-%d-%04d", year, n), n, nil
}
