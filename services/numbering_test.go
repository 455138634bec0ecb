package services

import (
	"fmt"
	"testing"

	"carropro-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSequenceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.QuoteSequence{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestNextQuoteNumberFormatAndIncrement(t *testing.T) {
	db := setupSequenceDB(t)
	shopID := uuid.New()

	number, seq, err := NextQuoteNumber(db, shopID, 2025)
	if err != nil {
		t.Fatalf("first number: %v", err)
	}
	if number != "DV-2025-0001" || seq != 1 {
		t.Fatalf("got %s (%d), want DV-2025-0001 (1)", number, seq)
	}

	number, seq, err = NextQuoteNumber(db, shopID, 2025)
	if err != nil {
		t.Fatalf("second number: %v", err)
	}
	if number != "DV-2025-0002" || seq != 2 {
		t.Fatalf("got %s (%d), want DV-2025-0002 (2)", number, seq)
	}
}

func TestNextQuoteNumberResetsPerYear(t *testing.T) {
	db := setupSequenceDB(t)
	shopID := uuid.New()

	if _, _, err := NextQuoteNumber(db, shopID, 2024); err != nil {
		t.Fatalf("2024: %v", err)
	}
	number, seq, err := NextQuoteNumber(db, shopID, 2025)
	if err != nil {
		t.Fatalf("2025: %v", err)
	}
	if number != "DV-2025-0001" || seq != 1 {
		t.Fatalf("new year should restart at 1, got %s (%d)", number, seq)
	}
}

func TestNextQuoteNumberScopedPerShop(t *testing.T) {
	db := setupSequenceDB(t)
	shopA, shopB := uuid.New(), uuid.New()

	if _, _, err := NextQuoteNumber(db, shopA, 2025); err != nil {
		t.Fatalf("shop A: %v", err)
	}
	number, seq, err := NextQuoteNumber(db, shopB, 2025)
	if err != nil {
		t.Fatalf("shop B: %v", err)
	}
	if number != "DV-2025-0001" || seq != 1 {
		t.Fatalf("shop B should have its own counter, got %s (%d)", number, seq)
	}
}
