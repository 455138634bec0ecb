package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"carropro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedInsurer(t *testing.T, db *gorm.DB, shopID uuid.UUID, active bool) models.Insurer {
	t.Helper()
	insurer := models.Insurer{ID: uuid.New(), ShopID: shopID,
		Name: "Assurance Desjardins", ContactName: "Luc", IsActive: active}
	if err := db.Create(&insurer).Error; err != nil {
		t.Fatalf("seed insurer: %v", err)
	}
	return insurer
}

func TestCreateClaimOnePerQuote(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	insurer := seedInsurer(t, db, client.ShopID, true)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	body := fmt.Sprintf(`{"insurerId":%q,"claimNumber":"SIN-4471"}`, insurer.ID)
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/claim", quote.ID), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create claim: expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/claim", quote.ID), body)
	if w.Code != http.StatusConflict {
		t.Fatalf("second claim on same quote: expected 409 got %d", w.Code)
	}
}

func TestCreateClaimRejectsInactiveInsurer(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	insurer := seedInsurer(t, db, client.ShopID, false)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	body := fmt.Sprintf(`{"insurerId":%q}`, insurer.ID)
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/claim", quote.ID), body)
	if w.Code != http.StatusConflict {
		t.Fatalf("claim with deactivated insurer: expected 409 got %d", w.Code)
	}
}

func TestDeactivateInsurerKeepsRecord(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, _ := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	insurer := seedInsurer(t, db, client.ShopID, true)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/insurers/%s", insurer.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate insurer: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var stored models.Insurer
	if err := db.First(&stored, "id = ?", insurer.ID).Error; err != nil {
		t.Fatalf("insurer was hard-deleted: %v", err)
	}
	if stored.IsActive {
		t.Fatal("insurer still active after deactivation")
	}
}

func TestClaimNotesAppendOnlyLog(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	insurer := seedInsurer(t, db, client.ShopID, true)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	body := fmt.Sprintf(`{"insurerId":%q,"negotiatedPrice":1250.50}`, insurer.ID)
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/claim", quote.ID), body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create claim: %d", w.Code)
	}

	for _, note := range []string{"called the adjuster", "counter-offer received"} {
		w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/claim/notes", quote.ID),
			fmt.Sprintf(`{"body":%q}`, note))
		if w.Code != http.StatusCreated {
			t.Fatalf("add note: expected 201 got %d body=%s", w.Code, w.Body.String())
		}
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/quotes/%s/claim", quote.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get claim: %d", w.Code)
	}
	var claim models.Claim
	decode(t, w, &claim)
	if claim.NegotiatedPrice != 1250.50 {
		t.Fatalf("negotiatedPrice = %v, want 1250.50", claim.NegotiatedPrice)
	}
	if !strings.HasPrefix(claim.ClaimNumber, "REC-") {
		t.Fatalf("claim without a number should get a provisional one, got %q", claim.ClaimNumber)
	}
	if len(claim.Notes) != 2 {
		t.Fatalf("claim has %d notes, want 2", len(claim.Notes))
	}
	if claim.Notes[0].Body != "called the adjuster" {
		t.Fatalf("notes not in insertion order: first = %q", claim.Notes[0].Body)
	}
	if claim.Notes[0].AuthorID != user.ID {
		t.Fatalf("note author = %s, want %s", claim.Notes[0].AuthorID, user.ID)
	}
}

func TestUpdateClaimRejectsInactiveInsurer(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	active := seedInsurer(t, db, client.ShopID, true)
	inactive := seedInsurer(t, db, client.ShopID, false)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/claim", quote.ID),
		fmt.Sprintf(`{"insurerId":%q}`, active.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("create claim: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/quotes/%s/claim", quote.ID),
		fmt.Sprintf(`{"insurerId":%q}`, inactive.ID))
	if w.Code != http.StatusConflict {
		t.Fatalf("switch to deactivated insurer: expected 409 got %d", w.Code)
	}
}
