package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"carropro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sentQuote creates a quote with one item and moves it to sent.
func sentQuote(t *testing.T, r *gin.Engine, client models.Client, vehicle models.Vehicle) models.Quote {
	t.Helper()
	quote := createQuoteViaAPI(t, r, client, vehicle)
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/items", quote.ID),
		`{"category":"labor","description":"redressage","quantity":2,"unitPrice":120}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: %d body=%s", w.Code, w.Body.String())
	}
	if code := changeStatus(t, r, quote.ID, `{"status":"sent"}`); code != http.StatusOK {
		t.Fatalf("send: expected 200 got %d", code)
	}
	return quote
}

func TestSendRequiresAtLeastOneItem(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	if code := changeStatus(t, r, quote.ID, `{"status":"sent"}`); code != http.StatusBadRequest {
		t.Fatalf("sending an empty quote: expected 400 got %d", code)
	}

	var stored models.Quote
	if err := db.First(&stored, "id = ?", quote.ID).Error; err != nil {
		t.Fatalf("reload quote: %v", err)
	}
	if stored.Status != models.StatusDraft {
		t.Fatalf("status changed despite rejection: %s", stored.Status)
	}
}

func TestIllegalTransitionRejected(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := sentQuote(t, r, client, vehicle)

	// sent cannot jump straight to repairing
	if code := changeStatus(t, r, quote.ID, `{"status":"repairing"}`); code != http.StatusConflict {
		t.Fatalf("sent->repairing: expected 409 got %d", code)
	}

	// no audit entry for the rejected attempt
	var historyCount int64
	if err := db.Model(&models.QuoteStatusHistory{}).Where("quote_id = ?", quote.ID).
		Count(&historyCount).Error; err != nil {
		t.Fatalf("count history: %v", err)
	}
	if historyCount != 1 {
		t.Fatalf("history has %d entries, want 1 (draft->sent only)", historyCount)
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := sentQuote(t, r, client, vehicle)

	for _, status := range []string{"accepted", "repairing", "completed"} {
		if code := changeStatus(t, r, quote.ID, fmt.Sprintf(`{"status":%q}`, status)); code != http.StatusOK {
			t.Fatalf("to %s: expected 200 got %d", status, code)
		}
	}

	if code := changeStatus(t, r, quote.ID, `{"status":"draft"}`); code != http.StatusConflict {
		t.Fatalf("reopening a completed quote: expected 409 got %d", code)
	}
}

func TestLostRequiresReason(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := sentQuote(t, r, client, vehicle)

	if code := changeStatus(t, r, quote.ID, `{"status":"lost"}`); code != http.StatusBadRequest {
		t.Fatalf("lost without reason: expected 400 got %d", code)
	}
	if code := changeStatus(t, r, quote.ID, `{"status":"lost","lostReason":"went-fishing"}`); code != http.StatusBadRequest {
		t.Fatalf("lost with unknown reason: expected 400 got %d", code)
	}

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/status", quote.ID),
		`{"status":"lost","lostReason":"competitor","lostNotes":"went with the dealer"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("lost with reason: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var updated models.Quote
	decode(t, w, &updated)
	if updated.Status != models.StatusLost {
		t.Fatalf("status = %s, want lost", updated.Status)
	}
	if updated.LostReason != models.LostReasonCompetitor || updated.LostAt == nil {
		t.Fatalf("lost fields not stamped: reason=%q lostAt=%v", updated.LostReason, updated.LostAt)
	}
}

func TestStatusHistoryIsOrdered(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := sentQuote(t, r, client, vehicle)

	if code := changeStatus(t, r, quote.ID, `{"status":"negotiating","notes":"client called back"}`); code != http.StatusOK {
		t.Fatalf("negotiating: %d", code)
	}
	if code := changeStatus(t, r, quote.ID, `{"status":"accepted"}`); code != http.StatusOK {
		t.Fatalf("accepted: %d", code)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/quotes/%s/history", quote.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get history: %d", w.Code)
	}
	var history []models.QuoteStatusHistory
	decode(t, w, &history)

	wantPairs := [][2]models.QuoteStatus{
		{models.StatusDraft, models.StatusSent},
		{models.StatusSent, models.StatusNegotiating},
		{models.StatusNegotiating, models.StatusAccepted},
	}
	if len(history) != len(wantPairs) {
		t.Fatalf("history length = %d, want %d", len(history), len(wantPairs))
	}
	for i, pair := range wantPairs {
		if history[i].FromStatus != pair[0] || history[i].ToStatus != pair[1] {
			t.Fatalf("entry %d = %s->%s, want %s->%s",
				i, history[i].FromStatus, history[i].ToStatus, pair[0], pair[1])
		}
		if history[i].ActorID != user.ID {
			t.Fatalf("entry %d actor = %s, want %s", i, history[i].ActorID, user.ID)
		}
	}
	if history[1].Notes != "client called back" {
		t.Fatalf("transition notes lost: %q", history[1].Notes)
	}
}

func TestItemsFrozenAfterSend(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := sentQuote(t, r, client, vehicle)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/items", quote.ID),
		`{"category":"part","description":"late addition","quantity":1,"unitPrice":999}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("adding item after send: expected 409 got %d", w.Code)
	}

	var stored models.Quote
	if err := db.First(&stored, "id = ?", quote.ID).Error; err != nil {
		t.Fatalf("reload quote: %v", err)
	}
	if stored.Subtotal != 240 {
		t.Fatalf("totals drifted on rejected mutation: subtotal = %v, want 240", stored.Subtotal)
	}

	var itemCount int64
	if err := db.Model(&models.QuoteItem{}).Where("quote_id = ?", quote.ID).
		Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 1 {
		t.Fatalf("item count = %d, want 1", itemCount)
	}
}

func TestDeleteQuoteDraftOnly(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)

	sent := sentQuote(t, r, client, vehicle)
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/quotes/%s", sent.ID), "")
	if w.Code != http.StatusConflict {
		t.Fatalf("deleting a sent quote: expected 409 got %d", w.Code)
	}

	draft := createQuoteViaAPI(t, r, client, vehicle)
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/quotes/%s", draft.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("deleting a draft: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var gone models.Quote
	if err := db.First(&gone, "id = ?", draft.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("draft still present after delete (err = %v)", err)
	}
}

func TestQuoteTenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	_, userA, clientA, vehicleA := seedShopFixtures(t, db)
	rA := testRouter(clientA.ShopID, userA.ID)
	quote := createQuoteViaAPI(t, rA, clientA, vehicleA)

	// A second shop cannot see or touch it
	shopB := models.Shop{ID: uuid.New(), Name: "Carrosserie B"}
	if err := db.Create(&shopB).Error; err != nil {
		t.Fatalf("seed shop B: %v", err)
	}
	rB := testRouter(shopB.ID, uuid.New())

	w := doJSON(t, rB, http.MethodGet, fmt.Sprintf("/api/quotes/%s", quote.ID), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant read: expected 404 got %d", w.Code)
	}
	if code := changeStatus(t, rB, quote.ID, `{"status":"sent"}`); code != http.StatusNotFound {
		t.Fatalf("cross-tenant status change: expected 404 got %d", code)
	}
	w = doJSON(t, rB, http.MethodGet, "/api/quotes", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list quotes: %d", w.Code)
	}
	var list []models.Quote
	decode(t, w, &list)
	if len(list) != 0 {
		t.Fatalf("shop B sees %d foreign quotes", len(list))
	}
}
