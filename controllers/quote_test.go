package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"carropro-backend/models"
	"carropro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type itemResponse struct {
	Item   models.QuoteItem `json:"item"`
	Totals services.Totals  `json:"totals"`
}

// changeStatus posts a lifecycle change and returns the HTTP status code.
func changeStatus(t *testing.T, r *gin.Engine, quoteID uuid.UUID, body string) int {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/status", quoteID), body)
	return w.Code
}

func TestCreateQuoteAssignsNumber(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)

	first := createQuoteViaAPI(t, r, client, vehicle)
	second := createQuoteViaAPI(t, r, client, vehicle)

	wantFirst := fmt.Sprintf("DV-%d-0001", first.Year)
	if first.Number != wantFirst {
		t.Fatalf("first number = %s, want %s", first.Number, wantFirst)
	}
	if second.SequenceNumber != first.SequenceNumber+1 {
		t.Fatalf("sequence did not advance: %d then %d", first.SequenceNumber, second.SequenceNumber)
	}
	if first.Status != models.StatusDraft {
		t.Fatalf("new quote status = %s, want draft", first.Status)
	}
	if first.Subtotal != 0 || first.GrandTotal != 0 {
		t.Fatalf("new quote should have zero totals, got %+v", first)
	}
}

func TestCreateQuoteRejectsForeignVehicle(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, _ := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)

	other := models.Client{ID: uuid.New(), ShopID: client.ShopID, CreatedByUserID: user.ID,
		Name: "Autre Client", Phone: "+15145550199"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	otherVehicle := models.Vehicle{ID: uuid.New(), ShopID: client.ShopID, ClientID: other.ID,
		Make: "Toyota", ModelName: "Corolla", Year: 2019}
	if err := db.Create(&otherVehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}

	body := fmt.Sprintf(`{"clientId":%q,"vehicleId":%q}`, client.ID, otherVehicle.ID)
	w := doJSON(t, r, http.MethodPost, "/api/quotes", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for vehicle of another client, got %d", w.Code)
	}
}

func TestQuoteItemTotals(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	items := []struct {
		category  string
		quantity  float64
		unitPrice float64
	}{
		{"labor", 10, 90},
		{"part", 1, 450},
		{"paint", 1, 150},
	}
	var last itemResponse
	for _, it := range items {
		body := fmt.Sprintf(`{"category":%q,"description":"work","quantity":%g,"unitPrice":%g}`,
			it.category, it.quantity, it.unitPrice)
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/items", quote.ID), body)
		if w.Code != http.StatusCreated {
			t.Fatalf("add item: expected 201 got %d body=%s", w.Code, w.Body.String())
		}
		decode(t, w, &last)
	}

	// 1500 subtotal, 5% + 9.975% taxes rounded to cents
	if last.Totals.Subtotal != 1500 {
		t.Fatalf("subtotal = %v, want 1500", last.Totals.Subtotal)
	}
	if last.Totals.Tax1 != 75 {
		t.Fatalf("tax1 = %v, want 75", last.Totals.Tax1)
	}
	if last.Totals.Tax2 != 149.63 {
		t.Fatalf("tax2 = %v, want 149.63", last.Totals.Tax2)
	}
	if last.Totals.GrandTotal != 1724.63 {
		t.Fatalf("grandTotal = %v, want 1724.63", last.Totals.GrandTotal)
	}

	// The stored quote carries the same derived fields
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/quotes/%s", quote.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("get quote: %d", w.Code)
	}
	var stored models.Quote
	decode(t, w, &stored)
	if stored.GrandTotal != 1724.63 || len(stored.Items) != 3 {
		t.Fatalf("stored quote = grandTotal %v with %d items", stored.GrandTotal, len(stored.Items))
	}
}

func TestDeleteItemRecomputesTotals(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	var kept, removed itemResponse
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/items", quote.ID),
		`{"category":"labor","description":"debosselage","quantity":4,"unitPrice":95}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: %d", w.Code)
	}
	decode(t, w, &kept)
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/items", quote.ID),
		`{"category":"part","description":"pare-chocs","quantity":1,"unitPrice":320}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: %d", w.Code)
	}
	decode(t, w, &removed)

	w = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/quotes/%s/items/%s", quote.ID, removed.Item.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete item: %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Totals services.Totals `json:"totals"`
	}
	decode(t, w, &resp)
	if resp.Totals.Subtotal != 380 {
		t.Fatalf("subtotal after delete = %v, want 380", resp.Totals.Subtotal)
	}
}

func TestEmptyQuoteHasZeroTotals(t *testing.T) {
	db := setupTestDB(t)
	_, user, client, vehicle := seedShopFixtures(t, db)
	r := testRouter(client.ShopID, user.ID)
	quote := createQuoteViaAPI(t, r, client, vehicle)

	var added itemResponse
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/quotes/%s/items", quote.ID),
		`{"category":"other","description":"estimation","quantity":1,"unitPrice":50}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: %d", w.Code)
	}
	decode(t, w, &added)

	w = doJSON(t, r, http.MethodDelete,
		fmt.Sprintf("/api/quotes/%s/items/%s", quote.ID, added.Item.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete item: %d", w.Code)
	}
	var resp struct {
		Totals services.Totals `json:"totals"`
	}
	decode(t, w, &resp)
	if resp.Totals != (services.Totals{}) {
		t.Fatalf("empty quote totals = %+v, want all zeros", resp.Totals)
	}
}
