package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"carropro-backend/config"
	"carropro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestDB opens an in-memory database, migrates the schema and points the
// package-global connection at it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Shop{}, &models.User{}, &models.Client{}, &models.Vehicle{},
		&models.Insurer{}, &models.Quote{}, &models.QuoteItem{},
		&models.QuoteStatusHistory{}, &models.QuoteSequence{},
		&models.Claim{}, &models.ClaimNote{}, &models.FollowUp{},
		&models.RelanceTemplate{}, &models.SMSLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	return db
}

// fakeAuth injects the identity the real JWT middleware would have set.
func fakeAuth(shopID, userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("shopId", shopID.String())
		c.Set("userId", userID.String())
		c.Next()
	}
}

// testRouter wires the API routes behind a fake identity.
func testRouter(shopID, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")
	api.Use(fakeAuth(shopID, userID))

	api.POST("/clients", CreateClient)
	api.GET("/clients", GetClients)
	api.GET("/clients/:id", GetClient)
	api.PUT("/clients/:id", UpdateClient)
	api.DELETE("/clients/:id", DeleteClient)
	api.GET("/clients/:id/vehicles", GetClientVehicles)

	api.POST("/vehicles", CreateVehicle)
	api.GET("/vehicles/:id", GetVehicle)
	api.PUT("/vehicles/:id", UpdateVehicle)
	api.DELETE("/vehicles/:id", DeleteVehicle)

	api.POST("/insurers", CreateInsurer)
	api.GET("/insurers", GetInsurers)
	api.PUT("/insurers/:id", UpdateInsurer)
	api.DELETE("/insurers/:id", DeactivateInsurer)

	api.POST("/quotes", CreateQuote)
	api.GET("/quotes", GetQuotes)
	api.GET("/quotes/:id", GetQuote)
	api.PUT("/quotes/:id", UpdateQuote)
	api.DELETE("/quotes/:id", DeleteQuote)
	api.POST("/quotes/:id/items", AddQuoteItem)
	api.PUT("/quotes/:id/items/:itemId", UpdateQuoteItem)
	api.DELETE("/quotes/:id/items/:itemId", DeleteQuoteItem)
	api.POST("/quotes/:id/status", ChangeQuoteStatus)
	api.GET("/quotes/:id/history", GetQuoteHistory)
	api.POST("/quotes/:id/claim", CreateClaim)
	api.GET("/quotes/:id/claim", GetClaim)
	api.PUT("/quotes/:id/claim", UpdateClaim)
	api.POST("/quotes/:id/claim/notes", AddClaimNote)
	api.POST("/quotes/:id/followups", CreateFollowUp)
	api.GET("/quotes/:id/followups", GetFollowUps)
	api.GET("/followups/queue", GetFollowUpQueue)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// seedShopFixtures creates a shop with one estimator, one client and one of
// the client's vehicles.
func seedShopFixtures(t *testing.T, db *gorm.DB) (shop models.Shop, user models.User, client models.Client, vehicle models.Vehicle) {
	t.Helper()
	shop = models.Shop{ID: uuid.New(), Name: "Carrosserie Test", FollowUpDigests: true}
	if err := db.Create(&shop).Error; err != nil {
		t.Fatalf("shop: %v", err)
	}
	user = models.User{Email: fmt.Sprintf("%s@test", t.Name()), Password: "secret-pass", Name: "Marc",
		Phone: "+15145550100", Role: "owner", ShopID: shop.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	client = models.Client{ID: uuid.New(), ShopID: shop.ID, CreatedByUserID: user.ID,
		Name: "Jean Tremblay", Phone: "+15145550101"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	vehicle = models.Vehicle{ID: uuid.New(), ShopID: shop.ID, ClientID: client.ID,
		Make: "Honda", ModelName: "Civic", Year: 2021}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("vehicle: %v", err)
	}
	return
}

// createQuoteViaAPI opens a draft quote through the handler.
func createQuoteViaAPI(t *testing.T, r *gin.Engine, client models.Client, vehicle models.Vehicle) models.Quote {
	t.Helper()
	body := fmt.Sprintf(`{"clientId":%q,"vehicleId":%q}`, client.ID, vehicle.ID)
	w := doJSON(t, r, http.MethodPost, "/api/quotes", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create quote: expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var quote models.Quote
	decode(t, w, &quote)
	return quote
}
