// services/relance_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"carropro-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// RelanceService texts each estimator a daily digest of quotes whose
// follow-up is overdue.
type RelanceService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewRelanceService(db *gorm.DB) *RelanceService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &RelanceService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *RelanceService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendDailyDigests)

	c.Start()
	log.Println("Relance digest scheduler started")
}

func (s *RelanceService) SendDailyDigests() {
	log.Println("Starting daily relance digest processing...")

	var shops []models.Shop
	if err := s.db.Find(&shops, "follow_up_digests = ?", true).Error; err != nil {
		log.Printf("Failed to fetch shops: %v", err)
		return
	}

	for _, shop := range shops {
		s.ProcessShopDigest(shop)
	}

	log.Println("Daily relance digest processing completed")
}

func (s *RelanceService) ProcessShopDigest(shop models.Shop) {
	overdue, err := s.OverdueByEstimator(shop.ID, time.Now())
	if err != nil {
		log.Printf("Shop %s: failed to build digest: %v", shop.ID, err)
		return
	}

	for estimatorID, quotes := range overdue {
		s.sendDigest(shop, estimatorID, quotes)
	}
}

// OverdueByEstimator classifies every open quote of the shop with the
// follow-up prioritizer and groups the ones needing a relance by the
// estimator who created them.
func (s *RelanceService) OverdueByEstimator(shopID uuid.UUID, now time.Time) (map[uuid.UUID][]QueueItem, error) {
	var quotes []models.Quote
	if err := s.db.Where("shop_id = ? AND status IN ?", shopID,
		[]models.QuoteStatus{models.StatusDraft, models.StatusSent, models.StatusNegotiating}).
		Find(&quotes).Error; err != nil {
		return nil, err
	}

	overdue := make(map[uuid.UUID][]QueueItem)
	for _, quote := range quotes {
		var last models.FollowUp
		var lastPtr *models.FollowUp
		err := s.db.Where("quote_id = ?", quote.ID).
			Order("created_at DESC").First(&last).Error
		if err == nil {
			lastPtr = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		assessment := AssessFollowUp(now, quote.CreatedAt, lastPtr, DefaultFollowUpThresholdDays)
		if !assessment.NeedsFollowUp {
			continue
		}
		overdue[quote.CreatedByUserID] = append(overdue[quote.CreatedByUserID],
			QueueItem{Quote: quote, FollowUpAssessment: assessment})
	}

	for _, items := range overdue {
		SortQueue(items)
	}
	return overdue, nil
}

func (s *RelanceService) sendDigest(shop models.Shop, estimatorID uuid.UUID, quotes []QueueItem) {
	var estimator models.User
	if err := s.db.First(&estimator, "id = ? AND is_active = true", estimatorID).Error; err != nil {
		log.Printf("Shop %s: estimator %s not found: %v", shop.ID, estimatorID, err)
		return
	}

	message := s.BuildDigestMessage(shop.ID, estimator.Name, quotes)

	if !shop.SMSNotifications || estimator.Phone == "" {
		log.Printf("Shop %s: digest for %s (SMS disabled): %s", shop.ID, estimator.Name, message)
		return
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(estimator.Phone)
	params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send digest to %s: %v", estimator.Phone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Digest sent to %s, SID: %s", estimator.Phone, *resp.Sid)
	}

	smsLog := models.SMSLog{
		ShopID:       shop.ID,
		UserID:       estimator.ID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
	}
	if err := s.db.Create(&smsLog).Error; err != nil {
		log.Printf("Failed to log digest for estimator %s: %v", estimator.ID, err)
	}
}

// BuildDigestMessage renders the shop's digest template, falling back to a
// built-in message when none is configured.
func (s *RelanceService) BuildDigestMessage(shopID uuid.UUID, estimatorName string, quotes []QueueItem) string {
	header := "Hi [EstimatorName], [Count] quote(s) need a follow-up today:"
	var template models.RelanceTemplate
	if err := s.db.Where("shop_id = ? AND type = ? AND is_active = true", shopID, "digest").
		First(&template).Error; err == nil {
		header = template.Message
	}

	header = strings.ReplaceAll(header, "[EstimatorName]", estimatorName)
	header = strings.ReplaceAll(header, "[Count]", fmt.Sprintf("%d", len(quotes)))

	lines := []string{header}
	for _, item := range quotes {
		lines = append(lines, fmt.Sprintf("- %s (%s, %d days old)",
			item.Quote.Number, item.Priority, item.DaysSinceCreation))
	}
	return strings.Join(lines, "\n")
}
