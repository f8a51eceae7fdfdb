package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
	"github.com/magicdayconcierge/booking-backend/pkg/metrics"
)

var (
	// ErrNoLineItemProperties means the order carried no line-item
	// properties at all.
	ErrNoLineItemProperties = errors.New("no properties found in line items")

	// ErrMissingBookingProperties means the required bookingDates or
	// lineItemID property is absent.
	ErrMissingBookingProperties = errors.New("missing required booking properties")
)

// WebhookProperty is one custom line-item property on the order
type WebhookProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// WebhookLineItem is one order line with its custom properties
type WebhookLineItem struct {
	Properties []WebhookProperty `json:"properties"`
}

// CheckoutWebhookPayload is the order-creation webhook body, reduced to
// the fields intake reads.
type CheckoutWebhookPayload struct {
	ID        int64             `json:"id"`
	LineItems []WebhookLineItem `json:"line_items"`
}

// IntakeResult summarizes one processed webhook
type IntakeResult struct {
	OrderID          string
	DaysProcessed    int
	DaysFailed       int
	BlackoutsCreated int
}

// VerifySignature checks a webhook body against its HMAC-SHA256 header.
// The signature is computed over the raw request bytes and compared in
// constant time.
func VerifySignature(secret string, body []byte, header string) bool {
	if secret == "" || header == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(header))
}

// BookingIntakeService turns verified checkout webhooks into appointment
// ledger rows and applies the capacity blackout rule.
type BookingIntakeService struct {
	appointments *database.AppointmentRepository
	blackouts    *database.BlackoutRepository
	threshold    int
	exemptType   string
	logger       *logrus.Logger
}

// NewBookingIntakeService creates the intake service. threshold is the
// same-day appointment count that closes a date; exemptType names the
// product type the rule ignores.
func NewBookingIntakeService(
	appointments *database.AppointmentRepository,
	blackouts *database.BlackoutRepository,
	threshold int,
	exemptType string,
	logger *logrus.Logger,
) *BookingIntakeService {
	return &BookingIntakeService{
		appointments: appointments,
		blackouts:    blackouts,
		threshold:    threshold,
		exemptType:   exemptType,
		logger:       logger,
	}
}

// ProcessCheckoutWebhook records one appointment per booked day of the
// order. Days are processed in payload order and failures are isolated:
// a bad date or a failed insert skips that day and the rest continue.
// Orders always use the first line item's properties.
func (s *BookingIntakeService) ProcessCheckoutWebhook(payload *CheckoutWebhookPayload) (*IntakeResult, error) {
	start := time.Now()
	defer func() {
		metrics.IntakeDuration.Observe(time.Since(start).Seconds())
	}()

	if len(payload.LineItems) == 0 || len(payload.LineItems[0].Properties) == 0 {
		return nil, ErrNoLineItemProperties
	}
	properties := payload.LineItems[0].Properties

	var bookingDates, lineItemID, productType string
	for _, prop := range properties {
		switch prop.Name {
		case "bookingDates":
			bookingDates = prop.Value
		case "lineItemID":
			lineItemID = prop.Value
		case "productType":
			productType = prop.Value
		}
	}
	if bookingDates == "" || lineItemID == "" {
		return nil, ErrMissingBookingProperties
	}

	orderID := strconv.FormatInt(payload.ID, 10)
	segments := strings.Split(bookingDates, "|")

	s.logger.WithFields(logrus.Fields{
		"order_id":     orderID,
		"line_item_id": lineItemID,
		"days":         len(segments),
	}).Info("Processing checkout webhook")

	result := &IntakeResult{OrderID: orderID}
	for _, segment := range segments {
		if err := s.processDay(orderID, lineItemID, productType, segment, result); err != nil {
			result.DaysFailed++
			metrics.IntakeDayFailures.Inc()
			s.logger.WithFields(logrus.Fields{
				"order_id": orderID,
				"segment":  segment,
			}).WithError(err).Error("Failed to process booking day")
		}
	}

	return result, nil
}

// processDay records one day's appointment and applies the blackout rule.
// The segment format is "date,park1[,park2]"; parks are stored as one
// comma-joined value.
func (s *BookingIntakeService) processDay(orderID, lineItemID, productType, segment string, result *IntakeResult) error {
	parts := strings.Split(segment, ",")

	date, err := datekey.Parse(strings.TrimSpace(parts[0]))
	if err != nil {
		return err
	}
	park := strings.Join(parts[1:], ",")

	if _, err := s.appointments.Create(orderID, lineItemID, date, park, productType); err != nil {
		return err
	}
	result.DaysProcessed++
	metrics.AppointmentsRecorded.Inc()

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"date":     date,
		"park":     park,
	}).Info("Appointment recorded")

	// Capacity rule: once the day holds threshold appointments it is
	// closed to further bookings. Exempt product types never trip it.
	if productType == s.exemptType {
		return nil
	}

	count, err := s.appointments.CountByDate(date)
	if err != nil {
		s.logger.WithField("date", date).WithError(err).Error("Failed to count appointments for capacity rule")
		return nil
	}
	if count < s.threshold {
		return nil
	}

	if _, err := s.blackouts.Create(date); err != nil {
		s.logger.WithField("date", date).WithError(err).Error("Failed to create capacity blackout")
		return nil
	}
	result.BlackoutsCreated++
	metrics.AutoBlackouts.Inc()
	s.logger.WithFields(logrus.Fields{
		"date":  date,
		"count": count,
	}).Warn("Capacity threshold reached, date closed")

	return nil
}
