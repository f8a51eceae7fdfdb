package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
	"github.com/magicdayconcierge/booking-backend/pkg/email"
	"github.com/magicdayconcierge/booking-backend/pkg/metrics"
)

// ErrInvalidDate marks a signup day that is not a YYYY-MM-DD date
var ErrInvalidDate = errors.New("invalid date")

// WaitingListService captures waiting-list signups and sends the
// confirmation email. Email delivery is best effort: a failed send never
// fails the signup.
type WaitingListService struct {
	repo   *database.WaitingListRepository
	sender email.Sender
	logger *logrus.Logger
}

// NewWaitingListService creates the waiting-list service
func NewWaitingListService(repo *database.WaitingListRepository, sender email.Sender, logger *logrus.Logger) *WaitingListService {
	return &WaitingListService{
		repo:   repo,
		sender: sender,
		logger: logger,
	}
}

// Signup stores one row per requested day and fires the confirmation
// email in the background.
func (s *WaitingListService) Signup(req models.CreateWaitingListRequest) error {
	days := make([]database.WaitingListDay, 0, len(req.Days))
	for _, day := range req.Days {
		date, err := datekey.Parse(day.Date)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, day.Date)
		}
		days = append(days, database.WaitingListDay{
			Date: date,
			Park: strings.TrimSpace(day.Park),
		})
	}

	if err := s.repo.CreateBatch(req.Name, req.Email, days); err != nil {
		return err
	}
	metrics.WaitingListSignups.Inc()

	s.logger.WithFields(logrus.Fields{
		"email": req.Email,
		"days":  len(days),
	}).Info("Waiting list signup recorded")

	go s.sendConfirmation(req, days)

	return nil
}

// List returns all waiting-list entries, newest first
func (s *WaitingListService) List() ([]models.WaitingListEntry, error) {
	return s.repo.List()
}

// Delete removes one entry
func (s *WaitingListService) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *WaitingListService) sendConfirmation(req models.CreateWaitingListRequest, days []database.WaitingListDay) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	var lines strings.Builder
	for _, day := range days {
		fmt.Fprintf(&lines, "<li>%s &mdash; %s</li>", day.Date, day.Park)
	}

	msg := email.Message{
		To:      req.Email,
		Subject: "You're on the waiting list",
		HTML: fmt.Sprintf(
			"<p>Hi %s,</p><p>We saved your spot on the waiting list for:</p><ul>%s</ul><p>We'll email you as soon as a date opens up.</p>",
			req.Name, lines.String(),
		),
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.WithField("email", req.Email).WithError(err).Error("Failed to send waiting list confirmation")
	}
}
