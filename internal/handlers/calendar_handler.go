package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/calendar"
	"github.com/magicdayconcierge/booking-backend/internal/config"
	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// CalendarHandler renders the availability month grid for the booking
// widget. Blackout reads degrade to an all-open calendar rather than
// failing the page.
type CalendarHandler struct {
	blackouts *database.BlackoutRepository
	booking   config.BookingConfig
	logger    *logrus.Logger
	now       func() time.Time
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(blackouts *database.BlackoutRepository, booking config.BookingConfig, logger *logrus.Logger) *CalendarHandler {
	return &CalendarHandler{
		blackouts: blackouts,
		booking:   booking,
		logger:    logger,
		now:       time.Now,
	}
}

// Month handles GET /api/v1/calendar?month=YYYY-MM&days=N. The month
// defaults to the current one and is clamped to the bookable window;
// days is the selection size the widget enforces client-side.
func (h *CalendarHandler) Month(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "1"))
	if days < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "days must be a positive integer",
		})
		return
	}

	var blackoutKeys []datekey.Key
	dates, err := h.blackouts.ListAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch blackout dates for calendar")
	} else {
		for _, bd := range dates {
			blackoutKeys = append(blackoutKeys, bd.Date)
		}
	}

	picker := calendar.NewPicker(h.now(), days, h.booking.HorizonDays, blackoutKeys)

	if month := c.Query("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "month must be in YYYY-MM format",
			})
			return
		}
		picker.SetViewMonth(parsed.Year(), parsed.Month())
	}

	view := picker.ViewMonth()
	c.JSON(http.StatusOK, gin.H{
		"month":             view.Format("2006-01"),
		"first_weekday":     picker.FirstWeekday(),
		"days":              picker.MonthGrid(),
		"can_go_previous":   picker.CanGoToPreviousMonth(),
		"can_go_next":       picker.CanGoToNextMonth(),
		"show_waiting_list": picker.HasBlackoutsInWindow(),
	})
}
