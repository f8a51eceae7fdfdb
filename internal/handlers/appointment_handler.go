package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// AppointmentHandler handles appointment ledger HTTP requests. All routes
// sit behind the admin session gate; the ledger is never public.
type AppointmentHandler struct {
	repo   *database.AppointmentRepository
	logger *logrus.Logger
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(repo *database.AppointmentRepository, logger *logrus.Logger) *AppointmentHandler {
	return &AppointmentHandler{repo: repo, logger: logger}
}

// List handles GET /api/v1/appointments. With metadata=true it returns
// the distinct park/type values for the admin filter dropdowns instead of
// a page of rows. Read failures degrade to an empty page so the admin
// table still renders.
func (h *AppointmentHandler) List(c *gin.Context) {
	if c.Query("metadata") == "true" {
		h.metadata(c)
		return
	}

	page, pageSize := parsePageParams(c)

	filters, err := parseAppointmentFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	sort := models.AppointmentSort{
		Field:     models.AppointmentSortField(c.Query("sort")),
		Ascending: c.Query("order") == "asc",
	}

	appointments, total, err := h.repo.ListPaginated(page, pageSize, filters, sort)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch appointments")
		appointments = []models.Appointment{}
		total = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"appointments": appointments,
		"pagination":   newPagination(page, pageSize, total),
	})
}

// metadata returns the distinct filter values present in the ledger.
// Failures degrade to empty lists so the admin UI still renders.
func (h *AppointmentHandler) metadata(c *gin.Context) {
	parks, err := h.repo.DistinctParks()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch distinct parks")
		parks = []string{}
	}

	types, err := h.repo.DistinctTypes()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch distinct types")
		types = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"parks": parks,
		"types": types,
	})
}

func parseAppointmentFilters(c *gin.Context) (models.AppointmentFilters, error) {
	filters := models.AppointmentFilters{
		Park:   c.Query("park"),
		Type:   c.Query("type"),
		Search: c.Query("search"),
	}
	var err error

	if v := c.Query("date_from"); v != "" {
		if filters.DateFrom, err = datekey.Parse(v); err != nil {
			return filters, err
		}
	}
	if v := c.Query("date_to"); v != "" {
		if filters.DateTo, err = datekey.Parse(v); err != nil {
			return filters, err
		}
	}

	return filters, nil
}
