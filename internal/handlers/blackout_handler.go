package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/internal/middleware"
	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/pkg/datekey"
)

// BlackoutHandler handles blackout date HTTP requests
type BlackoutHandler struct {
	repo   *database.BlackoutRepository
	logger *logrus.Logger
}

// NewBlackoutHandler creates a new blackout handler
func NewBlackoutHandler(repo *database.BlackoutRepository, logger *logrus.Logger) *BlackoutHandler {
	return &BlackoutHandler{repo: repo, logger: logger}
}

// List handles GET /api/v1/blackout-dates. Without page parameters it is
// the public full list that feeds the booking calendar; with page
// parameters it becomes the admin portal listing and requires a session.
// Read failures on either path degrade to an empty result so the calling
// UI keeps rendering.
func (h *BlackoutHandler) List(c *gin.Context) {
	_, paginated := c.GetQuery("page")
	if !paginated {
		_, paginated = c.GetQuery("page_size")
	}

	if !paginated {
		dates, err := h.repo.ListAll()
		if err != nil {
			h.logger.WithError(err).Error("Failed to fetch blackout dates")
			c.JSON(http.StatusOK, gin.H{"blackout_dates": []models.BlackoutDate{}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"blackout_dates": dates})
		return
	}

	if _, ok := middleware.GetAdminContext(c); !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Admin session required for paginated listing",
		})
		return
	}

	page, pageSize := parsePageParams(c)

	filters, err := parseBlackoutFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	sort := models.BlackoutSort{
		Field:     models.BlackoutSortField(c.Query("sort")),
		Ascending: c.Query("order") == "asc",
	}

	dates, total, err := h.repo.ListPaginated(page, pageSize, filters, sort)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch blackout dates page")
		dates = []models.BlackoutDate{}
		total = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"blackout_dates": dates,
		"pagination":     newPagination(page, pageSize, total),
	})
}

// Create handles POST /api/v1/blackout-dates. Creating a date that
// already exists returns the existing record with 200 instead of 201.
func (h *BlackoutHandler) Create(c *gin.Context) {
	var req models.CreateBlackoutDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	date, err := datekey.Parse(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "date must be in YYYY-MM-DD format",
		})
		return
	}

	created, err := h.repo.Create(date)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error:   "conflict",
				Message: "Blackout date already exists",
			})
			return
		}
		h.logger.WithField("date", date).WithError(err).Error("Failed to create blackout date")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to create blackout date",
		})
		return
	}

	h.logger.WithField("date", date).Info("Blackout date created")
	c.JSON(http.StatusCreated, gin.H{"blackout_date": created})
}

// Delete handles DELETE /api/v1/blackout-dates/:id
func (h *BlackoutHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "id must be an integer",
		})
		return
	}

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Blackout date not found",
			})
			return
		}
		h.logger.WithField("id", id).WithError(err).Error("Failed to delete blackout date")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to delete blackout date",
		})
		return
	}

	h.logger.WithField("id", id).Info("Blackout date deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseBlackoutFilters(c *gin.Context) (models.BlackoutFilters, error) {
	var filters models.BlackoutFilters
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
	if v := c.Query("year"); v != "" {
		if filters.Year, err = strconv.Atoi(v); err != nil {
			return filters, err
		}
	}
	if v := c.Query("month"); v != "" {
		if filters.Month, err = strconv.Atoi(v); err != nil {
			return filters, err
		}
	}

	return filters, nil
}
