package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/internal/database"
	"github.com/magicdayconcierge/booking-backend/internal/models"
	"github.com/magicdayconcierge/booking-backend/internal/services"
)

// WaitingListHandler handles waiting-list HTTP requests
type WaitingListHandler struct {
	service *services.WaitingListService
	logger  *logrus.Logger
}

// NewWaitingListHandler creates a new waiting list handler
func NewWaitingListHandler(service *services.WaitingListService, logger *logrus.Logger) *WaitingListHandler {
	return &WaitingListHandler{service: service, logger: logger}
}

// Create handles POST /api/v1/waiting-list (public)
func (h *WaitingListHandler) Create(c *gin.Context) {
	var req models.CreateWaitingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	if err := h.service.Signup(req); err != nil {
		if errors.Is(err, services.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}
		h.logger.WithField("email", req.Email).WithError(err).Error("Failed to create waiting list entries")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to join the waiting list",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// List handles GET /api/v1/waiting-list (admin). Read failures degrade
// to an empty list so the admin table still renders.
func (h *WaitingListHandler) List(c *gin.Context) {
	entries, err := h.service.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch waiting list")
		entries = []models.WaitingListEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"waiting_list": entries})
}

// Delete handles DELETE /api/v1/waiting-list/:id (admin)
func (h *WaitingListHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "id must be an integer",
		})
		return
	}

	if err := h.service.Delete(id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Waiting list entry not found",
			})
			return
		}
		h.logger.WithField("id", id).WithError(err).Error("Failed to delete waiting list entry")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to delete waiting list entry",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
