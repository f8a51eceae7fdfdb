package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/magicdayconcierge/booking-backend/pkg/shopify"
)

// ShopifyHandler proxies the storefront catalog and cart calls the
// booking flow needs, keeping store credentials server-side.
type ShopifyHandler struct {
	client *shopify.Client
	logger *logrus.Logger
}

// NewShopifyHandler creates a new Shopify handler
func NewShopifyHandler(client *shopify.Client, logger *logrus.Logger) *ShopifyHandler {
	return &ShopifyHandler{client: client, logger: logger}
}

// CreateCartRequest is the cart creation payload
type CreateCartRequest struct {
	LineItems []shopify.CartLineInput `json:"lineItems" binding:"required,min=1"`
}

// CreateCart handles POST /api/v1/cart. An upstream failure surfaces as
// 502: the visitor must see that checkout could not start.
func (h *ShopifyHandler) CreateCart(c *gin.Context) {
	var req CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body",
		})
		return
	}

	cart, err := h.client.CreateCart(c.Request.Context(), req.LineItems)
	if err != nil {
		h.logger.WithError(err).Error("Cart creation failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to create cart",
		})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// GetProducts handles GET /api/v1/products
func (h *ShopifyHandler) GetProducts(c *gin.Context) {
	first, _ := strconv.Atoi(c.DefaultQuery("first", "10"))
	if first < 1 || first > 100 {
		first = 10
	}

	products, err := h.client.GetProducts(c.Request.Context(), first)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch products")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /api/v1/products/:handle
func (h *ShopifyHandler) GetProduct(c *gin.Context) {
	handle := c.Param("handle")

	product, err := h.client.GetProductByHandle(c.Request.Context(), handle)
	if err != nil {
		h.logger.WithField("handle", handle).WithError(err).Error("Failed to fetch product")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch product",
		})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// GetStoreInfo handles GET /api/v1/store-info
func (h *ShopifyHandler) GetStoreInfo(c *gin.Context) {
	info, err := h.client.GetStoreInfo(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch store info")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch store information",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": info})
}
