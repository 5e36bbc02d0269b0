package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"payin-bridge/internal/gateway"
	"payin-bridge/internal/models"
	"payin-bridge/internal/service"
	"payin-bridge/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Purchaser runs one purchase orchestration
type Purchaser interface {
	Purchase(ctx context.Context, req *service.PurchaseRequest) (*models.PurchaseOutcome, error)
}

// Catalog serves product reads and the admin price update
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error)
}

// Handler contains HTTP handlers
type Handler struct {
	purchaser Purchaser
	catalog   Catalog
}

// NewHandler creates a new HTTP handler
func NewHandler(purchaser Purchaser, catalog Catalog) *Handler {
	return &Handler{
		purchaser: purchaser,
		catalog:   catalog,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/purchase", h.createPurchase)
	}

	staging := router.Group("/api-staging")
	{
		staging.GET("/products", h.listProducts)
		staging.GET("/products/:id", h.getProduct)
		staging.PUT("/admin/products/:id/price", h.updateProductPrice)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// createPurchase handles a purchase request: 404 for an unknown product,
// 400 for a non-positive amount, 500 for gateway or configuration failures.
// Failure bodies keep the purchase response shape with success=false.
func (h *Handler) createPurchase(c *gin.Context) {
	var req service.PurchaseRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.PurchaseOutcome{
			Success: false,
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	outcome, err := h.purchaser.Purchase(c.Request.Context(), &req)
	if err != nil {
		status, message := purchaseFailure(err)
		c.JSON(status, models.PurchaseOutcome{
			Success: false,
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// purchaseFailure maps an orchestration error to an HTTP status and a
// human-readable message. Indeterminate gateway failures say so explicitly:
// the payin may exist at the provider and must be reconciled, not retried.
func purchaseFailure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, service.ErrInvalidAmount):
		return http.StatusBadRequest, "Amount must be greater than zero"
	case errors.Is(err, service.ErrNoAccountAvailable):
		return http.StatusInternalServerError, "Failed to retrieve merchant account. Please check API configuration."
	}

	var unavailable *gateway.UnavailableError
	if errors.As(err, &unavailable) && unavailable.Indeterminate {
		return http.StatusInternalServerError,
			"Payment gateway did not answer; the payin may or may not have been created. Reconcile before retrying: " + err.Error()
	}

	return http.StatusInternalServerError, "Failed to create payin: " + err.Error()
}

// listProducts handles listing the catalog
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list products",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, products)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get product",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

type priceUpdateRequest struct {
	PriceUSDC decimal.Decimal `json:"price_usdc"`
}

// updateProductPrice handles the admin price update
func (h *Handler) updateProductPrice(c *gin.Context) {
	productID, ok := parseID(c)
	if !ok {
		return
	}

	var req priceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if !req.PriceUSDC.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be greater than zero"})
		return
	}

	product, err := h.catalog.UpdatePrice(c.Request.Context(), productID, req.PriceUSDC)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update price",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

func parseID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
