package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/service"
	"checkout-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CheckoutService opens payment sessions from client carts
type CheckoutService interface {
	CreateSession(ctx context.Context, req *service.CreateSessionRequest) (*service.CreateSessionResponse, error)
}

// SessionVerifier reconciles completed payment sessions into orders
type SessionVerifier interface {
	VerifySession(ctx context.Context, sessionID string) (*models.Order, error)
}

// Handler contains HTTP handlers
type Handler struct {
	checkout CheckoutService
	verifier SessionVerifier
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(checkout CheckoutService, verifier SessionVerifier) *Handler {
	return &Handler{
		checkout: checkout,
		verifier: verifier,
		logger:   util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/checkout/session", h.createCheckoutSession)
		v1.POST("/checkout/verify", h.verifySession)
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

// createCheckoutSession prices the cart server-side and returns the gateway
// redirect URL. Validation failures come back verbatim; upstream detail is
// logged but never exposed.
func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req service.CreateSessionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.checkout.CreateSession(c.Request.Context(), &req)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Checkout session creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifySessionRequest identifies the session to reconcile
type VerifySessionRequest struct {
	SessionID string `json:"session_id"`
}

// verifySession reconciles a payment session into an order. Replays return
// the stored order unchanged; unpaid sessions are a 400 the client may
// retry once payment completes.
func (h *Handler) verifySession(c *gin.Context) {
	var req VerifySessionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session_id"})
		return
	}

	order, err := h.verifier.VerifySession(c.Request.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotCompleted) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment not completed"})
			return
		}
		h.logger.Error("Session verification failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
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
