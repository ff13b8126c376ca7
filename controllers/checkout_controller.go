package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/errs"
	"storefront/middleware"
	"storefront/models"
)

// CheckoutAPI is the slice of the checkout service the controller consumes.
type CheckoutAPI interface {
	Checkout(ctx context.Context, userID uuid.UUID, paymentMethod string) (*models.Purchase, *errs.Error)
	GetPurchase(ctx context.Context, requestingUserID, purchaseID uuid.UUID) (*models.Purchase, *errs.Error)
	GetPurchaseItems(ctx context.Context, requestingUserID, purchaseID uuid.UUID) ([]models.PurchaseItem, *errs.Error)
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]models.Purchase, *errs.Error)
}

type CheckoutController struct {
	checkout CheckoutAPI
}

func NewCheckoutController(checkout CheckoutAPI) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// Checkout turns the cart into a purchase
func (cc *CheckoutController) Checkout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// the body is optional; an empty body (io.EOF) pays by card, which
	// also covers chunked requests that carry no content length
	var req checkoutRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "card"
	}

	purchase, appErr := cc.checkout.Checkout(c.Request.Context(), userID, req.PaymentMethod)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

// ListPurchases returns the caller's purchase history
func (cc *CheckoutController) ListPurchases(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	purchases, appErr := cc.checkout.ListPurchases(c.Request.Context(), userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

// GetPurchase returns one of the caller's purchases with its items
func (cc *CheckoutController) GetPurchase(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase id"})
		return
	}

	purchase, appErr := cc.checkout.GetPurchase(c.Request.Context(), userID, purchaseID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// GetPurchaseItems returns the line snapshots of one purchase
func (cc *CheckoutController) GetPurchaseItems(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase id"})
		return
	}

	items, appErr := cc.checkout.GetPurchaseItems(c.Request.Context(), userID, purchaseID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
