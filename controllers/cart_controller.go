package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/errs"
	"storefront/middleware"
	"storefront/models"
)

// CartAPI is the slice of the cart service the controller consumes.
type CartAPI interface {
	AddItem(ctx context.Context, userID, softwareID uuid.UUID, quantity int) (*models.CartItem, *errs.Error)
	SetQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) *errs.Error
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) *errs.Error
	Clear(ctx context.Context, userID uuid.UUID) *errs.Error
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, []models.CartItemDetail, *errs.Error)
}

type CartController struct {
	carts CartAPI
}

func NewCartController(carts CartAPI) *CartController {
	return &CartController{carts: carts}
}

// GetCart returns the current cart with its lines
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, items, appErr := cc.carts.GetCart(c.Request.Context(), userID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart, "items": items})
}

type addItemRequest struct {
	SoftwareID uuid.UUID `json:"software_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// AddItem adds or increments an item in the cart
func (cc *CartController) AddItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	line, appErr := cc.carts.AddItem(c.Request.Context(), userID, req.SoftwareID, req.Quantity)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, line)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity updates a line's quantity; zero or less removes the line
func (cc *CartController) SetQuantity(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item id"})
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if appErr := cc.carts.SetQuantity(c.Request.Context(), userID, lineID, req.Quantity); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

// RemoveLine deletes a line from the cart
func (cc *CartController) RemoveLine(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item id"})
		return
	}

	if appErr := cc.carts.RemoveLine(c.Request.Context(), userID, lineID); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

// Clear empties the cart
func (cc *CartController) Clear(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if appErr := cc.carts.Clear(c.Request.Context(), userID); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
