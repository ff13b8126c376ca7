package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/middleware"
	"storefront/services"
)

type TicketController struct {
	tickets *services.TicketService
}

func NewTicketController(tickets *services.TicketService) *TicketController {
	return &TicketController{tickets: tickets}
}

type createTicketRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Create files a support ticket; works for anonymous visitors too
func (tc *TicketController) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	var userID *uuid.UUID
	if id, err := middleware.GetUserID(c); err == nil {
		userID = &id
	}

	ticket, appErr := tc.tickets.Create(c.Request.Context(), userID, req.Name, req.Email, req.Subject, req.Message)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}
