package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/models"
	"storefront/services"
)

// AdminController hosts the back-office endpoints: catalog CRUD, user
// management, ticket handling, review moderation and the dashboard.
type AdminController struct {
	catalog  *services.CatalogService
	users    *services.UserService
	tickets  *services.TicketService
	reviews  *services.ReviewService
	checkout *services.CheckoutService
}

func NewAdminController(
	catalog *services.CatalogService,
	users *services.UserService,
	tickets *services.TicketService,
	reviews *services.ReviewService,
	checkout *services.CheckoutService,
) *AdminController {
	return &AdminController{
		catalog:  catalog,
		users:    users,
		tickets:  tickets,
		reviews:  reviews,
		checkout: checkout,
	}
}

// ---- categories ----

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (ad *AdminController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	category, appErr := ad.catalog.CreateCategory(c.Request.Context(), req.Name, req.Description)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (ad *AdminController) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if appErr := ad.catalog.UpdateCategory(c.Request.Context(), id, req.Name, req.Description); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category updated"})
}

func (ad *AdminController) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if appErr := ad.catalog.DeleteCategory(c.Request.Context(), id); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

// ---- software ----

type softwareRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price"`
	CategoryID  uuid.UUID `json:"category_id"`
	Developer   string    `json:"developer"`
	ImageURL    string    `json:"image_url"`
}

func (ad *AdminController) CreateSoftware(c *gin.Context) {
	var req softwareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price is required"})
		return
	}

	software := &models.Software{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		Developer:   req.Developer,
		ImageURL:    req.ImageURL,
	}
	if appErr := ad.catalog.CreateSoftware(c.Request.Context(), software); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusCreated, software)
}

func (ad *AdminController) UpdateSoftware(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid software id"})
		return
	}

	var req softwareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	appErr := ad.catalog.UpdateSoftware(c.Request.Context(), id,
		req.Name, req.Description, req.Developer, req.ImageURL, req.Price, req.CategoryID)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "software updated"})
}

func (ad *AdminController) DeleteSoftware(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid software id"})
		return
	}

	if appErr := ad.catalog.DeleteSoftware(c.Request.Context(), id); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "software deleted"})
}

// ---- users ----

func (ad *AdminController) SearchUsers(c *gin.Context) {
	users, appErr := ad.users.Search(c.Request.Context(),
		c.Query("q"), c.DefaultQuery("sort", "created_at"), c.DefaultQuery("direction", "desc"))
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (ad *AdminController) SetUserRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if appErr := ad.users.SetRole(c.Request.Context(), id, req.Role); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

func (ad *AdminController) SetUserActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if appErr := ad.users.SetActive(c.Request.Context(), id, *req.IsActive); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// ---- tickets ----

func (ad *AdminController) ListTickets(c *gin.Context) {
	tickets, appErr := ad.tickets.List(c.Request.Context(), c.Query("status"))
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

type ticketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (ad *AdminController) SetTicketStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req ticketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if appErr := ad.tickets.SetStatus(c.Request.Context(), id, req.Status); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ticket updated"})
}

// ---- reviews (moderation) ----

func (ad *AdminController) RecentReviews(c *gin.Context) {
	reviews, appErr := ad.reviews.Recent(c.Request.Context(), 200)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type updateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func (ad *AdminController) UpdateReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if appErr := ad.reviews.Update(c.Request.Context(), id, req.Rating, req.Comment); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review updated"})
}

func (ad *AdminController) DeleteReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if appErr := ad.reviews.Delete(c.Request.Context(), id); appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// ---- dashboard ----

func (ad *AdminController) ListAllPurchases(c *gin.Context) {
	purchases, appErr := ad.checkout.ListAllPurchases(c.Request.Context())
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (ad *AdminController) Statistics(c *gin.Context) {
	stats, appErr := ad.catalog.Statistics(c.Request.Context())
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	active, appErr := ad.tickets.CountActive(c.Request.Context())
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statistics": stats, "active_tickets": active})
}
