package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/models"
	"storefront/services"
)

type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListCategories returns all categories
func (cc *CatalogController) ListCategories(c *gin.Context) {
	categories, appErr := cc.catalog.ListCategories(c.Request.Context())
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListSoftware returns the filtered catalog listing
func (cc *CatalogController) ListSoftware(c *gin.Context) {
	filter := models.SoftwareFilter{Query: c.Query("q")}

	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		filter.CategoryID = id
	}
	if raw := c.Query("price_min"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_min"})
			return
		}
		filter.PriceMin = &v
	}
	if raw := c.Query("price_max"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_max"})
			return
		}
		filter.PriceMax = &v
	}

	software, appErr := cc.catalog.ListSoftware(c.Request.Context(), filter)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"software": software})
}

// GetSoftware returns one catalog item
func (cc *CatalogController) GetSoftware(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid software id"})
		return
	}

	software, appErr := cc.catalog.GetSoftware(c.Request.Context(), id)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, software)
}

// Bestsellers returns the most downloaded items
func (cc *CatalogController) Bestsellers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	software, appErr := cc.catalog.Bestsellers(c.Request.Context(), limit)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"software": software})
}

// TopRated returns the highest rated items
func (cc *CatalogController) TopRated(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	software, appErr := cc.catalog.TopRated(c.Request.Context(), limit)
	if appErr != nil {
		respondError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"software": software})
}
