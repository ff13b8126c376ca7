package controllers

import (
	"github.com/gin-gonic/gin"

	"storefront/errs"
)

// respondError maps an application error onto its HTTP status.
func respondError(c *gin.Context, err *errs.Error) {
	c.JSON(err.Code, gin.H{"error": err.Message})
}
