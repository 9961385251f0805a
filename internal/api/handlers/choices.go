package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jafarshop/productcreator/internal/catalog"
)

// HandleListChoices handles GET /v1/metafields/:key/choices
func HandleListChoices() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		choices := catalog.ChoicesForKey(key)
		if choices == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no choices for metafield key: " + key})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"key":     key,
			"count":   len(choices),
			"choices": choices,
		})
	}
}
