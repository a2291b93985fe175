package pethubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthAPI answers liveness probes.
type HealthAPI struct{}

// Get /
func (api *HealthAPI) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "PetHub API is running"})
}
