package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	if api.analytics == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeInternalError, "Analytics are not enabled")
		return
	}

	c.JSON(http.StatusOK, api.analytics.GetDashboard())
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"rules":     len(api.engine.ListRules()),
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
