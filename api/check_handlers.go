package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CheckHandler handles POST /v1/check
func (api *API) CheckHandler(c *gin.Context) {
	var req CheckRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result, err := api.engine.Check(c.Request.Context(), req.Text, req.Rules)
	if err != nil {
		SendEngineError(c, "check", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BatchCheckHandler handles POST /v1/jobs/check
func (api *API) BatchCheckHandler(c *gin.Context) {
	var req BatchCheckRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.CheckBatchAsync(req.Texts, req.Rules)
	if err != nil {
		SendEngineError(c, "batch check", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Batch check started",
		"job_id":  jobID,
	})
}
