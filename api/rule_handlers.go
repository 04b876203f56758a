package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-grammar-checker/model"
)

// RuleResponse represents the JSON response for single rule operations
type RuleResponse struct {
	Status  string         `json:"status"`
	Rule    model.RuleInfo `json:"rule"`
	Message string         `json:"message,omitempty"`
}

// RuleListResponse represents the JSON response for listing rules
type RuleListResponse struct {
	Status string           `json:"status"`
	Rules  []model.RuleInfo `json:"rules"`
	Count  int              `json:"count"`
}

// ListRulesHandler handles GET /v1/rules
func (api *API) ListRulesHandler(c *gin.Context) {
	rules := api.engine.ListRules()
	c.JSON(http.StatusOK, RuleListResponse{
		Status: "success",
		Rules:  rules,
		Count:  len(rules),
	})
}

// GetRuleHandler handles GET /v1/rules/:ruleId
func (api *API) GetRuleHandler(c *gin.Context) {
	rule, err := api.engine.GetRule(c.Param("ruleId"))
	if err != nil {
		SendEngineError(c, "get rule", err)
		return
	}

	c.JSON(http.StatusOK, RuleResponse{Status: "success", Rule: rule})
}

// UpdateRuleHandler handles PATCH /v1/rules/:ruleId
func (api *API) UpdateRuleHandler(c *gin.Context) {
	var req RuleUpdateRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	rule, err := api.engine.SetRuleEnabled(c.Param("ruleId"), *req.Enabled)
	if err != nil {
		SendEngineError(c, "update rule", err)
		return
	}

	message := "Rule disabled"
	if rule.Enabled {
		message = "Rule enabled"
	}
	c.JSON(http.StatusOK, RuleResponse{Status: "success", Rule: rule, Message: message})
}
