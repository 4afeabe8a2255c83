package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutridiet/backend/internal/service"
	"github.com/nutridiet/backend/internal/types"
)

// noRestrictionLabel is a sentinel the mobile client sends when the user
// explicitly picks "no restrictions"; it must not reach the prompt as a
// literal condition.
const noRestrictionLabel = "No Any"

// DietPlanHandler handles diet-plan generation requests
type DietPlanHandler struct {
	llm service.ICompletionService
}

func NewDietPlanHandler(llm service.ICompletionService) *DietPlanHandler {
	return &DietPlanHandler{llm: llm}
}

// RegisterRoutes registers the diet-plan routes
func (h *DietPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	diet := router.Group("/diet")
	{
		diet.POST("/plan", h.GeneratePlan)
	}
}

// normalizeConditions drops the "No Any" sentinel: its presence means no
// restrictions at all, regardless of what else the set contains.
func normalizeConditions(conditions []string) []string {
	for _, cond := range conditions {
		if cond == noRestrictionLabel {
			return nil
		}
	}
	return conditions
}

// GeneratePlan validates the calorie target, asks the model for a
// strict-JSON plan and returns the parsed object as-is.
func (h *DietPlanHandler) GeneratePlan(c *gin.Context) {
	var req types.DietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: recommended_calories"})
		return
	}

	conditions := normalizeConditions(req.SpecialConditions)

	content, err := h.llm.GenerateDietPlan(c.Request.Context(), req.RecommendedCalories, conditions, req.Allergies)
	if err != nil {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			c.Data(upstream.StatusCode, "application/json", upstream.Body)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var plan map[string]any
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		// No retry: degrade to a literal error payload the client knows.
		c.JSON(http.StatusOK, gin.H{"error": "Invalid response from model"})
		return
	}

	c.JSON(http.StatusOK, plan)
}
