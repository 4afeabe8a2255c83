package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutridiet/backend/internal/service"
	"github.com/nutridiet/backend/internal/types"
)

// RefusalMessage is returned without calling the completion API when a
// message has no nutrition keyword and no image attached. The gate is a
// cost guard, not a correctness guard.
const RefusalMessage = "Only nutrition-related questions are allowed."

// nutritionKeywords is the flat allow-list scanned case-insensitively
// against the incoming message.
var nutritionKeywords = []string{
	"calorie", "calories", "protein", "carbohydrate", "fat", "vitamin", "nutrition",
	"meal", "food", "diet", "health", "bmr", "tdee", "weight", "lose weight",
	"gain weight", "nutrient", "sugar", "cholesterol", "fiber", "macronutrient",
	"micronutrient", "water", "balanced diet", "metabolism", "vegetarian",
	"allergy", "recipe", "intake", "dietary", "nutritionist", "dietitian",
}

func isNutritionRelated(message string) bool {
	lowered := strings.ToLower(message)
	for _, keyword := range nutritionKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

const assistantSystemPrompt = `You are a professional AI nutrition assistant in the NutriDiet application.
Your main goal is to respond to nutrition-related user questions and analyze food images.
Only answer questions straight to the point with accurate information.

If the user sends a food image, analyze its contents and respond with this format:

Food Name:
Calories:
Carbohydrates:
Protein:
Fat:

Then give the total nutrition information:
Total Calories:
Total Carbohydrates:
Total Protein:
Total Fat:

Summary:
(Provide a brief summary of the food, how is the food for user health.
Is it a suitable meal? Is it good for health or any recommendations for improvement.)

If the user provides multiple foods, list each one in the same structured format. Then list a total nutrition information.
Avoid adding unrelated text or explanations. Do not put many structure format like bold, ### or other, just follow my format above to show in clear way for user easy to read.`

// maxAssistantTokens bounds the completion output length per request.
const maxAssistantTokens = 1000

// ChatHandler handles nutrition assistant requests
type ChatHandler struct {
	llm service.ICompletionService
}

func NewChatHandler(llm service.ICompletionService) *ChatHandler {
	return &ChatHandler{llm: llm}
}

// RegisterRoutes registers the assistant routes
func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	assistant := router.Group("/assistant")
	{
		assistant.POST("/chat", h.Chat)
	}
}

// Chat validates topical relevance, forwards the conversation to the
// completion API and returns the assistant text.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isNutritionRelated(req.Message) && req.ImageBase64 == "" {
		c.JSON(http.StatusOK, types.ChatResponse{Assistant: RefusalMessage})
		return
	}

	messages := make([]service.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, service.ChatMessage{Role: "system", Content: assistantSystemPrompt})
	for _, turn := range req.History {
		messages = append(messages, service.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	var userContent []service.ContentPart
	if req.Message != "" {
		userContent = append(userContent, service.TextPart(req.Message))
	}
	if req.ImageBase64 != "" {
		userContent = append(userContent, service.ImagePart(req.ImageBase64))
	}
	messages = append(messages, service.ChatMessage{Role: "user", Content: userContent})

	assistantText, err := h.llm.Complete(c.Request.Context(), service.CompletionRequest{
		Messages:  messages,
		MaxTokens: maxAssistantTokens,
	})
	if err != nil {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			c.Data(upstream.StatusCode, "application/json", upstream.Body)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.ChatResponse{Assistant: assistantText})
}
