package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/nutridiet/backend/config"
)

// NoModelResponse is returned when the completion API answers successfully
// but no assistant text can be extracted from either response shape.
const NoModelResponse = "No response from model."

// LLMService talks to the OpenAI-compatible chat completions endpoint.
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg config.LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY must be set")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = "https://api.openai.com/v1/chat/completions"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &LLMService{
		apiKey: cfg.APIKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{},
	}, nil
}

// ChatMessage is a message in the completion request. Content is either a
// plain string or a []ContentPart for multimodal user turns.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart builds an image content part from a base64 JPEG payload.
func ImagePart(imageBase64 string) ContentPart {
	return ContentPart{
		Type:     "image_url",
		ImageURL: &ImageURL{URL: "data:image/jpeg;base64," + imageBase64},
	}
}

// CompletionRequest is the body sent to the completion API.
type CompletionRequest struct {
	Model            string            `json:"model"`
	Messages         []ChatMessage     `json:"messages"`
	MaxTokens        int               `json:"max_tokens,omitempty"`
	ResponseFormat   map[string]string `json:"response_format,omitempty"`
	Temperature      float64           `json:"temperature,omitempty"`
	TopP             float64           `json:"top_p,omitempty"`
	FrequencyPenalty float64           `json:"frequency_penalty,omitempty"`
	PresencePenalty  float64           `json:"presence_penalty,omitempty"`
}

// UpstreamError carries a non-success completion API response so handlers
// can pass the provider's status and payload through unchanged.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion API request failed with status %d: %s", e.StatusCode, string(e.Body))
}

// Complete sends the request and extracts the assistant text from the first
// choice, trying choices[0].message.content first and choices[0].text as a
// fallback shape.
func (s *LLMService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Model == "" {
		req.Model = s.model
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return NoModelResponse, nil
	}
	if content := result.Choices[0].Message.Content; content != "" {
		return content, nil
	}
	if text := result.Choices[0].Text; text != "" {
		return text, nil
	}
	return NoModelResponse, nil
}

const dietPlanSystemPrompt = "You are a strict professional nutritionist. You MUST follow all dietary restrictions without exception. " +
	"Never suggest foods that violate the user's dietary conditions. If someone is vegetarian or vegan, absolutely NO animal products in those categories. " +
	"Respond ONLY in valid JSON format."

// GenerateDietPlan asks the model for a one-day plan honoring the dietary
// restrictions and returns the raw JSON text of the first choice. The caller
// parses it; a fresh random seed is embedded per request to nudge output
// diversity across otherwise identical requests.
func (s *LLMService) GenerateDietPlan(ctx context.Context, recommendedCalories float64, specialConditions []string, allergies string) (string, error) {
	prompt := buildDietPlanPrompt(recommendedCalories, specialConditions, allergies, rand.IntN(1000000))

	req := CompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: dietPlanSystemPrompt},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		// Higher temperature and penalties so repeated requests get varied
		// meals instead of the same template plan.
		Temperature:      0.9,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	}

	return s.Complete(ctx, req)
}

func buildDietPlanPrompt(recommendedCalories float64, specialConditions []string, allergies string, seed int) string {
	var restrictions string
	if len(specialConditions) > 0 {
		var b strings.Builder
		for i, cond := range specialConditions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, cond)
		}
		restrictions = strings.TrimRight(b.String(), "\n")
	} else {
		restrictions = "None"
	}

	var allergyClause string
	if allergies != "" && allergies != "none" {
		allergyClause = fmt.Sprintf("ALLERGIES TO AVOID (ABSOLUTELY NO): %s\n\n", allergies)
	}

	low := recommendedCalories * 0.85
	high := recommendedCalories * 1.15

	return fmt.Sprintf(`You are a professional nutritionist. Create a diet plan that STRICTLY follows these requirements:

CRITICAL DIETARY RESTRICTIONS (MUST BE FOLLOWED):
%s

%sIMPORTANT RULES:
- If "Vegetarian" is selected: NO meat, NO poultry, NO fish, NO seafood
- If "Vegan" is selected: NO animal products at all (no meat, fish, dairy, eggs, honey)
- If "Diabetes" is selected: Meat is available. Low glycemic index foods, no added sugars, complex carbs only
- If "Halal" is selected: Meat is available. But only halal-certified foods, no pork, no alcohol
- If "High Blood Pressure" is selected: Meat is available. Low sodium, no processed foods
- If "High Cholesterol" is selected: Meat is available. Make sure diet is low saturated fat
- If no restriction is listed: provide a normal balanced diet with variety of foods including meat, fish, vegetables, grains

Target Daily Calories: around %.0f kcal. The plan's total may land anywhere between %.0f and %.0f kcal; do NOT force an exact match.

Compute daily_calories, carbs, protein and fat from the specific foods and portions you choose, not from fixed templates.
Vary protein sources and dish selection between requests; avoid repeating the same meals.
Variation seed: %d (no meaning, ignore its value).

Provide a JSON response with this EXACT structure:
{
  "daily_calories": <number in kcal>,
  "carbs": <number in grams>,
  "protein": <number in grams>,
  "fat": <number in grams>,
  "breakfast": "<meal description with specific foods and portions>",
  "lunch": "<meal description with specific foods and portions>",
  "dinner": "<meal description with specific foods and portions>",
  "summary": "<2-3 sentence summary explaining how this plan meets the dietary restrictions>"
}

VERIFY: Before responding, double-check that ALL meals comply with EVERY dietary restriction listed above.
Return ONLY valid JSON, no markdown, no additional text.`, restrictions, allergyClause, recommendedCalories, low, high, seed)
}
