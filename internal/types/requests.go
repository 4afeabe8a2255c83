package types

// ChatTurn is one prior message of the conversation, supplied by the client.
// Turns are not persisted; they exist only for the duration of one request.
type ChatTurn struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatRequest is the nutrition assistant request body. Message and
// ImageBase64 are individually optional but at least one must carry content
// for the request to reach the completion API.
type ChatRequest struct {
	Message     string     `json:"message"`
	ImageBase64 string     `json:"imageBase64"`
	History     []ChatTurn `json:"history" binding:"dive"`
}

// ChatResponse carries the assistant's reply text.
type ChatResponse struct {
	Assistant string `json:"assistant"`
}

// DietPlanRequest is the diet-plan generation request body.
type DietPlanRequest struct {
	RecommendedCalories float64  `json:"recommended_calories" binding:"required,gt=0"`
	SpecialConditions   []string `json:"special_conditions"`
	Allergies           string   `json:"allergies"`
}

// RequestOTPRequest asks for a password-reset code to be issued for an email.
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest submits an OTP together with the new credential.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}
