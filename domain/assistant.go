package domain

import "errors"

var (
	MessageFailedAssistant = "failed to process AI request"

	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrAssistantUnavailable = errors.New("AI service unavailable")
)

type (
	MenuItem struct {
		Name string `json:"name"`
	}

	// AssistantContext is the structured menu context the front end sends
	// alongside a question. All fields are optional; defaults are applied
	// when building the prompt.
	AssistantContext struct {
		Language   string     `json:"language,omitempty"`
		Items      []MenuItem `json:"items,omitempty"`
		Category   string     `json:"category,omitempty"`
		Restaurant string     `json:"restaurant,omitempty"`
		Date       string     `json:"date,omitempty"`
	}

	AssistantRequest struct {
		Message        string           `json:"message" validate:"required"`
		Context        AssistantContext `json:"context,omitempty"`
		TurnstileToken string           `json:"turnstileToken,omitempty"`
	}

	AssistantResponse struct {
		Response string `json:"response"`
		Fallback bool   `json:"fallback,omitempty"`
	}
)
