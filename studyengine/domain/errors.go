package domain

import (
	"fmt"
	"strings"
)

// RateLimitReason sub-clasifica un error 429 según el mensaje upstream.
type RateLimitReason string

const (
	RateLimitTokenRate RateLimitReason = "token_rate"
	RateLimitQuota     RateLimitReason = "quota"
	RateLimitGeneric   RateLimitReason = "generic"
)

// AuthenticationError indica credenciales inválidas o expiradas (401).
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: API key may be invalid or expired"
}

// RateLimitError indica throttling del proveedor (429).
type RateLimitError struct {
	Reason  RateLimitReason
	Message string
}

func (e *RateLimitError) Error() string {
	switch e.Reason {
	case RateLimitTokenRate:
		return "rate limit exceeded: wait a moment and retry with shorter content"
	case RateLimitQuota:
		return "API quota exceeded: check billing and usage limits"
	default:
		return "rate limit exceeded: try again in a moment"
	}
}

// ContextLengthError indica que la petición superó el contexto máximo del modelo.
type ContextLengthError struct {
	Message string
}

func (e *ContextLengthError) Error() string {
	return "content too long: retry with shorter text or fewer files"
}

// MalformedResponseError indica una respuesta sin los campos esperados.
type MalformedResponseError struct {
	Detail string
}

func (e *MalformedResponseError) Error() string {
	if e.Detail == "" {
		return "invalid response format from completion API"
	}
	return fmt.Sprintf("invalid response format from completion API: %s", e.Detail)
}

// UnknownAPIError es el fallback para cualquier otro fallo upstream.
// Conserva status y mensaje originales para diagnóstico.
type UnknownAPIError struct {
	Status  int
	Message string
}

func (e *UnknownAPIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("completion API error (status %d)", e.Status)
	}
	return fmt.Sprintf("completion API error (status %d): %s", e.Status, e.Message)
}

// ClassifyAPIError maps an upstream status code and error message to the
// typed taxonomy. Raw upstream errors are never propagated to callers.
func ClassifyAPIError(status int, message string) error {
	lower := strings.ToLower(message)
	switch {
	case status == 401:
		return &AuthenticationError{Message: message}
	case status == 429:
		reason := RateLimitGeneric
		if strings.Contains(lower, "tokens per min") {
			reason = RateLimitTokenRate
		} else if strings.Contains(lower, "quota") {
			reason = RateLimitQuota
		}
		return &RateLimitError{Reason: reason, Message: message}
	case status == 400 && strings.Contains(lower, "maximum context length"):
		return &ContextLengthError{Message: message}
	default:
		return &UnknownAPIError{Status: status, Message: message}
	}
}
