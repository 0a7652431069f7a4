package domain

import (
	"errors"
	"testing"
)

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		check   func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to authentication",
			status: 401, message: "Incorrect API key provided",
			check: func(t *testing.T, err error) {
				var target *AuthenticationError
				if !errors.As(err, &target) {
					t.Fatalf("expected AuthenticationError, got %T", err)
				}
			},
		},
		{
			name:   "429 token rate",
			status: 429, message: "Rate limit reached: 10000 tokens per min",
			check: func(t *testing.T, err error) {
				var target *RateLimitError
				if !errors.As(err, &target) || target.Reason != RateLimitTokenRate {
					t.Fatalf("expected token-rate RateLimitError, got %v", err)
				}
			},
		},
		{
			name:   "429 quota",
			status: 429, message: "You exceeded your current quota",
			check: func(t *testing.T, err error) {
				var target *RateLimitError
				if !errors.As(err, &target) || target.Reason != RateLimitQuota {
					t.Fatalf("expected quota RateLimitError, got %v", err)
				}
			},
		},
		{
			name:   "429 without known phrase",
			status: 429, message: "Too many requests",
			check: func(t *testing.T, err error) {
				var target *RateLimitError
				if !errors.As(err, &target) || target.Reason != RateLimitGeneric {
					t.Fatalf("expected generic RateLimitError, got %v", err)
				}
			},
		},
		{
			name:   "400 context length",
			status: 400, message: "This model's maximum context length is 8192 tokens",
			check: func(t *testing.T, err error) {
				var target *ContextLengthError
				if !errors.As(err, &target) {
					t.Fatalf("expected ContextLengthError, got %T", err)
				}
			},
		},
		{
			name:   "400 without context phrase falls through",
			status: 400, message: "Invalid request",
			check: func(t *testing.T, err error) {
				var target *UnknownAPIError
				if !errors.As(err, &target) || target.Status != 400 {
					t.Fatalf("expected UnknownAPIError with status, got %v", err)
				}
			},
		},
		{
			name:   "5xx is unknown",
			status: 503, message: "The server is overloaded",
			check: func(t *testing.T, err error) {
				var target *UnknownAPIError
				if !errors.As(err, &target) {
					t.Fatalf("expected UnknownAPIError, got %T", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ClassifyAPIError(tt.status, tt.message))
		})
	}
}

func TestErrorMessagesDoNotLeakUpstreamText(t *testing.T) {
	err := ClassifyAPIError(401, "sk-abc123 is invalid")
	if got := err.Error(); got != "authentication failed: API key may be invalid or expired" {
		t.Fatalf("authentication message should be fixed, got %q", got)
	}
}
