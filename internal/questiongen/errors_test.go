package questiongen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abhisek/codetrainer/internal/llm"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		want string
	}{
		{"401", &StatusError{Code: 401, Message: "bad key"}, KindUnauthorized, "Invalid API key configuration. Please contact support."},
		{"429", &StatusError{Code: 429}, KindRateLimited, "Rate limit exceeded. Please try again later."},
		{"402", &StatusError{Code: 402}, KindUnavailable, "Service temporarily unavailable. Please try again later."},
		{"503", &StatusError{Code: 503}, KindUnavailable, "Service temporarily unavailable. Please try again later."},
		{"500 with text", &StatusError{Code: 500, Message: "LLM provider not configured"}, KindServer, "LLM provider not configured"},
		{"500 bare", &StatusError{Code: 500}, KindServer, "Server error: 500. Please try again."},
		{"wrapped status", fmt.Errorf("question 1: %w", &StatusError{Code: 429}), KindRateLimited, "Rate limit exceeded. Please try again later."},
		{"llm unauthorized", &llm.ErrUnauthorized{Err: errors.New("401")}, KindUnauthorized, "Invalid API key configuration. Please contact support."},
		{"llm quota", &llm.ErrQuotaExceeded{Err: errors.New("402")}, KindUnavailable, "Service temporarily unavailable. Please try again later."},
		{"llm unavailable", &llm.ErrProviderUnavailable{}, KindUnavailable, "Service temporarily unavailable. Please try again later."},
		{"plain", errors.New("connection refused"), KindServer, "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf = %v, want %v", got, tt.kind)
			}
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}

	if UserMessage(nil) != "" {
		t.Error("UserMessage(nil) should be empty")
	}
}
