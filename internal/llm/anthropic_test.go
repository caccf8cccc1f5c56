package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func anthropicTestProvider(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &AnthropicProvider{
		client: anthropic.NewClient(
			option.WithAPIKey("k"),
			option.WithBaseURL(srv.URL),
			option.WithMaxRetries(0),
		),
		model: defaultAnthropicModel,
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := anthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       defaultAnthropicModel,
			"content":     []map[string]any{{"type": "text", "text": `{"name":"Grace","age":85}`}},
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 30, "output_tokens": 12},
		})
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "sys",
		Messages:  []Message{{Role: RoleUser, Content: "q"}},
		Schema:    testSchema(),
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 42 {
		t.Errorf("total tokens = %d, want 42", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusUnauthorized, func(err error) bool { var e *ErrUnauthorized; return errors.As(err, &e) }},
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusServiceUnavailable, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		p := anthropicTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"x","message":"no"}}`))
		})
		_, err := p.Generate(context.Background(), Request{MaxTokens: 10, Messages: []Message{{Role: RoleUser, Content: "q"}}})
		if err == nil || !tt.check(err) {
			t.Errorf("status %d: got %v", tt.status, err)
		}
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		in, def, want string
		aliases       map[string]string
	}{
		{"", defaultGeminiModel, defaultGeminiModel, geminiAliases},
		{"pro", defaultGeminiModel, "gemini-2.5-pro", geminiAliases},
		{"haiku", defaultAnthropicModel, "claude-haiku-4-5-20251001", anthropicAliases},
		{"gpt-4.1-mini", defaultOpenAIModel, "gpt-4.1-mini", openaiAliases},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, tt.def, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
