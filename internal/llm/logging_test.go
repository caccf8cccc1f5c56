package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/abhisek/codetrainer/internal/store"
)

type recordedEvents struct {
	store.EventRepo
	got []store.LLMRequestEventData
	err error
}

func (r *recordedEvents) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	r.got = append(r.got, d)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	ev := &recordedEvents{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"ok":1}`),
		Usage:   Usage{InputTokens: 10, OutputTokens: 4, TotalTokens: 14},
	})
	p := WithLogging(mock, ProviderOpenAI, ev, zaptest.NewLogger(t))

	ctx := WithPurpose(context.Background(), "question")
	_, err := p.Generate(ctx, Request{System: "be brief", Messages: []Message{{Role: RoleUser, Content: "topic: Go"}}})
	if err != nil {
		t.Fatal(err)
	}

	if len(ev.got) != 1 {
		t.Fatalf("recorded %d events, want 1", len(ev.got))
	}
	got := ev.got[0]
	if got.Provider != ProviderOpenAI || got.Purpose != "question" || !got.Success {
		t.Errorf("event = %+v", got)
	}
	if got.InputTokens != 10 || got.OutputTokens != 4 {
		t.Errorf("tokens = %d/%d", got.InputTokens, got.OutputTokens)
	}
	if !strings.Contains(got.RequestBody, "[system]\nbe brief") || !strings.Contains(got.RequestBody, "topic: Go") {
		t.Errorf("request body = %q", got.RequestBody)
	}
	if got.ResponseBody != `{"ok":1}` {
		t.Errorf("response body = %q", got.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailureAndIgnoresSinkError(t *testing.T) {
	ev := &recordedEvents{err: errors.New("disk full")}
	boom := &ErrRateLimit{Err: errors.New("429")}
	p := WithLogging(NewMockProvider(MockResponse{Err: boom}), ProviderAnthropic, ev, zaptest.NewLogger(t))

	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the provider error", err)
	}
	if len(ev.got) != 1 || ev.got[0].Success || ev.got[0].ErrorMessage == "" {
		t.Errorf("events = %+v", ev.got)
	}
	if PurposeFrom(context.Background()) != "unknown" {
		t.Error("default purpose should be unknown")
	}
}

func TestPriceOf(t *testing.T) {
	p, ok := PriceOf("openai/gpt-4o-mini")
	if !ok {
		t.Fatal("routed id should resolve by its last segment")
	}
	if got := p.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("cost = %v, want 0.75", got)
	}
	if _, ok := PriceOf("made-up"); ok {
		t.Error("unknown model should not have a price")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("default config has no key and should not validate")
	}
	cfg.OpenAI.APIKey = "sk"
	if !cfg.Configured() {
		t.Error("config with key should validate")
	}
	cfg.Provider = "bard"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown provider should not validate")
	}
	if err := (Config{Provider: ProviderMock}).Validate(); err != nil {
		t.Errorf("mock needs no key: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("ANTHROPIC_API_KEY", "a")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "a" {
		t.Errorf("got %+v, %v; want anthropic first", cfg.Provider, ok)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}
	if _, err := NewProvider(context.Background(), Config{}, nil, nil); err == nil {
		t.Error("empty config should fail")
	}
}
