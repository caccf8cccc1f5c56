package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/codetrainer/internal/llm"
	"github.com/abhisek/codetrainer/internal/quiz"
)

// LLMGenerator implements Provider by prompting a language model directly.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	shuffle  func(n int, swap func(i, j int))
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg, shuffle: rand.Shuffle}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	Prompt        string   `json:"prompt"`
	CodeSnippet   string   `json:"code_snippet"`
	CorrectAnswer string   `json:"correct_answer"`
	WrongAnswers  []string `json:"wrong_answers"`
	Explanation   string   `json:"explanation"`
}

// Generate produces the question at req.QuestionIndex.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*quiz.Question, error) {
	purpose := "question"
	if req.FollowUp() {
		purpose = "follow_up"
	}
	ctx = llm.WithPurpose(ctx, purpose)

	var verr *ValidationError
	for attempt := 0; attempt < g.config.MaxAttempts; attempt++ {
		q, err := g.generateOnce(ctx, req)
		if err == nil {
			return q, nil
		}
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
	}
	return nil, verr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, req Request) (*quiz.Question, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPromptFor(req),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, g.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	q := &quiz.Question{
		ID:          req.QuestionIndex + 1,
		Prompt:      raw.Prompt,
		CodeSnippet: raw.CodeSnippet,
		Options:     g.buildOptions(raw.CorrectAnswer, raw.WrongAnswers),
		Explanation: raw.Explanation,
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, req); verr != nil {
			return nil, verr
		}
	}
	return q, nil
}

// buildOptions puts the correct answer with the wrong ones and shuffles.
func (g *LLMGenerator) buildOptions(correct string, wrong []string) []quiz.Option {
	opts := make([]quiz.Option, 0, len(wrong)+1)
	opts = append(opts, quiz.NewOption(correct, true))
	for _, w := range wrong {
		opts = append(opts, quiz.NewOption(w, false))
	}
	g.shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}
