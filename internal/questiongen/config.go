package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure stops the pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many earlier questions go into the prompt.
	MaxPriorQuestions int

	// MaxAttempts is how many times a question that fails a retryable
	// validator is regenerated before giving up.
	MaxAttempts int
}

// DefaultConfig returns the standard validator chain and defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&BlankValidator{},
			&OptionsValidator{},
			&DedupValidator{},
		},
		MaxTokens:         1024,
		Temperature:       0.7,
		MaxPriorQuestions: 10,
		MaxAttempts:       2,
	}
}
