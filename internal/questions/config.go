package questions

import "time"

const (
	// BatchSize is the target number of questions per initial sub-batch.
	BatchSize = 5

	// MaxDynamicAttempts bounds follow-up generation attempts.
	MaxDynamicAttempts = 5
)

// Config controls the behavior of the Source.
type Config struct {
	// MaxTokens is the token budget for each LLM response. Zero leaves the
	// provider default.
	MaxTokens int

	// Temperature controls LLM output randomness.
	Temperature float64

	// RetryInterval is the pause between failed follow-up attempts.
	RetryInterval time.Duration

	// MaxPriorQuestions caps how many asked questions are quoted back in
	// the follow-up prompt.
	MaxPriorQuestions int
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         512,
		Temperature:       0.7,
		MaxPriorQuestions: 10,
	}
}
