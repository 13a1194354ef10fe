// Package tokenizer defines the contract with the subword-modeling engine.
// The pipeline never reimplements subword internals; it trains through the
// Engine interface and validates what comes back.
package tokenizer

import "context"

// Config is the training request handed to an Engine.
type Config struct {
	// VocabSize is the requested vocabulary size. Training with fewer
	// than 5000 is rejected before the engine is ever invoked.
	VocabSize int

	// MinFrequency is the minimum pair frequency for a merge to be
	// learned.
	MinFrequency int

	// SpecialTokens are reserved tokens placed at the start of the
	// vocabulary.
	SpecialTokens []string

	// ModelType names the subword algorithm variant (e.g. "bpe").
	ModelType string
}

// DefaultConfig mirrors the production training run.
func DefaultConfig() Config {
	return Config{
		VocabSize:     5000,
		MinFrequency:  2,
		SpecialTokens: []string{"<s>", "</s>", "<unk>", "<pad>"},
		ModelType:     "bpe",
	}
}

// Encoding is the result of tokenizing one text.
type Encoding struct {
	Tokens []string `json:"tokens"`
	IDs    []int    `json:"ids"`
}

// Model is an opaque trained model, queryable for its vocabulary size and
// able to encode arbitrary text.
type Model interface {
	Encode(text string) Encoding
	VocabSize() int
}

// Engine trains a Model from a corpus. Training is a single blocking step;
// ctx is consulted between internal iterations, and an operator interrupt
// is the only way to abort it.
type Engine interface {
	Train(ctx context.Context, texts []string, cfg Config) (Model, error)
}
