// Package training drives the tokenizer engine and enforces the corpus
// quality floors. A model that misses a floor is rejected, never returned.
package training

import (
	"context"

	log "github.com/sirupsen/logrus"

	"telugu-tokenizer/pkg/tokenizer"
)

const (
	// VocabFloor is the minimum acceptable vocabulary size, both for the
	// requested configuration and for the trained model.
	VocabFloor = 5000

	// CompressionFloor is the minimum chars-per-token compression ratio
	// the trained model must reach over the validation sample.
	CompressionFloor = 3.0

	// ValidationSampleChunks bounds how many corpus chunks the
	// compression check encodes.
	ValidationSampleChunks = 1000

	vocabFloorName       = "vocabulary size"
	compressionFloorName = "compression ratio"
)

// Violation is one unmet floor with its actual and required values.
type Violation struct {
	Floor    string
	Actual   float64
	Required float64
}

// Outcome is the structured result of validating a trained model. It is
// computed once; callers decide whether to raise or merely report it.
type Outcome struct {
	Passed           bool
	Violations       []Violation
	VocabSize        int
	CompressionRatio float64
}

// CheckConfig rejects a training configuration whose requested vocabulary
// is below the floor. This is a configuration-time check: it runs before
// the engine is ever invoked.
func CheckConfig(cfg tokenizer.Config) error {
	if cfg.VocabSize < VocabFloor {
		return &ConfigError{Requested: cfg.VocabSize, Floor: VocabFloor}
	}
	return nil
}

// TrainAndValidate trains a model on the corpus and returns it only if
// every floor holds. A requested vocabulary below the floor fails fast
// with *ConfigError and never invokes the engine; post-training floor
// misses fail with *ValidationError listing all violations.
func TrainAndValidate(ctx context.Context, engine tokenizer.Engine, texts []string, cfg tokenizer.Config) (tokenizer.Model, Outcome, error) {
	if err := CheckConfig(cfg); err != nil {
		return nil, Outcome{}, err
	}

	log.Infof("training tokenizer: vocab=%d min_frequency=%d model=%s on %d chunks",
		cfg.VocabSize, cfg.MinFrequency, cfg.ModelType, len(texts))

	model, err := engine.Train(ctx, texts, cfg)
	if err != nil {
		return nil, Outcome{}, err
	}

	outcome := Validate(model, texts)
	if !outcome.Passed {
		return nil, outcome, &ValidationError{Outcome: outcome}
	}

	log.Infof("training passed validation: vocab=%d compression=%.2f", outcome.VocabSize, outcome.CompressionRatio)
	return model, outcome, nil
}

// Validate recomputes every floor metric once and returns the structured
// outcome. The trained vocabulary can legitimately come out smaller than
// requested, so the size is re-checked here against the floor.
func Validate(model tokenizer.Model, texts []string) Outcome {
	outcome := Outcome{
		VocabSize:        model.VocabSize(),
		CompressionRatio: CompressionRatio(model, sample(texts)),
	}

	if outcome.VocabSize < VocabFloor {
		outcome.Violations = append(outcome.Violations, Violation{
			Floor:    vocabFloorName,
			Actual:   float64(outcome.VocabSize),
			Required: VocabFloor,
		})
	}
	if outcome.CompressionRatio < CompressionFloor {
		outcome.Violations = append(outcome.Violations, Violation{
			Floor:    compressionFloorName,
			Actual:   outcome.CompressionRatio,
			Required: CompressionFloor,
		})
	}

	outcome.Passed = len(outcome.Violations) == 0
	return outcome
}

// CompressionRatio is total source characters divided by total emitted
// tokens across the texts. Characters are runes, not bytes; Telugu
// codepoints are three bytes each in UTF-8.
func CompressionRatio(model tokenizer.Model, texts []string) float64 {
	totalChars, totalTokens := 0, 0
	for _, text := range texts {
		totalChars += len([]rune(text))
		totalTokens += len(model.Encode(text).IDs)
	}
	if totalTokens == 0 {
		return 0
	}
	return float64(totalChars) / float64(totalTokens)
}

// sample bounds the validation corpus to the first ValidationSampleChunks
// chunks.
func sample(texts []string) []string {
	if len(texts) > ValidationSampleChunks {
		return texts[:ValidationSampleChunks]
	}
	return texts
}
