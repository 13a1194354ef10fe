// Package report turns a validated model into the human-readable
// artifacts: the pinned tokenization examples and the descriptive README.
// These files are the contract consumed by the demo UI and the publisher.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"telugu-tokenizer/pkg/metrics"
	"telugu-tokenizer/pkg/tokenizer"
	"telugu-tokenizer/pkg/training"
)

const (
	// ExamplesFileName holds the encoded example array.
	ExamplesFileName = "examples.json"

	// ReadmeFileName is the descriptive report.
	ReadmeFileName = "README.md"
)

// ExampleSentences is the version-pinned sample set: short phrases through
// multi-sentence paragraphs spanning the Telugu script. Do not reorder or
// edit existing entries; downstream consumers key on them.
var ExampleSentences = []string{
	"నమస్కారం",
	"తెలుగు భాష చాలా అందమైనది",
	"భారతదేశం నా దేశం",
	"తెలుగు భారతదేశంలోని ద్రావిడ భాషల్లో ఒకటి. ఆంధ్రప్రదేశ్, తెలంగాణ రాష్ట్రాల అధికార భాష.",
	"సూర్యుడు తూర్పున ఉదయిస్తాడు. పక్షులు గూళ్ళకు చేరుకుంటాయి. రైతులు పొలాలకు వెళతారు. ఇది ప్రతిరోజూ జరిగే విషయం.",
}

// Example is one encoded sample: the text, its tokens and IDs, and the
// per-example compression ratio.
type Example struct {
	Text             string   `json:"text"`
	Tokens           []string `json:"tokens"`
	IDs              []int    `json:"ids"`
	CompressionRatio float64  `json:"compression_ratio"`
}

// BuildExamples encodes the pinned sentences with the trained model.
func BuildExamples(model tokenizer.Model) []Example {
	examples := make([]Example, 0, len(ExampleSentences))
	for _, text := range ExampleSentences {
		enc := model.Encode(text)
		ratio := 0.0
		if len(enc.IDs) > 0 {
			ratio = float64(len([]rune(text))) / float64(len(enc.IDs))
		}
		examples = append(examples, Example{
			Text:             text,
			Tokens:           enc.Tokens,
			IDs:              enc.IDs,
			CompressionRatio: ratio,
		})
	}
	return examples
}

// WriteExamples writes the example artifact into dir.
func WriteExamples(dir string, examples []Example) error {
	f, err := os.Create(filepath.Join(dir, ExamplesFileName))
	if err != nil {
		return fmt.Errorf("create examples file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(examples); err != nil {
		return fmt.Errorf("encode examples: %w", err)
	}
	return nil
}

// WriteReadme writes the descriptive report combining the training config,
// the validated outcome, and the advisory metrics.
func WriteReadme(dir string, cfg tokenizer.Config, outcome training.Outcome, stats metrics.Report) error {
	content := fmt.Sprintf(`# Telugu BPE Tokenizer

A byte-pair-encoding tokenizer trained on Telugu text collected from
Wikipedia and Telugu news sites.

## Statistics

- Vocabulary size: %d tokens (requested %d)
- Compression ratio: %.2f chars/token
- Mean token length: %.2f chars (median %.2f)
- Mean chunk compression: %.2f (median %.2f)
- Word coverage: %.4f
- Validation sample: %d chunks

## Training configuration

- Model: %s
- Minimum pair frequency: %d
- Special tokens: %v

## Files

- `+"`tokenizer.json`"+` — the serialized model
- `+"`examples.json`"+` — pinned tokenization examples
`,
		outcome.VocabSize, cfg.VocabSize,
		outcome.CompressionRatio,
		stats.MeanTokenLength, stats.MedianTokenLength,
		stats.MeanCompression, stats.MedianCompression,
		stats.WordCoverage,
		stats.SampleChunks,
		cfg.ModelType, cfg.MinFrequency, cfg.SpecialTokens)

	if err := os.WriteFile(filepath.Join(dir, ReadmeFileName), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Generate writes both artifacts into dir.
func Generate(dir string, model tokenizer.Model, cfg tokenizer.Config, outcome training.Outcome, stats metrics.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	if err := WriteExamples(dir, BuildExamples(model)); err != nil {
		return err
	}
	return WriteReadme(dir, cfg, outcome, stats)
}
