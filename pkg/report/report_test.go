package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"telugu-tokenizer/pkg/metrics"
	"telugu-tokenizer/pkg/tokenizer"
	"telugu-tokenizer/pkg/training"
)

// charModel emits one single-character token per rune.
type charModel struct{}

func (charModel) VocabSize() int { return 6000 }

func (charModel) Encode(text string) tokenizer.Encoding {
	enc := tokenizer.Encoding{}
	for i, r := range []rune(text) {
		enc.Tokens = append(enc.Tokens, string(r))
		enc.IDs = append(enc.IDs, i)
	}
	return enc
}

func TestBuildExamples(t *testing.T) {
	examples := BuildExamples(charModel{})

	if len(examples) != len(ExampleSentences) {
		t.Fatalf("built %d examples, want %d", len(examples), len(ExampleSentences))
	}
	for i, ex := range examples {
		if ex.Text != ExampleSentences[i] {
			t.Errorf("example %d text = %q, want the pinned sentence in order", i, ex.Text)
		}
		if len(ex.Tokens) != len(ex.IDs) {
			t.Errorf("example %d has %d tokens but %d ids", i, len(ex.Tokens), len(ex.IDs))
		}
		// One token per rune means a ratio of exactly 1.0.
		if ex.CompressionRatio != 1.0 {
			t.Errorf("example %d ratio = %f, want 1.0", i, ex.CompressionRatio)
		}
	}
}

func TestGenerateWritesArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "model")
	cfg := tokenizer.DefaultConfig()
	outcome := training.Outcome{Passed: true, VocabSize: 6000, CompressionRatio: 4.2}
	stats := metrics.Report{MeanTokenLength: 2.5, SampleChunks: 10}

	if err := Generate(dir, charModel{}, cfg, outcome, stats); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, ExamplesFileName))
	if err != nil {
		t.Fatalf("read examples: %v", err)
	}
	var examples []Example
	if err := json.Unmarshal(raw, &examples); err != nil {
		t.Fatalf("decode examples: %v", err)
	}
	if len(examples) != len(ExampleSentences) {
		t.Errorf("examples file holds %d entries, want %d", len(examples), len(ExampleSentences))
	}
	if !strings.Contains(string(raw), "నమస్కారం") {
		t.Error("examples file does not contain Telugu verbatim")
	}

	readme, err := os.ReadFile(filepath.Join(dir, ReadmeFileName))
	if err != nil {
		t.Fatalf("read README: %v", err)
	}
	for _, want := range []string{"6000", "4.20", "bpe", "tokenizer.json", "examples.json"} {
		if !strings.Contains(string(readme), want) {
			t.Errorf("README missing %q", want)
		}
	}
}

func TestWriteExamplesUnwritableDir(t *testing.T) {
	err := WriteExamples(filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
