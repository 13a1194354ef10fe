package metrics

import (
	"strings"
	"testing"

	"telugu-tokenizer/pkg/tokenizer"
)

// fixedModel emits the same token sequence for every chunk.
type fixedModel struct {
	tokens []string
}

func (m *fixedModel) VocabSize() int { return len(m.tokens) }

func (m *fixedModel) Encode(string) tokenizer.Encoding {
	ids := make([]int, len(m.tokens))
	for i := range ids {
		ids[i] = i
	}
	return tokenizer.Encoding{Tokens: append([]string(nil), m.tokens...), IDs: ids}
}

func TestAnalyzeTokenLengths(t *testing.T) {
	// Token lengths 1, 2, 3 runes: mean 2, median 2.
	model := &fixedModel{tokens: []string{"అ", "అఆ", "అఆఇ"}}
	report := Analyze(model, []string{"అఆఇ అఆఇ"})

	if report.MeanTokenLength != 2.0 {
		t.Errorf("MeanTokenLength = %f, want 2.0", report.MeanTokenLength)
	}
	if report.MedianTokenLength != 2.0 {
		t.Errorf("MedianTokenLength = %f, want 2.0", report.MedianTokenLength)
	}
	if report.SampleChunks != 1 {
		t.Errorf("SampleChunks = %d, want 1", report.SampleChunks)
	}
}

func TestAnalyzeCompression(t *testing.T) {
	// Two tokens per chunk; chunks of 8 and 12 runes give per-chunk
	// ratios 4.0 and 6.0: mean 5.0, median 5.0.
	model := &fixedModel{tokens: []string{"t", "t"}}
	report := Analyze(model, []string{
		strings.Repeat("అ", 8),
		strings.Repeat("ఆ", 12),
	})

	if report.MeanCompression != 5.0 {
		t.Errorf("MeanCompression = %f, want 5.0", report.MeanCompression)
	}
	if report.MedianCompression != 5.0 {
		t.Errorf("MedianCompression = %f, want 5.0", report.MedianCompression)
	}
}

func TestAnalyzeWordCoverage(t *testing.T) {
	model := &fixedModel{tokens: []string{"t"}}
	// Six word occurrences, three unique: coverage 0.5.
	report := Analyze(model, []string{"నా భాష నా", "భాష నా దేశం"})

	if report.WordCoverage != 0.5 {
		t.Errorf("WordCoverage = %f, want 0.5", report.WordCoverage)
	}
}

func TestAnalyzeEmptySample(t *testing.T) {
	model := &fixedModel{tokens: []string{"t"}}
	report := Analyze(model, nil)

	if report.SampleChunks != 0 {
		t.Errorf("SampleChunks = %d, want 0", report.SampleChunks)
	}
	if report.WordCoverage != 0 {
		t.Errorf("WordCoverage = %f, want 0", report.WordCoverage)
	}
}
