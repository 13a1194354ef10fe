// Package metrics computes descriptive statistics about a trained model
// over a text sample. Everything here is advisory: it populates the
// human-readable report and never gates training success.
package metrics

import (
	"strings"

	"github.com/montanaflynn/stats"

	"telugu-tokenizer/pkg/tokenizer"
)

// Report holds the descriptive statistics for a model/sample pair.
type Report struct {
	MeanTokenLength   float64 `json:"mean_token_length"`
	MedianTokenLength float64 `json:"median_token_length"`
	MeanCompression   float64 `json:"mean_compression_ratio"`
	MedianCompression float64 `json:"median_compression_ratio"`
	WordCoverage      float64 `json:"word_coverage"`
	SampleChunks      int     `json:"sample_chunks"`
}

// Analyze encodes each sample chunk and derives token-length and
// per-chunk compression distributions, plus the word-coverage ratio
// (unique whitespace-delimited words divided by total word occurrences).
func Analyze(model tokenizer.Model, sample []string) Report {
	var tokenLengths []float64
	var compressions []float64

	uniqueWords := make(map[string]struct{})
	totalWords := 0

	for _, chunk := range sample {
		enc := model.Encode(chunk)
		for _, tok := range enc.Tokens {
			tokenLengths = append(tokenLengths, float64(len([]rune(tok))))
		}
		if len(enc.IDs) > 0 {
			compressions = append(compressions, float64(len([]rune(chunk)))/float64(len(enc.IDs)))
		}

		for _, word := range strings.Fields(chunk) {
			uniqueWords[word] = struct{}{}
			totalWords++
		}
	}

	report := Report{SampleChunks: len(sample)}
	report.MeanTokenLength, _ = stats.Mean(tokenLengths)
	report.MedianTokenLength, _ = stats.Median(tokenLengths)
	report.MeanCompression, _ = stats.Mean(compressions)
	report.MedianCompression, _ = stats.Median(compressions)
	if totalWords > 0 {
		report.WordCoverage = float64(len(uniqueWords)) / float64(totalWords)
	}
	return report
}
