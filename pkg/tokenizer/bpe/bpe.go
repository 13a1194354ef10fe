// Package bpe is the default tokenizer engine: a rune-level byte-pair
// encoder with sentencepiece-style word-boundary markers. The pipeline
// depends only on the tokenizer interfaces; this package is the shipped
// implementation behind them.
package bpe

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"telugu-tokenizer/pkg/tokenizer"
)

// wordMarker prefixes the first symbol of every word so that word
// boundaries survive tokenization.
const wordMarker = "▁"

// Engine trains BPE models.
type Engine struct{}

// NewEngine returns the default engine.
func NewEngine() *Engine { return &Engine{} }

// Train learns merges from the corpus until the requested vocabulary size
// is reached or no pair clears the minimum frequency. The trained
// vocabulary can legitimately come out smaller than requested when the
// corpus does not support enough merges.
func (e *Engine) Train(ctx context.Context, texts []string, cfg tokenizer.Config) (tokenizer.Model, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty training corpus")
	}
	if cfg.MinFrequency < 1 {
		cfg.MinFrequency = 1
	}

	wordFreq := countWords(texts)

	// Each distinct word starts as its marked rune sequence.
	words := make([][]string, 0, len(wordFreq))
	freqs := make([]int, 0, len(wordFreq))
	for word, freq := range wordFreq {
		words = append(words, splitWord(word))
		freqs = append(freqs, freq)
	}

	model := newModel(cfg.SpecialTokens, baseSymbols(words))

	for model.VocabSize() < cfg.VocabSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pair, freq := bestPair(words, freqs)
		if freq < cfg.MinFrequency || pair == [2]string{} {
			break
		}

		merged := pair[0] + pair[1]
		for i := range words {
			words[i] = mergePair(words[i], pair, merged)
		}
		model.addMerge(pair, merged)
	}

	return model, nil
}

// countWords tallies whitespace-delimited word frequencies over the corpus.
func countWords(texts []string) map[string]int {
	freq := make(map[string]int)
	for _, text := range texts {
		for _, word := range strings.Fields(text) {
			freq[word]++
		}
	}
	return freq
}

// splitWord breaks a word into rune symbols with the boundary marker fused
// onto the first one.
func splitWord(word string) []string {
	runes := []rune(word)
	symbols := make([]string, len(runes))
	for i, r := range runes {
		symbols[i] = string(r)
	}
	if len(symbols) > 0 {
		symbols[0] = wordMarker + symbols[0]
	}
	return symbols
}

// baseSymbols collects the distinct initial symbols across all words,
// sorted for deterministic ID assignment.
func baseSymbols(words [][]string) []string {
	set := make(map[string]struct{})
	for _, symbols := range words {
		for _, sym := range symbols {
			set[sym] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for sym := range set {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// bestPair finds the most frequent adjacent symbol pair, weighted by word
// frequency. Ties break on the lexicographically smaller pair so training
// is deterministic.
func bestPair(words [][]string, freqs []int) ([2]string, int) {
	counts := make(map[[2]string]int)
	for i, symbols := range words {
		for j := 0; j+1 < len(symbols); j++ {
			counts[[2]string{symbols[j], symbols[j+1]}] += freqs[i]
		}
	}

	var best [2]string
	bestFreq := 0
	for pair, freq := range counts {
		if freq > bestFreq || (freq == bestFreq && lessPair(pair, best)) {
			best = pair
			bestFreq = freq
		}
	}
	return best, bestFreq
}

func lessPair(a, b [2]string) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// mergePair rewrites a symbol sequence, fusing every adjacent occurrence
// of the pair left to right.
func mergePair(symbols []string, pair [2]string, merged string) []string {
	out := symbols[:0]
	for i := 0; i < len(symbols); i++ {
		if i+1 < len(symbols) && symbols[i] == pair[0] && symbols[i+1] == pair[1] {
			out = append(out, merged)
			i++
			continue
		}
		out = append(out, symbols[i])
	}
	return out
}
