// Package corpus deduplicates cleaned texts and packs them into
// training-sized chunks.
package corpus

import (
	"strings"

	"telugu-tokenizer/pkg/domain"
)

// DefaultChunkThreshold is the minimum chunk length in characters. Every
// sealed chunk except possibly the final one is at least this long.
const DefaultChunkThreshold = 1000

// Assembler consumes cleaned texts in arrival order, rejects exact
// duplicates, and packs the rest into chunks using a greedy single-pass
// heuristic: texts accumulate in a buffer, and the text whose append pushes
// the buffer to the threshold seals the chunk. This is not optimal
// bin-packing; it bounds the number of very short chunks while staying
// linear-time and streaming-friendly.
type Assembler struct {
	threshold int
	seen      *SeenSet

	parts       []string
	bufLen      int
	chunks      []string
	sourceSeen  map[string]struct{}
	sourceOrder []string
}

// NewAssembler creates an assembler sealing chunks at the given character
// threshold. A threshold of 0 or less uses DefaultChunkThreshold.
func NewAssembler(threshold int) *Assembler {
	if threshold <= 0 {
		threshold = DefaultChunkThreshold
	}
	return &Assembler{
		threshold:  threshold,
		seen:       NewSeenSet(),
		sourceSeen: make(map[string]struct{}),
	}
}

// Add admits a cleaned text unless it is an exact duplicate of one already
// admitted. It returns true when the text was admitted. Sealing happens as
// a side effect once the buffer reaches the threshold; the next admitted
// text then starts a fresh buffer.
func (a *Assembler) Add(text domain.CleanedText) bool {
	if text.Text == "" {
		return false
	}
	if !a.seen.Admit(text.Text) {
		return false
	}

	if _, ok := a.sourceSeen[text.Source]; !ok {
		a.sourceSeen[text.Source] = struct{}{}
		a.sourceOrder = append(a.sourceOrder, text.Source)
	}
	a.parts = append(a.parts, text.Text)
	a.bufLen += len([]rune(text.Text))

	if a.bufLen >= a.threshold {
		a.seal()
	}
	return true
}

// Finish seals any non-empty remaining buffer as a final, possibly short,
// chunk and returns the full chunk sequence in assembly order.
func (a *Assembler) Finish() []string {
	if len(a.parts) > 0 {
		a.seal()
	}
	return a.chunks
}

// Admitted returns the number of distinct texts admitted so far.
func (a *Assembler) Admitted() int {
	return a.seen.Len()
}

// Sources returns the names of sources that contributed at least one
// admitted text, in first-contribution order.
func (a *Assembler) Sources() []string {
	return append([]string(nil), a.sourceOrder...)
}

func (a *Assembler) seal() {
	a.chunks = append(a.chunks, strings.Join(a.parts, ""))
	a.parts = a.parts[:0]
	a.bufLen = 0
}
