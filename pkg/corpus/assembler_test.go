package corpus

import (
	"strings"
	"testing"

	"telugu-tokenizer/pkg/domain"
)

func text(source string, s string) domain.CleanedText {
	return domain.CleanedText{Source: source, Text: s}
}

// Three texts of lengths 400, 300, 500 with threshold 1000 pack into one
// chunk of length 1200; a fourth short text starts a new final chunk.
func TestAssemblerPacking(t *testing.T) {
	a := NewAssembler(1000)

	texts := []string{
		strings.Repeat("అ", 400),
		strings.Repeat("ఆ", 300),
		strings.Repeat("ఇ", 500),
	}
	for _, s := range texts {
		if !a.Add(text("wikipedia", s)) {
			t.Fatalf("text of length %d was not admitted", len([]rune(s)))
		}
	}

	late := strings.Repeat("ఈ", 50)
	if !a.Add(text("wikipedia", late)) {
		t.Fatal("late text was not admitted")
	}

	chunks := a.Finish()
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	if got := len([]rune(chunks[0])); got != 1200 {
		t.Errorf("first chunk length = %d, want 1200", got)
	}
	if chunks[0] != texts[0]+texts[1]+texts[2] {
		t.Error("first chunk is not the in-order concatenation of the three texts")
	}
	if chunks[1] != late {
		t.Errorf("final chunk = %q..., want the late short text", chunks[1][:12])
	}
}

// A byte-identical duplicate is silently dropped and appears in no chunk.
func TestAssemblerDeduplicates(t *testing.T) {
	a := NewAssembler(1000)

	dup := strings.Repeat("క", 600)
	if !a.Add(text("wikipedia", dup)) {
		t.Fatal("first occurrence was rejected")
	}
	if a.Add(text("eenadu", dup)) {
		t.Fatal("duplicate was admitted a second time")
	}

	other := strings.Repeat("గ", 500)
	if !a.Add(text("eenadu", other)) {
		t.Fatal("distinct text was rejected")
	}

	chunks := a.Finish()
	joined := strings.Join(chunks, "")
	if got := strings.Count(joined, dup); got != 1 {
		t.Errorf("duplicate text appears %d times across chunks, want 1", got)
	}
	if a.Admitted() != 2 {
		t.Errorf("Admitted() = %d, want 2", a.Admitted())
	}
}

// All chunks except possibly the last must reach the threshold.
func TestAssemblerChunkLengths(t *testing.T) {
	const threshold = 100
	a := NewAssembler(threshold)

	// Varied lengths so sealing happens at different offsets.
	lengths := []int{40, 70, 30, 30, 30, 90, 15, 200, 5}
	for i, n := range lengths {
		// Distinct first rune per text so nothing deduplicates.
		s := string(rune(0x0C05+i)) + strings.Repeat("న", n-1)
		a.Add(text("wikipedia", s))
	}

	chunks := a.Finish()
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if got := len([]rune(chunk)); got < threshold {
			t.Errorf("chunk %d length = %d, below threshold %d", i, got, threshold)
		}
	}
}

func TestAssemblerEmptyInput(t *testing.T) {
	a := NewAssembler(1000)
	if chunks := a.Finish(); len(chunks) != 0 {
		t.Errorf("expected no chunks from empty input, got %d", len(chunks))
	}
}

func TestAssemblerRejectsEmptyText(t *testing.T) {
	a := NewAssembler(1000)
	if a.Add(text("wikipedia", "")) {
		t.Error("empty text was admitted")
	}
}

func TestAssemblerSourcesInContributionOrder(t *testing.T) {
	a := NewAssembler(1000)
	a.Add(text("wikipedia", strings.Repeat("అ", 10)))
	a.Add(text("eenadu", strings.Repeat("ఆ", 10)))
	a.Add(text("wikipedia", strings.Repeat("ఇ", 10)))
	a.Finish()

	got := a.Sources()
	want := []string{"wikipedia", "eenadu"}
	if len(got) != len(want) {
		t.Fatalf("Sources() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sources() = %v, want %v", got, want)
		}
	}
}

func TestSeenSet(t *testing.T) {
	s := NewSeenSet()
	if !s.Admit("తెలుగు") {
		t.Error("first admission failed")
	}
	if s.Admit("తెలుగు") {
		t.Error("exact duplicate was admitted")
	}
	if !s.Admit("తెలుగు ") {
		t.Error("distinct string (trailing space) was rejected")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
