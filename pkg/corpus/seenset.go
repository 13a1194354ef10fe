package corpus

// SeenSet tracks exact cleaned-text strings already admitted to the corpus.
// It is owned by the assembling stage for the duration of a single run and
// is never shared across runs.
type SeenSet struct {
	seen map[string]struct{}
}

// NewSeenSet creates an empty SeenSet.
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// Admit records the text and reports whether it was new. A second call with
// a byte-identical string returns false.
func (s *SeenSet) Admit(text string) bool {
	if _, ok := s.seen[text]; ok {
		return false
	}
	s.seen[text] = struct{}{}
	return true
}

// Len returns the number of distinct admitted texts.
func (s *SeenSet) Len() int {
	return len(s.seen)
}
