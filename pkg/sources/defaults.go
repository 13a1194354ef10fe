package sources

// DefaultSources returns the production source set: Telugu Wikipedia plus
// the three major Telugu news front pages.
func DefaultSources() []Source {
	return []Source{
		NewWikipediaSource(),
		NewNewsSource("andhrajyothy", "https://www.andhrajyothy.com/"),
		NewNewsSource("eenadu", "https://www.eenadu.net/"),
		NewNewsSource("vaartha", "https://www.vaartha.com/"),
	}
}
