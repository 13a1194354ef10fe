package domain

// Metadata describes an assembled corpus.
type Metadata struct {
	TotalChunks    int      `json:"total_chunks"`
	TotalChars     int      `json:"total_chars"`
	AvgChunkLength float64  `json:"avg_chunk_length"`
	Sources        []string `json:"sources"`
}

// Dataset is the durable artifact of a collection run: the ordered corpus
// chunks plus aggregate metadata. The chunk order is the assembly insertion
// order and carries no meaning beyond reproducibility.
type Dataset struct {
	Text     []string `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// NewDataset builds a Dataset from assembled chunks and the contributing
// source names, computing the aggregate metadata.
func NewDataset(chunks []string, sources []string) *Dataset {
	totalChars := 0
	for _, chunk := range chunks {
		totalChars += len([]rune(chunk))
	}

	avg := 0.0
	if len(chunks) > 0 {
		avg = float64(totalChars) / float64(len(chunks))
	}

	return &Dataset{
		Text: chunks,
		Metadata: Metadata{
			TotalChunks:    len(chunks),
			TotalChars:     totalChars,
			AvgChunkLength: avg,
			Sources:        sources,
		},
	}
}
