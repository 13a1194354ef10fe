// Package dataset persists assembled corpora to disk and loads them back.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"telugu-tokenizer/pkg/domain"
)

// DefaultPath is where a collection run writes its dataset.
const DefaultPath = "telugu_dataset.json"

// Save writes the dataset as indented UTF-8 JSON. HTML escaping is turned
// off so Telugu text is stored verbatim rather than as \uXXXX sequences.
// An unwritable destination surfaces as a wrapped *os.PathError.
func Save(path string, ds *domain.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("flush dataset file: %w", err)
	}
	return nil
}

// Load reads a dataset previously written by Save. Round-trip law:
// Load(Save(ds)) equals ds in chunk content and metadata.
func Load(path string) (*domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}

	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	return &ds, nil
}
