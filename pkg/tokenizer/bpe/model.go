package bpe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"telugu-tokenizer/pkg/tokenizer"
)

// ModelFileName is the serialized model file inside an artifact directory.
const ModelFileName = "tokenizer.json"

// Model is a trained BPE model: the ID-ordered vocabulary plus the merge
// list in learned order.
type Model struct {
	tokens  []string
	ids     map[string]int
	merges  [][2]string
	special []string
	unkID   int
}

func newModel(specialTokens, base []string) *Model {
	m := &Model{
		ids:     make(map[string]int),
		special: append([]string(nil), specialTokens...),
		unkID:   -1,
	}
	for _, tok := range specialTokens {
		m.addToken(tok)
	}
	for _, sym := range base {
		m.addToken(sym)
	}
	if id, ok := m.ids["<unk>"]; ok {
		m.unkID = id
	}
	return m
}

func (m *Model) addToken(tok string) {
	if _, ok := m.ids[tok]; ok {
		return
	}
	m.ids[tok] = len(m.tokens)
	m.tokens = append(m.tokens, tok)
}

func (m *Model) addMerge(pair [2]string, merged string) {
	m.merges = append(m.merges, pair)
	m.addToken(merged)
}

// VocabSize returns the number of distinct tokens, special tokens included.
func (m *Model) VocabSize() int {
	return len(m.tokens)
}

// Encode tokenizes text by replaying the learned merges over each
// whitespace-delimited word. Symbols absent from the vocabulary map to
// <unk> when that special token exists.
func (m *Model) Encode(text string) tokenizer.Encoding {
	var enc tokenizer.Encoding
	for _, word := range strings.Fields(text) {
		symbols := splitWord(word)
		for _, pair := range m.merges {
			symbols = mergePair(symbols, pair, pair[0]+pair[1])
		}
		for _, sym := range symbols {
			id, ok := m.ids[sym]
			if !ok {
				if m.unkID < 0 {
					continue
				}
				enc.Tokens = append(enc.Tokens, m.tokens[m.unkID])
				enc.IDs = append(enc.IDs, m.unkID)
				continue
			}
			enc.Tokens = append(enc.Tokens, sym)
			enc.IDs = append(enc.IDs, id)
		}
	}
	return enc
}

// modelFile is the on-disk shape of a trained model.
type modelFile struct {
	ModelType     string   `json:"model_type"`
	SpecialTokens []string `json:"special_tokens"`
	Vocab         []string `json:"vocab"`
	Merges        []string `json:"merges"`
}

// Save writes the model into dir as ModelFileName.
func Save(m *Model, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}

	file := modelFile{
		ModelType:     "bpe",
		SpecialTokens: m.special,
		Vocab:         m.tokens,
		Merges:        make([]string, len(m.merges)),
	}
	for i, pair := range m.merges {
		file.Merges[i] = pair[0] + " " + pair[1]
	}

	f, err := os.Create(filepath.Join(dir, ModelFileName))
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	return nil
}

// Load reads a model previously written by Save. A loaded model encodes
// identically to the one that was saved.
func Load(dir string) (*Model, error) {
	data, err := os.ReadFile(filepath.Join(dir, ModelFileName))
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	m := &Model{
		ids:     make(map[string]int, len(file.Vocab)),
		special: file.SpecialTokens,
		unkID:   -1,
	}
	for _, tok := range file.Vocab {
		m.addToken(tok)
	}
	if id, ok := m.ids["<unk>"]; ok {
		m.unkID = id
	}
	for _, merge := range file.Merges {
		left, right, ok := strings.Cut(merge, " ")
		if !ok {
			return nil, fmt.Errorf("malformed merge entry %q", merge)
		}
		m.merges = append(m.merges, [2]string{left, right})
	}
	return m, nil
}
