package training

import (
	"context"
	"errors"
	"strings"
	"testing"

	"telugu-tokenizer/pkg/tokenizer"
)

// fakeModel encodes every text into a fixed number of tokens per call,
// letting tests dial in an exact compression ratio.
type fakeModel struct {
	vocab        int
	tokensPerTen int
}

func (m *fakeModel) VocabSize() int { return m.vocab }

func (m *fakeModel) Encode(text string) tokenizer.Encoding {
	n := len([]rune(text)) * m.tokensPerTen / 10
	if n < 1 {
		n = 1
	}
	enc := tokenizer.Encoding{}
	for i := 0; i < n; i++ {
		enc.Tokens = append(enc.Tokens, "t")
		enc.IDs = append(enc.IDs, i)
	}
	return enc
}

type fakeEngine struct {
	model   tokenizer.Model
	err     error
	invoked bool
}

func (e *fakeEngine) Train(_ context.Context, _ []string, _ tokenizer.Config) (tokenizer.Model, error) {
	e.invoked = true
	return e.model, e.err
}

func validConfig() tokenizer.Config {
	cfg := tokenizer.DefaultConfig()
	cfg.VocabSize = 5000
	return cfg
}

func TestCheckConfigRejectsLowVocab(t *testing.T) {
	cfg := validConfig()
	cfg.VocabSize = 4999

	err := CheckConfig(cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if cfgErr.Requested != 4999 || cfgErr.Floor != 5000 {
		t.Errorf("ConfigError = %+v, want requested 4999 floor 5000", cfgErr)
	}
}

func TestCheckConfigAcceptsFloor(t *testing.T) {
	if err := CheckConfig(validConfig()); err != nil {
		t.Fatalf("vocab at the floor was rejected: %v", err)
	}
}

// A below-floor request must fail before the engine runs at all.
func TestTrainAndValidateFailsFastOnConfig(t *testing.T) {
	engine := &fakeEngine{model: &fakeModel{vocab: 8000, tokensPerTen: 2}}
	cfg := validConfig()
	cfg.VocabSize = 1000

	_, _, err := TrainAndValidate(context.Background(), engine, []string{"అఆఇ"}, cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if engine.invoked {
		t.Error("engine was invoked despite an invalid configuration")
	}
}

func TestTrainAndValidatePropagatesEngineError(t *testing.T) {
	engine := &fakeEngine{err: errors.New("boom")}
	_, _, err := TrainAndValidate(context.Background(), engine, []string{"అఆఇ"}, validConfig())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("engine error not propagated, got %v", err)
	}
}

// The trained vocabulary can come out smaller than requested; that is a
// validation failure even when the request itself was acceptable.
func TestValidateRejectsShrunkenVocab(t *testing.T) {
	// 10 chars per token keeps compression comfortably above the floor.
	model := &fakeModel{vocab: 4000, tokensPerTen: 1}
	engine := &fakeEngine{model: model}

	_, outcome, err := TrainAndValidate(context.Background(), engine, []string{strings.Repeat("అ", 100)}, validConfig())
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "vocabulary size") {
		t.Errorf("error %q does not name the vocabulary floor", err.Error())
	}
	if outcome.Passed {
		t.Error("outcome reports passed despite a violation")
	}
	if len(outcome.Violations) != 1 {
		t.Errorf("got %d violations, want 1", len(outcome.Violations))
	}
}

func TestValidateEnumeratesAllViolations(t *testing.T) {
	// 5 tokens per 10 chars is ratio 2.0, below the 3.0 floor; the
	// vocabulary is short of the floor too.
	model := &fakeModel{vocab: 100, tokensPerTen: 5}

	outcome := Validate(model, []string{strings.Repeat("అ", 100)})
	if outcome.Passed {
		t.Fatal("outcome passed with two floors unmet")
	}
	if len(outcome.Violations) != 2 {
		t.Fatalf("got %d violations, want 2", len(outcome.Violations))
	}

	err := &ValidationError{Outcome: outcome}
	msg := err.Error()
	if !strings.Contains(msg, "vocabulary size") || !strings.Contains(msg, "compression ratio") {
		t.Errorf("error %q does not enumerate both floors", msg)
	}
}

func TestValidatePasses(t *testing.T) {
	model := &fakeModel{vocab: 8000, tokensPerTen: 2}
	outcome := Validate(model, []string{strings.Repeat("అ", 1000)})
	if !outcome.Passed {
		t.Fatalf("outcome failed: %+v", outcome.Violations)
	}
	if outcome.VocabSize != 8000 {
		t.Errorf("VocabSize = %d, want 8000", outcome.VocabSize)
	}
	if outcome.CompressionRatio != 5.0 {
		t.Errorf("CompressionRatio = %f, want 5.0", outcome.CompressionRatio)
	}
}

// 10000 source characters encoded into 2000 tokens is a ratio of 5.0.
func TestCompressionRatio(t *testing.T) {
	model := &fakeModel{vocab: 8000, tokensPerTen: 2}
	texts := []string{
		strings.Repeat("అ", 4000),
		strings.Repeat("ఆ", 6000),
	}
	if got := CompressionRatio(model, texts); got != 5.0 {
		t.Errorf("CompressionRatio = %f, want 5.0", got)
	}
}

func TestCompressionRatioCountsRunes(t *testing.T) {
	model := &fakeModel{vocab: 8000, tokensPerTen: 10}
	// One token per rune: the ratio must be exactly 1.0 even though the
	// text is three bytes per character.
	if got := CompressionRatio(model, []string{strings.Repeat("అ", 50)}); got != 1.0 {
		t.Errorf("CompressionRatio = %f, want 1.0 (rune counting)", got)
	}
}

func TestCompressionRatioEmptyCorpus(t *testing.T) {
	model := &fakeModel{vocab: 8000, tokensPerTen: 2}
	if got := CompressionRatio(model, nil); got != 0 {
		t.Errorf("CompressionRatio = %f, want 0 for empty corpus", got)
	}
}

func TestValidationSampleIsBounded(t *testing.T) {
	texts := make([]string, ValidationSampleChunks+500)
	for i := range texts {
		texts[i] = "అఆఇ"
	}
	if got := len(sample(texts)); got != ValidationSampleChunks {
		t.Errorf("sample kept %d chunks, want %d", got, ValidationSampleChunks)
	}
}
