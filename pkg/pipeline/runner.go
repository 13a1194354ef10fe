// Package pipeline ties the stages together: collect, assemble, persist,
// train, validate, report. One Runner drives one run; no stage is
// re-entered once it has committed output downstream.
package pipeline

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"telugu-tokenizer/pkg/archive"
	"telugu-tokenizer/pkg/collector"
	"telugu-tokenizer/pkg/corpus"
	"telugu-tokenizer/pkg/dataset"
	"telugu-tokenizer/pkg/domain"
	"telugu-tokenizer/pkg/metrics"
	"telugu-tokenizer/pkg/report"
	"telugu-tokenizer/pkg/sources"
	"telugu-tokenizer/pkg/tokenizer"
	"telugu-tokenizer/pkg/training"
)

// State is the run's position in its lifecycle. FAILED is terminal: a
// failed run never produces report artifacts and nothing it wrote is
// marked usable.
type State string

const (
	StateCollecting State = "COLLECTING"
	StateAssembling State = "ASSEMBLING"
	StatePersisted  State = "PERSISTED"
	StateTraining   State = "TRAINING"
	StateValidating State = "VALIDATING"
	StateSuccess    State = "SUCCESS"
	StateFailed     State = "FAILED"
	StateReporting  State = "REPORTING"
)

// ModelPersister serializes a trained model into the artifact directory.
// The pipeline stays agnostic of the engine's concrete model type.
type ModelPersister func(model tokenizer.Model, dir string) error

// Config holds the per-run settings of the whole pipeline.
type Config struct {
	Collect        collector.Config
	Train          tokenizer.Config
	ChunkThreshold int
	DatasetPath    string
	ModelDir       string
}

// Options are the collaborators a Runner is wired with. Store and Ledger
// are optional.
type Options struct {
	Sources      []sources.Source
	Engine       tokenizer.Engine
	PersistModel ModelPersister
	Store        collector.DocumentStore
	Ledger       *archive.RunLedger
}

// Runner executes one pipeline run.
type Runner struct {
	cfg   Config
	opts  Options
	state State
}

// NewRunner creates a runner. Engine and PersistModel are required for the
// training phase; Sources for the collection phase.
func NewRunner(cfg Config, opts Options) *Runner {
	if cfg.DatasetPath == "" {
		cfg.DatasetPath = dataset.DefaultPath
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = "telugu_tokenizer"
	}
	return &Runner{cfg: cfg, opts: opts}
}

// State returns the last state the run reached.
func (r *Runner) State() State { return r.state }

func (r *Runner) setState(s State) {
	r.state = s
	log.Infof("pipeline state: %s", s)
}

// Run performs a full collection-then-training run.
func (r *Runner) Run(ctx context.Context) error {
	started := time.Now()

	ds, admitted, err := r.Collect(ctx)
	if err != nil {
		return err
	}
	return r.train(ctx, ds, admitted, started)
}

// Collect streams documents from the sources into the assembler, seals the
// corpus, and persists the dataset. Returns the dataset and the count of
// distinct admitted documents.
func (r *Runner) Collect(ctx context.Context) (*domain.Dataset, int, error) {
	r.setState(StateCollecting)

	col := collector.New(r.cfg.Collect, r.opts.Sources, r.opts.Store)
	asm := corpus.NewAssembler(r.cfg.ChunkThreshold)

	// Single admitting goroutine: the assembler owns the SeenSet, and
	// fetch workers only ever talk to it through the stream channel.
	for text := range col.Stream(ctx) {
		asm.Add(text)
	}

	r.setState(StateAssembling)
	chunks := asm.Finish()
	if len(chunks) == 0 {
		r.setState(StateFailed)
		return nil, 0, fmt.Errorf("collection produced no corpus chunks")
	}

	ds := domain.NewDataset(chunks, asm.Sources())
	if err := dataset.Save(r.cfg.DatasetPath, ds); err != nil {
		r.setState(StateFailed)
		return nil, 0, err
	}
	r.setState(StatePersisted)
	log.Infof("dataset persisted: %d chunks, %d chars, sources %v",
		ds.Metadata.TotalChunks, ds.Metadata.TotalChars, ds.Metadata.Sources)

	return ds, asm.Admitted(), nil
}

// TrainFromDataset reloads the persisted dataset and runs the training,
// validation, and reporting phases against it.
func (r *Runner) TrainFromDataset(ctx context.Context) error {
	ds, err := dataset.Load(r.cfg.DatasetPath)
	if err != nil {
		r.setState(StateFailed)
		return err
	}
	return r.train(ctx, ds, 0, time.Now())
}

func (r *Runner) train(ctx context.Context, ds *domain.Dataset, admitted int, started time.Time) error {
	r.setState(StateTraining)

	if err := training.CheckConfig(r.cfg.Train); err != nil {
		return r.fail(ctx, ds, admitted, started, err)
	}

	model, err := r.opts.Engine.Train(ctx, ds.Text, r.cfg.Train)
	if err != nil {
		return r.fail(ctx, ds, admitted, started, err)
	}

	r.setState(StateValidating)
	outcome := training.Validate(model, ds.Text)
	if !outcome.Passed {
		return r.fail(ctx, ds, admitted, started, &training.ValidationError{Outcome: outcome})
	}
	r.setState(StateSuccess)

	if err := r.opts.PersistModel(model, r.cfg.ModelDir); err != nil {
		return fmt.Errorf("persist model: %w", err)
	}

	r.setState(StateReporting)
	sample := ds.Text
	if len(sample) > training.ValidationSampleChunks {
		sample = sample[:training.ValidationSampleChunks]
	}
	stats := metrics.Analyze(model, sample)
	if err := report.Generate(r.cfg.ModelDir, model, r.cfg.Train, outcome, stats); err != nil {
		return err
	}

	r.record(ctx, ds, admitted, started, outcome, "")
	log.Infof("run complete: vocab=%d compression=%.2f artifacts in %s",
		outcome.VocabSize, outcome.CompressionRatio, r.cfg.ModelDir)
	return nil
}

// fail marks the run terminal. No report artifacts are generated and the
// model directory is left untouched.
func (r *Runner) fail(ctx context.Context, ds *domain.Dataset, admitted int, started time.Time, err error) error {
	r.setState(StateFailed)
	r.record(ctx, ds, admitted, started, training.Outcome{}, err.Error())
	return err
}

// record writes the run's ledger row, best effort.
func (r *Runner) record(ctx context.Context, ds *domain.Dataset, admitted int, started time.Time, outcome training.Outcome, failure string) {
	if r.opts.Ledger == nil {
		return
	}
	rec := archive.RunRecord{
		StartedAt:        started,
		FinishedAt:       time.Now(),
		Documents:        admitted,
		Chunks:           ds.Metadata.TotalChunks,
		TotalChars:       ds.Metadata.TotalChars,
		VocabSize:        outcome.VocabSize,
		CompressionRatio: outcome.CompressionRatio,
		Passed:           failure == "",
		FailureReason:    failure,
	}
	if err := r.opts.Ledger.Record(ctx, rec); err != nil {
		log.Warnf("run ledger write failed: %v", err)
	}
}
