// Package collector drives the fetch phase: concurrent, fault-tolerant
// retrieval of candidate documents from the configured sources, cleaning,
// and per-source length admission.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"telugu-tokenizer/pkg/domain"
	"telugu-tokenizer/pkg/sources"
	"telugu-tokenizer/pkg/textclean"
)

// Config controls the fetch phase.
type Config struct {
	// TargetDocuments stops collection once this many documents have
	// been accepted across all sources.
	TargetDocuments int

	// MaxConcurrent caps simultaneous outbound page fetches, respecting
	// remote-service limits.
	MaxConcurrent int

	// Timeout bounds the whole fetch phase in wall-clock time. On
	// expiry, already-collected documents are used as-is.
	Timeout time.Duration

	// ProgressEvery logs a progress line after this many accepted
	// documents.
	ProgressEvery int

	// DiscoverBackoff is applied to each source's candidate discovery.
	DiscoverBackoff BackoffPolicy

	// BatchPause is a short delay inserted before moving to the next
	// source when the previous batch saw fetch failures. Failed
	// documents themselves are never retried.
	BatchPause time.Duration

	// SkipURLs are candidate URLs dropped before fetching, typically the
	// URLs already present in the document archive from earlier runs.
	SkipURLs map[string]bool
}

// DefaultConfig mirrors the production collection run.
func DefaultConfig() Config {
	return Config{
		TargetDocuments: 3000,
		MaxConcurrent:   50,
		Timeout:         10 * time.Minute,
		ProgressEvery:   10,
		DiscoverBackoff: DefaultBackoff,
		BatchPause:      time.Second,
	}
}

// DocumentStore receives accepted documents as a side archive. Failures
// are logged and never affect the run.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc *domain.RawDocument) error
}

// Collector fetches documents from its sources with bounded concurrency.
type Collector struct {
	cfg     Config
	sources []sources.Source
	store   DocumentStore
}

// New creates a collector over the given sources. store may be nil.
func New(cfg Config, srcs []sources.Source, store DocumentStore) *Collector {
	if cfg.TargetDocuments <= 0 {
		cfg.TargetDocuments = DefaultConfig().TargetDocuments
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultConfig().MaxConcurrent
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultConfig().ProgressEvery
	}
	return &Collector{cfg: cfg, sources: srcs, store: store}
}

// fetchResult is what a fetch worker hands back to the admitting loop.
// Workers never touch shared state; admission happens in one goroutine.
type fetchResult struct {
	candidate sources.Candidate
	text      string
	fetchedAt time.Time
	err       error
}

// Stream returns a lazy sequence of cleaned texts. The channel is closed
// when the target count is reached, all sources are exhausted, or the
// phase timeout expires. Per-document failures are logged and skipped;
// they never abort sibling fetches.
func (c *Collector) Stream(ctx context.Context) <-chan domain.CleanedText {
	out := make(chan domain.CleanedText)
	go func() {
		defer close(out)

		ctx, cancel := context.WithTimeout(ctx, c.phaseTimeout())
		defer cancel()

		accepted := 0
		for _, src := range c.sources {
			if accepted >= c.cfg.TargetDocuments {
				break
			}
			if ctx.Err() != nil {
				log.Warnf("fetch phase timed out with %d documents collected, proceeding with what we have", accepted)
				break
			}

			n, failures := c.collectFromSource(ctx, src, c.cfg.TargetDocuments-accepted, accepted, out)
			accepted += n
			log.Infof("source %s done: %d accepted, %d failed fetches", src.Name(), n, failures)

			if failures > 0 && c.cfg.BatchPause > 0 {
				select {
				case <-time.After(c.cfg.BatchPause):
				case <-ctx.Done():
				}
			}
		}
		log.Infof("collection finished: %d documents accepted", accepted)
	}()
	return out
}

// collectFromSource discovers candidates from one source and fetches them
// through the worker pool, emitting accepted cleaned texts on out.
// Returns the accepted and failed counts for this source.
func (c *Collector) collectFromSource(ctx context.Context, src sources.Source, limit, alreadyAccepted int, out chan<- domain.CleanedText) (int, int) {
	var candidates []sources.Candidate
	err := c.cfg.DiscoverBackoff.Retry(ctx, "discover "+src.Name(), func() error {
		var derr error
		candidates, derr = src.Discover(ctx, limit)
		return derr
	})
	if err != nil {
		log.Errorf("skipping source %s: %v", src.Name(), err)
		return 0, 0
	}
	candidates = c.dropArchived(src, candidates)
	log.Infof("source %s: %d candidates discovered", src.Name(), len(candidates))

	results := c.fetchAll(ctx, src, candidates)

	accepted, failures := 0, 0
	for res := range results {
		if res.err != nil {
			failures++
			log.Warnf("skipping document %s: %v", res.candidate.URL, res.err)
			continue
		}

		select {
		case out <- domain.CleanedText{Source: src.Name(), Text: res.text}:
		case <-ctx.Done():
			return accepted, failures
		}
		accepted++
		c.archive(ctx, res)

		if (alreadyAccepted+accepted)%c.cfg.ProgressEvery == 0 {
			log.Infof("collected %d documents", alreadyAccepted+accepted)
		}
		if accepted >= limit {
			break
		}
	}
	return accepted, failures
}

// dropArchived filters out candidates whose URL is already archived, so a
// re-run spends its fetch budget on documents it has not seen before.
func (c *Collector) dropArchived(src sources.Source, candidates []sources.Candidate) []sources.Candidate {
	if len(c.cfg.SkipURLs) == 0 {
		return candidates
	}
	kept := candidates[:0]
	for _, cand := range candidates {
		if c.cfg.SkipURLs[cand.URL] {
			continue
		}
		kept = append(kept, cand)
	}
	if skipped := len(candidates) - len(kept); skipped > 0 {
		log.Infof("source %s: %d candidates already archived, skipped", src.Name(), skipped)
	}
	return kept
}

// fetchAll runs a bounded worker pool over the candidates. The results
// channel is buffered for the full batch so an early consumer exit never
// strands a worker.
func (c *Collector) fetchAll(ctx context.Context, src sources.Source, candidates []sources.Candidate) <-chan fetchResult {
	jobs := make(chan sources.Candidate, len(candidates))
	for _, cand := range candidates {
		jobs <- cand
	}
	close(jobs)

	results := make(chan fetchResult, len(candidates))

	workers := c.cfg.MaxConcurrent
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				if ctx.Err() != nil {
					return
				}
				results <- c.fetchOne(ctx, src, cand)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// fetchOne downloads, extracts, and cleans a single candidate. Any failure
// is returned in the result and handled by the admitting loop.
func (c *Collector) fetchOne(ctx context.Context, src sources.Source, cand sources.Candidate) fetchResult {
	res := fetchResult{candidate: cand, fetchedAt: time.Now()}

	html, err := src.FetchPage(ctx, cand.URL)
	if err != nil {
		res.err = err
		return res
	}

	raw, err := src.ExtractText(html)
	if err != nil {
		res.err = err
		return res
	}

	cleaned := textclean.Clean(raw)
	if textclean.Length(cleaned) <= src.MinTextLength() {
		res.err = fmt.Errorf("cleaned text too short: %d <= %d chars", textclean.Length(cleaned), src.MinTextLength())
		return res
	}

	res.text = cleaned
	return res
}

// archive saves an accepted document to the side store, if configured.
func (c *Collector) archive(ctx context.Context, res fetchResult) {
	if c.store == nil {
		return
	}
	doc := &domain.RawDocument{
		Source:    res.candidate.Source,
		URL:       res.candidate.URL,
		Title:     res.candidate.Title,
		FetchedAt: res.fetchedAt,
	}
	if err := c.store.SaveDocument(ctx, doc); err != nil {
		log.Warnf("archive of %s failed: %v", res.candidate.URL, err)
	}
}

func (c *Collector) phaseTimeout() time.Duration {
	if c.cfg.Timeout > 0 {
		return c.cfg.Timeout
	}
	return DefaultConfig().Timeout
}
