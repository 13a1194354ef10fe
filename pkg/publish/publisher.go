// Package publish uploads a trained model artifact directory to a remote
// registry (a Supabase storage bucket). Publish failures are reported but
// never invalidate an already-successful local training run.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	supabase "github.com/supabase-community/supabase-go"

	"telugu-tokenizer/pkg/report"
	"telugu-tokenizer/pkg/tokenizer/bpe"
)

// Error wraps any failure during publishing so callers can distinguish it
// from local pipeline failures.
type Error struct {
	Step string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish: %s: %v", e.Step, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Publisher uploads artifact directories to a Supabase project.
type Publisher struct {
	projectURL string
}

// NewPublisher creates a publisher for the given Supabase project URL.
func NewPublisher(projectURL string) *Publisher {
	return &Publisher{projectURL: projectURL}
}

// Upload pushes the artifact directory's files to the remote repository.
// repoID is "bucket" or "bucket/prefix"; token is the service-role key.
// A model card is generated from the artifacts and uploaded alongside them.
func (p *Publisher) Upload(ctx context.Context, localDir, repoID, token string) error {
	bucket, prefix := splitRepoID(repoID)
	if bucket == "" {
		return &Error{Step: "parse repo id", Err: fmt.Errorf("empty bucket in %q", repoID)}
	}

	card, err := p.buildCard(localDir)
	if err != nil {
		return err
	}
	cardPath := filepath.Join(localDir, "MODEL_CARD.md")
	if err := os.WriteFile(cardPath, []byte(card), 0o644); err != nil {
		return &Error{Step: "write model card", Err: err}
	}

	client, err := supabase.NewClient(p.projectURL, token, nil)
	if err != nil {
		return &Error{Step: "create client", Err: err}
	}

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return &Error{Step: "read artifact directory", Err: err}
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := p.uploadFile(client, bucket, prefix, localDir, entry.Name()); err != nil {
			return err
		}
		log.Infof("uploaded %s to %s/%s", entry.Name(), bucket, prefix)
	}

	log.Infof("published artifact directory %s to %s", localDir, repoID)
	return nil
}

func (p *Publisher) uploadFile(client *supabase.Client, bucket, prefix, dir, name string) error {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return &Error{Step: "open " + name, Err: err}
	}
	defer f.Close()

	remotePath := name
	if prefix != "" {
		remotePath = prefix + "/" + name
	}
	if _, err := client.Storage.UploadFile(bucket, remotePath, f); err != nil {
		return &Error{Step: "upload " + name, Err: err}
	}
	return nil
}

// buildCard derives the descriptive card from the serialized model and the
// pinned examples: vocabulary size from the model, compression ratio from
// the longest example.
func (p *Publisher) buildCard(dir string) (string, error) {
	model, err := bpe.Load(dir)
	if err != nil {
		return "", &Error{Step: "load model", Err: err}
	}

	data, err := os.ReadFile(filepath.Join(dir, report.ExamplesFileName))
	if err != nil {
		return "", &Error{Step: "read examples", Err: err}
	}
	var examples []report.Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return "", &Error{Step: "decode examples", Err: err}
	}

	ratio := 0.0
	for _, ex := range examples {
		if ex.CompressionRatio > ratio {
			ratio = ex.CompressionRatio
		}
	}

	card := fmt.Sprintf(`---
language: te
tags:
- telugu
- tokenizer
- bpe
license: mit
---

# Telugu BPE Tokenizer

A byte-pair-encoding tokenizer trained on Telugu text collected from
Wikipedia and Telugu news sites.

## Stats

- Vocabulary size: %d tokens
- Compression ratio: %.2f

## Files

- tokenizer.json — the serialized model
- examples.json — pinned tokenization examples
`, model.VocabSize(), ratio)

	return card, nil
}

func splitRepoID(repoID string) (bucket, prefix string) {
	repoID = strings.Trim(repoID, "/")
	if i := strings.IndexByte(repoID, '/'); i >= 0 {
		return repoID[:i], repoID[i+1:]
	}
	return repoID, ""
}
