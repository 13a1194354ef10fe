// Package sources defines where candidate Telugu documents come from and
// how their text is extracted from raw markup.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"telugu-tokenizer/pkg/httpclient"
)

// Candidate is a document location discovered by a source, before any
// content has been fetched.
type Candidate struct {
	Source string
	URL    string
	Title  string
}

// Source discovers candidate documents and knows how to pull text out of
// the pages it discovered. Implementations must be safe for use from a
// single discovery goroutine; ExtractText must be safe to call
// concurrently (it is pure parsing).
type Source interface {
	// Name identifies the source in logs and dataset metadata.
	Name() string

	// MinTextLength is the minimum cleaned length (in characters) a
	// document from this source must reach to be admitted.
	MinTextLength() int

	// Discover returns up to limit candidates. It may issue network
	// requests and should respect ctx cancellation.
	Discover(ctx context.Context, limit int) ([]Candidate, error)

	// FetchPage downloads a candidate page body using whatever header
	// profile the source's site requires.
	FetchPage(ctx context.Context, url string) (string, error)

	// ExtractText extracts the raw (uncleaned) article text from a
	// fetched page body.
	ExtractText(html string) (string, error)
}

// FetchBody downloads a candidate page body with the given client.
func FetchBody(ctx context.Context, client *httpclient.Client, url string) (string, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status code %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(body), nil
}

// extractReadable runs readability over an HTML document and returns the
// main article text.
func extractReadable(html string) (string, error) {
	article, err := readability.FromReader(strings.NewReader(html), nil)
	if err != nil {
		return "", fmt.Errorf("readability extraction: %w", err)
	}
	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no readable content found")
	}
	return text, nil
}
