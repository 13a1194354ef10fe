package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"telugu-tokenizer/pkg/httpclient"
)

const (
	wikipediaAPIURL      = "https://te.wikipedia.org/w/api.php"
	wikipediaArticleBase = "https://te.wikipedia.org/wiki/"

	// Articles shorter than this after cleaning are mostly stubs and
	// navigation remnants.
	wikipediaMinTextLength = 500

	randomBatchSize = 100
)

// WikipediaSource discovers random articles from Telugu Wikipedia through
// the MediaWiki random-page API and extracts their content block.
type WikipediaSource struct {
	client  *httpclient.Client
	apiURL  string
	pageURL string
}

// NewWikipediaSource creates the source with the production API endpoint.
func NewWikipediaSource() *WikipediaSource {
	return &WikipediaSource{
		client:  httpclient.New(httpclient.PlainProfile, 30*time.Second),
		apiURL:  wikipediaAPIURL,
		pageURL: wikipediaArticleBase,
	}
}

// NewWikipediaSourceWithEndpoint creates the source against a custom API
// endpoint and article base URL. Used in tests with httptest servers.
func NewWikipediaSourceWithEndpoint(client *httpclient.Client, apiURL, pageURL string) *WikipediaSource {
	return &WikipediaSource{client: client, apiURL: apiURL, pageURL: pageURL}
}

func (s *WikipediaSource) Name() string { return "wikipedia" }

func (s *WikipediaSource) MinTextLength() int { return wikipediaMinTextLength }

// Discover asks the random-page API for article titles in batches of 100
// until limit candidates are collected or the context expires.
func (s *WikipediaSource) Discover(ctx context.Context, limit int) ([]Candidate, error) {
	var candidates []Candidate
	seen := make(map[string]struct{})

	for len(candidates) < limit {
		titles, err := s.randomTitles(ctx)
		if err != nil {
			return candidates, err
		}
		if len(titles) == 0 {
			break
		}

		before := len(candidates)
		for _, title := range titles {
			if _, dup := seen[title]; dup {
				continue
			}
			seen[title] = struct{}{}
			candidates = append(candidates, Candidate{
				Source: s.Name(),
				URL:    s.pageURL + url.PathEscape(title),
				Title:  title,
			})
			if len(candidates) == limit {
				break
			}
		}
		// A batch of nothing but repeats means the wiki is exhausted;
		// looping further would hammer the API until the phase times out.
		if len(candidates) == before {
			break
		}
	}

	return candidates, nil
}

// FetchPage downloads an article page.
func (s *WikipediaSource) FetchPage(ctx context.Context, url string) (string, error) {
	return FetchBody(ctx, s.client, url)
}

// ExtractText pulls the paragraphs and headings out of the article content
// block. MediaWiki wraps article bodies in #mw-content-text.
func (s *WikipediaSource) ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse article HTML: %w", err)
	}

	content := doc.Find("#mw-content-text")
	if content.Length() == 0 {
		return "", fmt.Errorf("content block #mw-content-text not found")
	}

	var parts []string
	content.Find("p, h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return "", fmt.Errorf("no paragraphs in content block")
	}

	return strings.Join(parts, " "), nil
}

// randomTitles fetches one batch of random main-namespace article titles.
func (s *WikipediaSource) randomTitles(ctx context.Context) ([]string, error) {
	query := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"list":        {"random"},
		"rnnamespace": {"0"},
		"rnlimit":     {fmt.Sprintf("%d", randomBatchSize)},
	}

	body, err := FetchBody(ctx, s.client, s.apiURL+"?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("random-page API: %w", err)
	}

	var payload struct {
		Query struct {
			Random []struct {
				Title string `json:"title"`
			} `json:"random"`
		} `json:"query"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("decode random-page response: %w", err)
	}

	titles := make([]string, 0, len(payload.Query.Random))
	for _, page := range payload.Query.Random {
		if page.Title != "" {
			titles = append(titles, page.Title)
		}
	}
	return titles, nil
}
