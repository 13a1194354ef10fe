package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"telugu-tokenizer/pkg/httpclient"
)

// Articles from news front pages are shorter than encyclopedia entries;
// anything under this after cleaning is usually a teaser or caption.
const newsMinTextLength = 300

// Selectors that commonly wrap article teasers on Telugu news sites.
var newsArticleSelectors = []string{
	"article", ".news-item", ".story-content", ".article-content", ".news-content",
}

// NewsSource discovers article links from a news site's front page and
// extracts article text with readability, falling back to the common
// article-container selectors when readability finds nothing.
type NewsSource struct {
	name     string
	homepage string
	client   *httpclient.Client
}

// NewNewsSource creates a front-page scraping source. News sites reject
// Go's default User-Agent, so the browser header profile is used.
func NewNewsSource(name, homepage string) *NewsSource {
	return NewNewsSourceWithClient(name, homepage, httpclient.New(httpclient.BrowserProfile, 30*time.Second))
}

// NewNewsSourceWithClient creates the source with a custom client. Used in
// tests with httptest servers.
func NewNewsSourceWithClient(name, homepage string, client *httpclient.Client) *NewsSource {
	return &NewsSource{name: name, homepage: homepage, client: client}
}

func (s *NewsSource) Name() string { return s.name }

func (s *NewsSource) MinTextLength() int { return newsMinTextLength }

// Discover fetches the front page once and collects article links found
// inside the known article containers.
func (s *NewsSource) Discover(ctx context.Context, limit int) ([]Candidate, error) {
	body, err := FetchBody(ctx, s.client, s.homepage)
	if err != nil {
		return nil, fmt.Errorf("front page of %s: %w", s.name, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse front page of %s: %w", s.name, err)
	}

	base, err := url.Parse(s.homepage)
	if err != nil {
		return nil, fmt.Errorf("parse homepage URL: %w", err)
	}

	var candidates []Candidate
	seen := make(map[string]struct{})
	for _, selector := range newsArticleSelectors {
		doc.Find(selector).Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			if len(candidates) >= limit {
				return
			}
			href, _ := link.Attr("href")
			absolute := s.absoluteURL(base, href)
			if absolute == "" {
				return
			}
			if _, dup := seen[absolute]; dup {
				return
			}
			seen[absolute] = struct{}{}
			candidates = append(candidates, Candidate{
				Source: s.name,
				URL:    absolute,
				Title:  strings.TrimSpace(link.Text()),
			})
		})
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("no article links found on %s front page", s.name)
	}
	return candidates, nil
}

// FetchPage downloads an article page with browser-profile headers.
func (s *NewsSource) FetchPage(ctx context.Context, url string) (string, error) {
	return FetchBody(ctx, s.client, url)
}

// ExtractText prefers readability's article extraction; if that yields
// nothing it concatenates the text of the known article containers.
func (s *NewsSource) ExtractText(html string) (string, error) {
	if text, err := extractReadable(html); err == nil {
		return text, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse article HTML: %w", err)
	}

	var parts []string
	for _, selector := range newsArticleSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				parts = append(parts, text)
			}
		})
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no article content found")
	}
	return strings.Join(parts, " "), nil
}

// absoluteURL resolves href against the front page, keeping only same-host
// http(s) links.
func (s *NewsSource) absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host != base.Host {
		return ""
	}
	if strings.Trim(resolved.Path, "/") == "" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
