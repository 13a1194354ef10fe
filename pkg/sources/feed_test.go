package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"telugu-tokenizer/pkg/httpclient"
)

func feedXML(items int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>తెలుగు వార్తలు</title><link>https://news.example/</link>`)
	for i := 0; i < items; i++ {
		fmt.Fprintf(&b, `<item><title>వార్త %d</title><link>https://news.example/story/%d</link></item>`, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func TestFeedDiscover(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML(3))
	}))
	defer server.Close()

	src := NewFeedSourceWithClient("testfeed", server.URL, httpclient.New(httpclient.BrowserProfile, 5*time.Second))
	candidates, err := src.Discover(context.Background(), 10)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	if len(candidates) != 3 {
		t.Fatalf("discovered %d candidates, want 3", len(candidates))
	}
	if candidates[0].URL != "https://news.example/story/0" {
		t.Errorf("first URL = %q, want the first item link", candidates[0].URL)
	}
	if candidates[0].Title != "వార్త 0" {
		t.Errorf("first title = %q, want వార్త 0", candidates[0].Title)
	}
	for _, cand := range candidates {
		if cand.Source != "testfeed" {
			t.Errorf("candidate source = %q, want testfeed", cand.Source)
		}
	}

	// The feed document itself must be fetched with the source's header
	// profile, not gofeed's internal default client.
	if !strings.Contains(userAgent, "Mozilla") {
		t.Errorf("feed fetched with User-Agent %q, want the browser profile", userAgent)
	}
}

func TestFeedDiscoverHonorsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, feedXML(20))
	}))
	defer server.Close()

	src := NewFeedSourceWithClient("testfeed", server.URL, testClient())
	candidates, err := src.Discover(context.Background(), 5)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(candidates) != 5 {
		t.Errorf("discovered %d candidates, want limit 5", len(candidates))
	}
}

func TestFeedDiscoverEmptyFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, feedXML(0))
	}))
	defer server.Close()

	src := NewFeedSourceWithClient("testfeed", server.URL, testClient())
	if _, err := src.Discover(context.Background(), 10); err == nil {
		t.Fatal("expected error for a feed with no items")
	}
}

func TestFeedDiscoverServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	src := NewFeedSourceWithClient("testfeed", server.URL, testClient())
	if _, err := src.Discover(context.Background(), 10); err == nil {
		t.Fatal("expected error from a failing feed endpoint")
	}
}

func TestFeedSources(t *testing.T) {
	srcs, err := FeedSources([]string{
		"sakshi=https://feeds.example/sakshi.xml",
		" ntv = https://feeds.example/ntv.xml ",
	})
	if err != nil {
		t.Fatalf("FeedSources failed: %v", err)
	}
	if len(srcs) != 2 {
		t.Fatalf("built %d sources, want 2", len(srcs))
	}
	if srcs[0].Name() != "sakshi" || srcs[1].Name() != "ntv" {
		t.Errorf("source names = %q, %q, want sakshi, ntv", srcs[0].Name(), srcs[1].Name())
	}
}

func TestFeedSourcesMalformedSpec(t *testing.T) {
	for _, spec := range []string{"nourl", "=https://feeds.example/x.xml", "name="} {
		if _, err := FeedSources([]string{spec}); err == nil {
			t.Errorf("spec %q was accepted, want error", spec)
		}
	}
}

func TestFeedSourcesEmpty(t *testing.T) {
	srcs, err := FeedSources(nil)
	if err != nil {
		t.Fatalf("FeedSources failed: %v", err)
	}
	if len(srcs) != 0 {
		t.Errorf("built %d sources from no specs, want 0", len(srcs))
	}
}
