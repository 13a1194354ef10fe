package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func headersFor(t *testing.T, profile Profile) http.Header {
	t.Helper()
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer server.Close()

	resp, err := New(profile, 5*time.Second).Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	resp.Body.Close()
	return got
}

func TestBrowserProfileHeaders(t *testing.T) {
	headers := headersFor(t, BrowserProfile)

	if ua := headers.Get("User-Agent"); !strings.Contains(ua, "Mozilla") {
		t.Errorf("User-Agent = %q, want a browser identity", ua)
	}
	if al := headers.Get("Accept-Language"); !strings.HasPrefix(al, "te-IN") {
		t.Errorf("Accept-Language = %q, want Telugu first", al)
	}
}

func TestPlainProfileHeaders(t *testing.T) {
	headers := headersFor(t, PlainProfile)

	if ua := headers.Get("User-Agent"); !strings.HasPrefix(ua, "curl/") {
		t.Errorf("User-Agent = %q, want a curl identity", ua)
	}
	if headers.Get("Accept-Language") != "" {
		t.Errorf("plain profile sent Accept-Language %q", headers.Get("Accept-Language"))
	}
}

func TestGetHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := New(PlainProfile, time.Minute).Get(ctx, server.URL); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
