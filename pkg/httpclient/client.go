package httpclient

import (
	"context"
	"net/http"
	"time"
)

// Profile selects the header set sent with outbound requests.
type Profile string

const (
	// BrowserProfile sends browser-like headers. The Telugu news sites
	// (eenadu.net, andhrajyothy.com) answer 406 to Go's default User-Agent.
	BrowserProfile Profile = "browser"

	// PlainProfile sends minimal curl-like headers. Works for the
	// MediaWiki API and for Cloudflare-fronted hosts that block browser
	// User-Agents coming from non-browser TLS stacks.
	PlainProfile Profile = "plain"
)

// Client wraps an http.Client with a header profile and per-request timeout.
type Client struct {
	client  *http.Client
	profile Profile
}

// New creates a client with the given profile and per-request timeout.
func New(profile Profile, timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		profile: profile,
	}
}

// Get issues a GET request with the profile's headers, honoring ctx
// cancellation.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Do executes the request with the profile's headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	switch c.profile {
	case BrowserProfile:
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "te-IN,te;q=0.9,en;q=0.8")
		req.Header.Set("Connection", "keep-alive")
	case PlainProfile:
		req.Header.Set("User-Agent", "curl/8.7.1")
	}
}
