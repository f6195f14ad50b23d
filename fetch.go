package wpblock

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxFetchBytes caps the body read by ParseURL.
const maxFetchBytes = 32 << 20

// URLRequest configures ParseURL.
type URLRequest struct {
	URL     string
	Client  *http.Client
	Options []Option
}

// ParseURL fetches a block document over HTTP(S) and parses it.
func ParseURL(ctx context.Context, req URLRequest) (*Tree, error) {
	body, err := Fetch(ctx, req.Client, req.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	opts := append([]Option{WithTreeName(req.URL)}, req.Options...)
	tree, err := ParseBytes(body, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	return tree, nil
}

// Fetch GETs rawURL with client (http.DefaultClient when nil) and returns at
// most 32 MiB of the body. Only http and https URLs are accepted.
func Fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
