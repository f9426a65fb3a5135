package backendhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultMaxBytes bounds a single snapshot body when Config.MaxBytes is unset.
const DefaultMaxBytes = 16 << 20

// Config configures the backend poller.
type Config struct {
	URL      string
	Timeout  time.Duration
	Headers  map[string]string
	MaxBytes int64
}

// Source fetches snapshots from the statistics backend over HTTP.
type Source struct {
	url      string
	headers  map[string]string
	maxBytes int64
	client   *http.Client
}

// NewSource creates an HTTP snapshot source.
func NewSource(cfg Config) (*Source, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("backend URL is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Source{
		url:      cfg.URL,
		headers:  cfg.Headers,
		maxBytes: maxBytes,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Fetch GETs the current snapshot. 204 No Content means nothing new.
func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("http request failed with status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read snapshot body: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("snapshot exceeds %d bytes", s.maxBytes)
	}
	return body, nil
}

// Close releases HTTP resources.
func (s *Source) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
