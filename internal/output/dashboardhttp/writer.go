package dashboardhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"threatboard/pkg/models"
)

// RefreshIDHeader carries the dashboard refresh id so receivers can drop
// duplicate deliveries without decoding the body.
const RefreshIDHeader = "X-Threatboard-Refresh-Id"

// maxErrorBody bounds how much of a rejection body is kept in the error.
const maxErrorBody = 512

// StatusError is returned when the presentation endpoint rejects a dashboard.
type StatusError struct {
	RefreshID string
	Status    int
	Body      string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("dashboard %s rejected with status %d", e.RefreshID, e.Status)
	}
	return fmt.Sprintf("dashboard %s rejected with status %d: %s", e.RefreshID, e.Status, e.Body)
}

// Config configures the HTTP writer.
type Config struct {
	URL     string
	Timeout time.Duration
	Headers map[string]string
}

// Writer pushes each published dashboard to a presentation endpoint. A failed
// push is reported once; the next refresh supersedes it.
type Writer struct {
	url     string
	headers map[string]string
	timeout time.Duration
	client  *http.Client
}

// NewWriter creates an HTTP dashboard writer.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("http dashboard URL is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Writer{
		url:     cfg.URL,
		headers: cfg.Headers,
		timeout: timeout,
		client:  &http.Client{},
	}, nil
}

// WriteDashboard posts one dashboard.
func (w *Writer) WriteDashboard(d *models.Dashboard) error {
	if d == nil {
		return nil
	}

	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dashboard %s: %w", d.RefreshID, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build dashboard request: %w", err)
	}
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.RefreshID != "" {
		req.Header.Set(RefreshIDHeader, d.RefreshID)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("push dashboard %s: %w", d.RefreshID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		RefreshID: d.RefreshID,
		Status:    resp.StatusCode,
		Body:      strings.TrimSpace(string(snippet)),
	}
}

// Close releases idle connections.
func (w *Writer) Close() error {
	w.client.CloseIdleConnections()
	return nil
}
