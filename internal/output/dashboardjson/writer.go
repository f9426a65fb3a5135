package dashboardjson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"threatboard/internal/logger"
	"threatboard/pkg/models"
)

// Writer outputs dashboards to a JSON lines file, zstd-compressed when the
// path ends in .zst.
type Writer struct {
	file    *os.File
	zw      *zstd.Encoder
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewWriter creates a JSONL writer for dashboards.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := &Writer{file: f}
	var out io.Writer = f
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		w.zw = zw
		out = zw
	}
	w.encoder = json.NewEncoder(out)

	logger.Infof("Dashboard JSON writer initialized: %s (zstd=%t)", path, w.zw != nil)
	return w, nil
}

// WriteDashboard appends one dashboard line. Compressed output is flushed
// per line so readers see whole frames.
func (w *Writer) WriteDashboard(d *models.Dashboard) error {
	if d == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(d); err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	if w.zw != nil {
		if err := w.zw.Flush(); err != nil {
			return fmt.Errorf("failed to flush zstd frame: %w", err)
		}
	}
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			w.file.Close()
			return fmt.Errorf("failed to close zstd encoder: %w", err)
		}
		w.zw = nil
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
