package dashboardnats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"threatboard/internal/logger"
	"threatboard/pkg/models"
)

// Publisher is the part of a NATS connection the writer needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Writer publishes dashboards to a NATS subject.
type Writer struct {
	pub     Publisher
	conn    *nats.Conn
	subject string
}

// Config configures the NATS writer.
type Config struct {
	URL     string
	Subject string
}

// NewWriter connects to NATS and returns a writer that owns the connection.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats URL is empty")
	}
	if cfg.Subject == "" {
		return nil, fmt.Errorf("nats subject is empty")
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name("threatboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	logger.Infof("NATS dashboard writer connected: %s subject=%s", nc.ConnectedUrl(), cfg.Subject)
	return &Writer{pub: nc, conn: nc, subject: cfg.Subject}, nil
}

// NewWriterWithPublisher wraps an existing publisher. Close leaves it open.
func NewWriterWithPublisher(pub Publisher, subject string) *Writer {
	return &Writer{pub: pub, subject: subject}
}

// WriteDashboard publishes one dashboard.
func (w *Writer) WriteDashboard(d *models.Dashboard) error {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard: %w", err)
	}
	if err := w.pub.Publish(w.subject, data); err != nil {
		return fmt.Errorf("failed to publish dashboard: %w", err)
	}
	logger.Debugf("Published dashboard %s to %s", d.RefreshID, w.subject)
	return nil
}

// Close drains the owned connection.
func (w *Writer) Close() error {
	if w.conn == nil {
		return nil
	}
	err := w.conn.Drain()
	w.conn = nil
	return err
}
