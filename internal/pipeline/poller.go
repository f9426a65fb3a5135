package pipeline

import (
	"context"
	"sync"
	"time"

	"threatboard/internal/logger"
	"threatboard/internal/metrics"
	"threatboard/pkg/models"
)

// Deriver turns a raw payload into a dashboard.
type Deriver interface {
	Derive(payload []byte) (*models.Dashboard, error)
}

// Poller refreshes the dashboard on a fixed interval. Each tick runs its own
// fetch and derive; a result is published only if no newer tick has
// published first.
type Poller struct {
	source   Source
	deriver  Deriver
	writer   DashboardWriter
	latest   *Latest
	interval time.Duration
	timeout  time.Duration

	mu        sync.Mutex
	issued    uint64
	published uint64
	wg        sync.WaitGroup
}

// NewPoller creates a poller. A nil writer keeps dashboards in memory only.
func NewPoller(source Source, deriver Deriver, writer DashboardWriter, latest *Latest, interval, timeout time.Duration) *Poller {
	if writer == nil {
		writer = NopWriter{}
	}
	if latest == nil {
		latest = &Latest{}
	}
	return &Poller{
		source:   source,
		deriver:  deriver,
		writer:   writer,
		latest:   latest,
		interval: interval,
		timeout:  timeout,
	}
}

// Latest returns the holder the poller publishes to.
func (p *Poller) Latest() *Latest {
	return p.latest
}

// Run starts one refresh immediately and then one per interval until ctx is
// cancelled. In-flight refreshes are awaited before Run returns.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		p.interval = 5 * time.Second
	}
	if p.timeout <= 0 {
		p.timeout = 2 * p.interval
	}
	logger.Infof("Refresh poller started: interval=%s timeout=%s", p.interval, p.timeout)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.spawn(ctx)
	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			p.spawn(ctx)
		}
	}
}

// Close releases the writer and the source.
func (p *Poller) Close() error {
	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			logger.Errorf("Failed to close dashboard writer: %v", err)
		}
	}
	if p.source != nil {
		return p.source.Close()
	}
	return nil
}

func (p *Poller) spawn(ctx context.Context) {
	seq := p.next()
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.refresh(ctx, seq)
	}()
}

func (p *Poller) next() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued++
	return p.issued
}

func (p *Poller) refresh(ctx context.Context, seq uint64) {
	fctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	payload, err := p.source.Fetch(fctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Errorf("Refresh %d: fetch failed: %v", seq, err)
		metrics.ObserveRefresh(metrics.OutcomeError)
		return
	}
	if payload == nil {
		metrics.ObserveRefresh(metrics.OutcomeEmpty)
		return
	}

	d, err := p.deriver.Derive(payload)
	if err != nil {
		logger.Warnf("Refresh %d: derive failed: %v", seq, err)
		metrics.ObserveRefresh(metrics.OutcomeError)
		return
	}

	if !p.publish(seq, d) {
		logger.Debugf("Refresh %d: discarded, newer dashboard already published", seq)
		metrics.ObserveRefresh(metrics.OutcomeStale)
		return
	}
	metrics.ObserveRefresh(metrics.OutcomeSuccess)
}

// publish stores d unless a newer sequence already won. Writer calls happen
// under the lock so downstream sees dashboards in sequence order.
func (p *Poller) publish(seq uint64, d *models.Dashboard) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.published {
		return false
	}
	p.published = seq
	p.latest.Store(d)
	metrics.SetLatest(d.TotalAttacks, d.HighCriticalTotal)

	if err := p.writer.WriteDashboard(d); err != nil {
		logger.Errorf("Failed to write dashboard %s: %v", d.RefreshID, err)
	}
	return true
}
