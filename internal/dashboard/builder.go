package dashboard

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"threatboard/internal/catalog"
	"threatboard/internal/layout"
	"threatboard/internal/logger"
	"threatboard/internal/metrics"
	"threatboard/internal/snapshot"
	"threatboard/pkg/models"
)

// Options controls derivation.
type Options struct {
	Region       layout.Region
	Margin       float64
	CacheSize    int
	FillSeverity bool
}

// Builder turns raw backend payloads into dashboards. Unchanged payloads are
// served from an LRU cache; every result still gets a fresh refresh id.
type Builder struct {
	opts      Options
	catalog   *catalog.Catalog
	validator *snapshot.Validator
	cache     *lru.Cache[string, models.Dashboard]

	now   func() time.Time
	newID func() string
}

// NewBuilder creates a builder. catalog and validator may be nil.
func NewBuilder(opts Options, cat *catalog.Catalog, validator *snapshot.Validator) (*Builder, error) {
	if opts.Region.Width <= 0 || opts.Region.Height <= 0 {
		opts.Region = layout.Region{Width: 800, Height: 600}
	}
	if opts.Margin < 0 {
		opts.Margin = layout.DefaultMargin
	}
	b := &Builder{
		opts:      opts,
		catalog:   cat,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, models.Dashboard](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create dashboard cache: %w", err)
		}
		b.cache = cache
	}
	return b, nil
}

// Region returns the default layout region.
func (b *Builder) Region() layout.Region {
	return b.opts.Region
}

// Derive decodes, enriches and builds a dashboard for the default region.
func (b *Builder) Derive(payload []byte) (*models.Dashboard, error) {
	return b.DeriveIn(payload, b.opts.Region)
}

// DeriveIn is Derive for an explicit layout region.
func (b *Builder) DeriveIn(payload []byte, region layout.Region) (*models.Dashboard, error) {
	start := time.Now()
	region = region.Finite()
	key := cacheKey(payload, region)

	if b.cache != nil {
		if cached, ok := b.cache.Get(key); ok {
			metrics.ObserveDerive(time.Since(start), true, 0)
			return b.stamp(cached), nil
		}
	}

	decoded, err := snapshot.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	var diags []error
	violations := b.validator.Validate(payload)
	diags = append(diags, violations...)
	diags = append(diags, decoded.Diagnostics...)
	for _, d := range diags {
		logger.Debugf("Snapshot diagnostic: %v", d)
	}

	snap := decoded.Snapshot
	if filled := b.catalog.Enrich(&snap, b.opts.FillSeverity); filled > 0 {
		logger.Debugf("Catalog filled %d snapshot fields", filled)
	}

	d := Build(snap, region, b.opts.Margin)
	for _, e := range diags {
		d.Diagnostics = append(d.Diagnostics, e.Error())
	}

	if b.cache != nil {
		b.cache.Add(key, d)
	}
	metrics.ObserveDerive(time.Since(start), false, len(violations))
	return b.stamp(d), nil
}

func (b *Builder) stamp(d models.Dashboard) *models.Dashboard {
	d.RefreshID = b.newID()
	d.GeneratedAt = b.now()
	return &d
}

func cacheKey(payload []byte, region layout.Region) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]) + "@" +
		strconv.FormatFloat(region.Width, 'g', -1, 64) + "x" +
		strconv.FormatFloat(region.Height, 'g', -1, 64)
}
