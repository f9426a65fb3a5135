package pipeline

import (
	"sync/atomic"

	"threatboard/pkg/models"
)

// Latest holds the most recently published dashboard.
type Latest struct {
	v atomic.Pointer[models.Dashboard]
}

// Load returns the latest dashboard, or nil before the first refresh.
func (l *Latest) Load() *models.Dashboard {
	return l.v.Load()
}

// Store replaces the latest dashboard.
func (l *Latest) Store(d *models.Dashboard) {
	l.v.Store(d)
}
