package pipeline

import "threatboard/pkg/models"

// DashboardWriter writes published dashboards.
type DashboardWriter interface {
	WriteDashboard(d *models.Dashboard) error
	Close() error
}

// NopWriter keeps dashboards in memory only.
type NopWriter struct{}

// WriteDashboard discards d.
func (NopWriter) WriteDashboard(*models.Dashboard) error { return nil }

// Close does nothing.
func (NopWriter) Close() error { return nil }
