package pipeline

import "context"

// Source fetches raw snapshot payloads. A nil payload with a nil error means
// there is nothing new this cycle.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Close() error
}
