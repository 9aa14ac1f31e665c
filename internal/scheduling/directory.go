package scheduling

import (
	"context"
	"fmt"
	"sync"

	"github.com/wolfman30/appointment-scheduler/internal/observability/metrics"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

const providersPath = "/providers"

// Directory holds the list of bookable providers for one screen activation.
type Directory struct {
	api     Getter
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics

	mu        sync.RWMutex
	providers []Provider
}

// NewDirectory constructs a provider directory.
func NewDirectory(api Getter, logger *logging.Logger, m *metrics.SchedulingMetrics) *Directory {
	if api == nil {
		panic("scheduling: directory api required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Directory{api: api, logger: logger, metrics: m}
}

// Load fetches the full provider list and replaces the held one. On failure
// the list is left empty and the error is only returned for diagnostics;
// callers are not expected to surface it.
func (d *Directory) Load(ctx context.Context) error {
	var providers []Provider
	err := d.api.Get(ctx, providersPath, nil, &providers)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.providers = nil
		d.metrics.ObserveDirectoryLoad(metrics.OutcomeError)
		d.logger.Warn("failed to load providers", "error", err)
		return fmt.Errorf("get providers: %w", err)
	}
	d.providers = providers
	d.metrics.ObserveDirectoryLoad(metrics.OutcomeOK)
	d.logger.Debug("providers loaded", "count", len(providers))
	return nil
}

// Providers returns a copy of the last loaded list.
func (d *Directory) Providers() []Provider {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Provider, len(d.providers))
	copy(out, d.providers)
	return out
}

// Contains reports whether id is in the last loaded list.
func (d *Directory) Contains(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.providers {
		if p.ID == id {
			return true
		}
	}
	return false
}
