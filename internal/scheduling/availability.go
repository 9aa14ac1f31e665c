package scheduling

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/appointment-scheduler/internal/observability/metrics"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

var schedulingTracer = otel.Tracer("scheduler.internal.scheduling")

// AvailabilityResult is the outcome of one tagged availability request.
type AvailabilityResult struct {
	Key   AvailabilityKey
	Seq   uint64
	Items []AvailabilityItem
	Err   error
}

// AvailabilityFetcher requests a provider's day availability. Every Refresh
// supersedes the previous one: the older request is cancelled and, should
// it still resolve, its result is dropped instead of delivered.
type AvailabilityFetcher struct {
	api     Getter
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
	deliver func(AvailabilityResult)

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAvailabilityFetcher constructs a fetcher that hands current results to
// deliver. deliver runs on the request goroutine.
func NewAvailabilityFetcher(api Getter, logger *logging.Logger, m *metrics.SchedulingMetrics, deliver func(AvailabilityResult)) *AvailabilityFetcher {
	if api == nil {
		panic("scheduling: availability api required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if deliver == nil {
		deliver = func(AvailabilityResult) {}
	}
	return &AvailabilityFetcher{api: api, logger: logger, metrics: m, deliver: deliver}
}

// Refresh starts a request for key in the background and returns its
// sequence number.
func (f *AvailabilityFetcher) Refresh(ctx context.Context, key AvailabilityKey) uint64 {
	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	seq := f.seq
	reqCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		defer cancel()

		items, err := f.Load(reqCtx, key)
		if !f.IsCurrent(seq) {
			f.metrics.ObserveAvailability(metrics.OutcomeStale)
			f.logger.Debug("discarding superseded availability", "provider_id", key.ProviderID, "date", key.Date.String(), "seq", seq)
			return
		}
		if err != nil {
			f.metrics.ObserveAvailability(metrics.OutcomeError)
			f.logger.Warn("failed to load availability", "error", err, "provider_id", key.ProviderID, "date", key.Date.String())
		} else {
			f.metrics.ObserveAvailability(metrics.OutcomeOK)
		}
		f.deliver(AvailabilityResult{Key: key, Seq: seq, Items: items, Err: err})
	}()
	return seq
}

// IsCurrent reports whether seq belongs to the most recent Refresh.
func (f *AvailabilityFetcher) IsCurrent(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seq == f.seq
}

// Wait blocks until every started request has finished.
func (f *AvailabilityFetcher) Wait() {
	f.wg.Wait()
}

// Close cancels the in-flight request, if any. Requests started before
// Close are no longer current, so their results are dropped as stale.
func (f *AvailabilityFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// Load performs a single synchronous availability request.
func (f *AvailabilityFetcher) Load(ctx context.Context, key AvailabilityKey) ([]AvailabilityItem, error) {
	if key.ProviderID == "" {
		return nil, ErrNoProviderSelected
	}
	ctx, span := schedulingTracer.Start(ctx, "availability.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("scheduler.provider_id", key.ProviderID),
		attribute.String("scheduler.date", key.Date.String()),
	)

	path := fmt.Sprintf("/providers/%s/day-availability", url.PathEscape(key.ProviderID))
	q := url.Values{}
	q.Set("year", strconv.Itoa(key.Date.Year))
	q.Set("month", strconv.Itoa(int(key.Date.Month)))
	q.Set("day", strconv.Itoa(key.Date.Day))

	var items []AvailabilityItem
	if err := f.api.Get(ctx, path, q, &items); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get availability: %w", err)
	}
	return items, nil
}
