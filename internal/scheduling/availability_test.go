package scheduling

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/appointment-scheduler/internal/observability/metrics"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

type resultSink struct {
	mu      sync.Mutex
	results []AvailabilityResult
}

func (s *resultSink) deliver(r AvailabilityResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *resultSink) all() []AvailabilityResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AvailabilityResult(nil), s.results...)
}

func TestAvailabilityFetcher_IssuesOneRequestPerRefresh(t *testing.T) {
	api := &fakeAPI{getFn: func(_ context.Context, _ string, _ url.Values, out any) error {
		return respond(out, []AvailabilityItem{{Hour: 8, Available: true}, {Hour: 13, Available: false}})
	}}
	sink := &resultSink{}
	f := NewAvailabilityFetcher(api, logging.New("error"), nil, sink.deliver)

	key := AvailabilityKey{ProviderID: "p 1", Date: march10}
	f.Refresh(context.Background(), key)
	f.Wait()

	calls := api.getCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/providers/p%201/day-availability", calls[0].Path)
	assert.Equal(t, "2024", calls[0].Query.Get("year"))
	assert.Equal(t, "3", calls[0].Query.Get("month"), "month is 1-based")
	assert.Equal(t, "10", calls[0].Query.Get("day"))

	results := sink.all()
	require.Len(t, results, 1)
	assert.Equal(t, key, results[0].Key)
	assert.NoError(t, results[0].Err)
	assert.Len(t, results[0].Items, 2)
	assert.True(t, f.IsCurrent(results[0].Seq))
}

func TestAvailabilityFetcher_DiscardsSupersededResponse(t *testing.T) {
	release := map[string]chan struct{}{
		"p1": make(chan struct{}),
		"p2": make(chan struct{}),
	}
	started := make(chan string, 2)
	api := &fakeAPI{getFn: func(_ context.Context, path string, _ url.Values, out any) error {
		id := providerFromPath(path)
		started <- id
		// The response arrives regardless of cancellation, like a slow server.
		<-release[id]
		return respond(out, []AvailabilityItem{{Hour: 9, Available: id == "p1"}})
	}}
	reg := prometheus.NewRegistry()
	sink := &resultSink{}
	f := NewAvailabilityFetcher(api, logging.New("error"), metrics.NewSchedulingMetrics(reg), sink.deliver)

	f.Refresh(context.Background(), AvailabilityKey{ProviderID: "p1", Date: march10})
	require.Equal(t, "p1", <-started)
	f.Refresh(context.Background(), AvailabilityKey{ProviderID: "p2", Date: march10})
	require.Equal(t, "p2", <-started)

	// Newer response first, then the stale one.
	close(release["p2"])
	close(release["p1"])
	f.Wait()

	results := sink.all()
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].Key.ProviderID)
	assert.False(t, results[0].Items[0].Available)

	assert.Equal(t, float64(1), availabilityOutcomes(t, reg, metrics.OutcomeStale))
}

func availabilityOutcomes(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "scheduler_availability_fetches_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if m.GetLabel()[0].GetValue() == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestAvailabilityFetcher_CloseDropsInFlightResult(t *testing.T) {
	started := make(chan struct{})
	api := &fakeAPI{getFn: func(ctx context.Context, _ string, _ url.Values, _ any) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}
	reg := prometheus.NewRegistry()
	sink := &resultSink{}
	f := NewAvailabilityFetcher(api, logging.New("error"), metrics.NewSchedulingMetrics(reg), sink.deliver)

	seq := f.Refresh(context.Background(), AvailabilityKey{ProviderID: "p1", Date: march10})
	<-started
	f.Close()
	f.Wait()

	assert.False(t, f.IsCurrent(seq))
	assert.Empty(t, sink.all(), "a cancelled request is not delivered as a failure")
	assert.Equal(t, float64(1), availabilityOutcomes(t, reg, metrics.OutcomeStale))
	assert.Equal(t, float64(0), availabilityOutcomes(t, reg, metrics.OutcomeError))
}

func TestAvailabilityFetcher_CancelsPreviousRequest(t *testing.T) {
	firstErr := make(chan error, 1)
	started := make(chan struct{})
	api := &fakeAPI{getFn: func(ctx context.Context, path string, _ url.Values, out any) error {
		if providerFromPath(path) == "p1" {
			close(started)
			<-ctx.Done()
			firstErr <- ctx.Err()
			return ctx.Err()
		}
		return respond(out, []AvailabilityItem{{Hour: 15, Available: true}})
	}}
	sink := &resultSink{}
	f := NewAvailabilityFetcher(api, logging.New("error"), nil, sink.deliver)

	f.Refresh(context.Background(), AvailabilityKey{ProviderID: "p1", Date: march10})
	<-started
	f.Refresh(context.Background(), AvailabilityKey{ProviderID: "p2", Date: march10})
	f.Wait()

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("first request was not cancelled")
	}
	results := sink.all()
	require.Len(t, results, 1)
	assert.Equal(t, "p2", results[0].Key.ProviderID)
}

func TestAvailabilityFetcher_DeliversFailure(t *testing.T) {
	api := &fakeAPI{getFn: func(context.Context, string, url.Values, any) error {
		return errors.New("502 bad gateway")
	}}
	sink := &resultSink{}
	f := NewAvailabilityFetcher(api, logging.New("error"), nil, sink.deliver)

	f.Refresh(context.Background(), AvailabilityKey{ProviderID: "p1", Date: march10})
	f.Wait()

	results := sink.all()
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Items)
}

func TestAvailabilityFetcher_LoadWithoutProvider(t *testing.T) {
	api := &fakeAPI{}
	f := NewAvailabilityFetcher(api, logging.New("error"), nil, nil)

	_, err := f.Load(context.Background(), AvailabilityKey{Date: march10})
	require.ErrorIs(t, err, ErrNoProviderSelected)
	assert.Empty(t, api.getCalls())
}
