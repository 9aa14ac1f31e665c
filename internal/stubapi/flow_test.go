package stubapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/appointment-scheduler/internal/api"
	"github.com/wolfman30/appointment-scheduler/internal/auth"
	"github.com/wolfman30/appointment-scheduler/internal/createappointment"
	"github.com/wolfman30/appointment-scheduler/internal/observability/metrics"
	"github.com/wolfman30/appointment-scheduler/internal/scheduling"
	"github.com/wolfman30/appointment-scheduler/internal/stubapi"
	"github.com/wolfman30/appointment-scheduler/internal/ui"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

type flow struct {
	screen *createappointment.Screen
	stack  *ui.Stack
	alerts *ui.AlertRecorder
}

func openScreen(t *testing.T, client *api.Client, m *metrics.SchedulingMetrics, providerID string) flow {
	t.Helper()
	stack := ui.NewStack(ui.ScreenCreateAppointment, ui.Params{"providerId": providerID})
	alerts := &ui.AlertRecorder{}
	screen := createappointment.New(createappointment.Deps{
		API:       client,
		Session:   auth.NewStaticSession(auth.User{ID: "u1", Name: "Test"}, "token"),
		Navigator: stack,
		Alerter:   alerts,
		Logger:    logging.New("error"),
		Metrics:   m,
		Location:  time.UTC,
		Now:       func() time.Time { return time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC) },
	}, createappointment.Params{ProviderID: providerID})
	t.Cleanup(screen.Close)

	screen.Activate(context.Background())
	screen.Wait()
	return flow{screen: screen, stack: stack, alerts: alerts}
}

func TestBookingFlowAgainstStub(t *testing.T) {
	providers := []scheduling.Provider{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Bia"}}
	srv, err := stubapi.NewServer(stubapi.Config{
		Providers: providers,
		OpenHour:  8,
		CloseHour: 17,
		Location:  time.UTC,
	}, stubapi.NewMemoryStore(), logging.New("error"))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	gotAuth := &atomic.Value{}
	client := api.NewClient(ts.URL, logging.New("error"),
		api.WithMetrics(metrics.NewSchedulingMetrics(prometheus.NewRegistry())),
		api.WithHTTPClient(&http.Client{Transport: authRecorder{next: http.DefaultTransport, seen: gotAuth}}),
		api.WithTokenSource(func() string { return "token" }),
	)
	m := metrics.NewSchedulingMetrics(prometheus.NewRegistry())

	first := openScreen(t, client, m, "p1")
	view := first.screen.View()
	require.Len(t, view.Providers, 2)
	assert.True(t, view.Providers[0].Selected)
	assert.Len(t, view.Morning, 4)
	assert.Len(t, view.Afternoon, 6)
	assert.Equal(t, "Bearer token", gotAuth.Load())

	require.NoError(t, first.screen.SelectHour(14))
	require.NoError(t, first.screen.Submit(context.Background()))

	route := first.stack.Current()
	assert.Equal(t, ui.ScreenAppointmentCreated, route.Screen)
	assert.Equal(t, time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC).UnixMilli(), route.Params["date"])
	assert.Empty(t, first.alerts.Alerts())

	second := openScreen(t, client, m, "p1")
	assert.ErrorIs(t, second.screen.SelectHour(14), scheduling.ErrSlotUnavailable)
	for _, slot := range second.screen.View().Afternoon {
		assert.Equal(t, slot.Hour != 14, slot.Enabled, "hour %d", slot.Hour)
	}

	// The first screen still holds 14:00; booking it again conflicts.
	err = first.screen.Submit(context.Background())
	require.ErrorIs(t, err, scheduling.ErrBookingFailed)
	assert.Equal(t, http.StatusConflict, api.StatusCode(err))
	require.Len(t, first.alerts.Alerts(), 1)
	assert.Equal(t, scheduling.FailureAlertTitle, first.alerts.Alerts()[0].Title)

	v := first.screen.View()
	assert.True(t, v.HourChosen)
	assert.Equal(t, 14, v.SelectedHour)

	other := openScreen(t, client, m, "p2")
	assert.NoError(t, other.screen.SelectHour(14))
}

type authRecorder struct {
	next http.RoundTripper
	seen *atomic.Value
}

func (a authRecorder) RoundTrip(r *http.Request) (*http.Response, error) {
	a.seen.Store(r.Header.Get("Authorization"))
	return a.next.RoundTrip(r)
}
