// Package createappointment drives the "create appointment" screen: it
// wires the provider directory, selection, availability and submission
// together and exposes a render-ready snapshot.
package createappointment

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wolfman30/appointment-scheduler/internal/auth"
	"github.com/wolfman30/appointment-scheduler/internal/observability/metrics"
	"github.com/wolfman30/appointment-scheduler/internal/scheduling"
	"github.com/wolfman30/appointment-scheduler/internal/ui"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

// HeaderTitle is shown above the provider list.
const HeaderTitle = "Hairdressers"

// PlatformAndroid hides the date picker as soon as a date event arrives,
// matching the native Android dialog.
const PlatformAndroid = "android"

// Deps are the collaborators of a Screen.
type Deps struct {
	API       scheduling.API
	Session   auth.Session
	Navigator ui.Navigator
	Alerter   ui.Alerter
	Logger    *logging.Logger
	Metrics   *metrics.SchedulingMetrics

	// Platform selects date picker behavior ("android", "ios").
	Platform string
	// Location is the zone booking instants are built in.
	Location *time.Location
	// Now seeds the initial date; defaults to time.Now.
	Now func() time.Time
}

// Params are the route parameters the screen is opened with.
type Params struct {
	ProviderID string
}

// Screen is the state holder behind the create appointment view.
type Screen struct {
	session   auth.Session
	navigator ui.Navigator
	logger    *logging.Logger
	platform  string
	loc       *time.Location

	directory *scheduling.Directory
	fetcher   *scheduling.AvailabilityFetcher
	submitter *scheduling.Submitter

	mu           sync.Mutex
	selection    scheduling.Selection
	availability []scheduling.AvailabilityItem
	slots        scheduling.Slots

	loads sync.WaitGroup
}

// New builds a screen seeded with the caller's provider and today's date.
func New(deps Deps, params Params) *Screen {
	if deps.API == nil || deps.Navigator == nil || deps.Alerter == nil {
		panic("createappointment: api, navigator and alerter required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Screen{
		session:   deps.Session,
		navigator: deps.Navigator,
		logger:    logger.Component("create_appointment"),
		platform:  strings.ToLower(strings.TrimSpace(deps.Platform)),
		loc:       loc,
		selection: scheduling.NewSelection(params.ProviderID, scheduling.DateOf(now().In(loc))),
	}
	s.directory = scheduling.NewDirectory(deps.API, s.logger, deps.Metrics)
	s.fetcher = scheduling.NewAvailabilityFetcher(deps.API, s.logger, deps.Metrics, s.applyAvailability)
	s.submitter = scheduling.NewSubmitter(deps.API, deps.Navigator, deps.Alerter, s.logger, deps.Metrics)
	return s
}

// Activate loads the provider directory and the availability of the
// initial selection. Both run in the background; use Wait to block until
// they settle. ctx bounds the requests.
func (s *Screen) Activate(ctx context.Context) {
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()
		// Failures leave the list empty and are already logged.
		_ = s.directory.Load(ctx)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
}

// Wait blocks until the directory load and every availability request
// started so far have finished.
func (s *Screen) Wait() {
	s.loads.Wait()
	s.fetcher.Wait()
}

// Close cancels any in-flight availability request.
func (s *Screen) Close() {
	s.fetcher.Close()
}

// NavigateBack leaves the screen.
func (s *Screen) NavigateBack() {
	s.navigator.GoBack()
}

// SelectProvider switches the provider and re-requests availability when
// it changed.
func (s *Screen) SelectProvider(ctx context.Context, providerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection.SelectProvider(providerID) {
		s.refreshLocked(ctx)
	}
}

// ToggleDatePicker shows or hides the date picker.
func (s *Screen) ToggleDatePicker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.ToggleDatePicker()
}

// ChangeDate handles a date picker event. A nil date means the picker was
// dismissed without a choice.
func (s *Screen) ChangeDate(ctx context.Context, date *scheduling.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.platform == PlatformAndroid {
		s.selection.HideDatePicker()
	}
	if date == nil {
		return
	}
	if s.selection.SelectDate(*date) {
		s.refreshLocked(ctx)
	}
}

// SelectHour chooses an hour slot. Hours that are not open in the current
// availability are rejected with scheduling.ErrSlotUnavailable.
func (s *Screen) SelectHour(hour int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.SelectHour(hour, s.availability)
}

// Submit books the current selection. The selection is never modified by a
// submission, successful or not.
func (s *Screen) Submit(ctx context.Context) error {
	s.mu.Lock()
	providerID := s.selection.ProviderID()
	date := s.selection.Date()
	hour, chosen := s.selection.Hour()
	s.mu.Unlock()

	if !chosen {
		return scheduling.ErrNoHourSelected
	}
	_, err := s.submitter.Submit(ctx, providerID, date, hour, s.loc)
	return err
}

// refreshLocked drops the availability of the previous key and requests the
// current one. Callers hold s.mu.
func (s *Screen) refreshLocked(ctx context.Context) {
	s.availability = nil
	s.slots = scheduling.Slots{}
	if s.selection.ProviderID() == "" {
		return
	}
	s.fetcher.Refresh(ctx, s.selection.Key())
}

// applyAvailability stores a fetch result if it still matches the
// selection. Failed fetches clear the slots.
func (s *Screen) applyAvailability(res scheduling.AvailabilityResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fetcher.IsCurrent(res.Seq) || res.Key != s.selection.Key() {
		return
	}
	if res.Err != nil {
		s.availability = nil
	} else {
		s.availability = res.Items
	}
	s.slots = scheduling.PartitionSlots(s.availability)
	if s.selection.Reconcile(s.availability) {
		s.logger.Debug("cleared hour no longer available", "provider_id", res.Key.ProviderID, "date", res.Key.Date.String())
	}
}
