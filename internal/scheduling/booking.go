package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/appointment-scheduler/internal/observability/metrics"
	"github.com/wolfman30/appointment-scheduler/internal/ui"
	"github.com/wolfman30/appointment-scheduler/pkg/logging"
)

const (
	appointmentsPath = "/appointments"

	// BookingDateLayout is the wire format of BookingRequest.Date.
	BookingDateLayout = "2006-01-02 15:04"

	FailureAlertTitle   = "Error creating appointment"
	FailureAlertMessage = "Something went wrong while creating your appointment. Please try again later."
)

// SubmissionState is the lifecycle of a booking submission.
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionSubmitting
	SubmissionSucceeded
	SubmissionFailed
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionSubmitting:
		return "submitting"
	case SubmissionSucceeded:
		return "succeeded"
	case SubmissionFailed:
		return "failed"
	default:
		return fmt.Sprintf("SubmissionState(%d)", int(s))
	}
}

// BookingRequest is the payload of POST /appointments.
type BookingRequest struct {
	ProviderID string `json:"provider_id"`
	Date       string `json:"date"`
}

// Appointment is the created appointment as returned by the API. Only the
// fact that creation succeeded matters to the flow.
type Appointment struct {
	ID         string `json:"id,omitempty"`
	ProviderID string `json:"provider_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Date       string `json:"date,omitempty"`
}

// BookingTime combines a calendar date and hour into an instant in loc with
// minutes zeroed.
func BookingTime(date Date, hour int, loc *time.Location) time.Time {
	return date.At(hour, loc)
}

// NewBookingRequest builds the payload for a booking at t.
func NewBookingRequest(providerID string, t time.Time) BookingRequest {
	return BookingRequest{ProviderID: providerID, Date: t.Format(BookingDateLayout)}
}

// Submitter posts booking requests and routes to the confirmation screen or
// alerts the user. Only one submission may be in flight at a time.
type Submitter struct {
	api       Poster
	navigator ui.Navigator
	alerter   ui.Alerter
	logger    *logging.Logger
	metrics   *metrics.SchedulingMetrics

	mu    sync.Mutex
	state SubmissionState
}

// NewSubmitter constructs a booking submitter.
func NewSubmitter(api Poster, navigator ui.Navigator, alerter ui.Alerter, logger *logging.Logger, m *metrics.SchedulingMetrics) *Submitter {
	if api == nil || navigator == nil || alerter == nil {
		panic("scheduling: submitter requires api, navigator and alerter")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Submitter{api: api, navigator: navigator, alerter: alerter, logger: logger, metrics: m}
}

// State returns the current submission state.
func (s *Submitter) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit books providerID at hour:00 on date in loc. On success it navigates
// to the confirmation screen with the booked instant in epoch milliseconds.
// On failure it shows one alert, logs the cause and returns an error
// wrapping ErrBookingFailed. Calls made while another submission is in
// flight return ErrSubmissionInProgress without side effects.
func (s *Submitter) Submit(ctx context.Context, providerID string, date Date, hour int, loc *time.Location) (*Appointment, error) {
	if providerID == "" {
		return nil, ErrNoProviderSelected
	}
	if hour < 0 || hour > 23 {
		return nil, ErrInvalidHour
	}

	s.mu.Lock()
	if s.state == SubmissionSubmitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	s.state = SubmissionSubmitting
	s.mu.Unlock()

	ctx, span := schedulingTracer.Start(ctx, "booking.submit")
	defer span.End()

	at := BookingTime(date, hour, loc)
	req := NewBookingRequest(providerID, at)
	span.SetAttributes(
		attribute.String("scheduler.provider_id", providerID),
		attribute.String("scheduler.booking_date", req.Date),
	)

	var appt Appointment
	if err := s.api.Post(ctx, appointmentsPath, req, &appt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create appointment failed")
		s.setState(SubmissionFailed)
		s.metrics.ObserveSubmission(metrics.OutcomeError)
		s.logger.Error("failed to create appointment", "error", err, "provider_id", providerID, "date", req.Date)
		s.alerter.Alert(FailureAlertTitle, FailureAlertMessage)
		return nil, fmt.Errorf("%w: %w", ErrBookingFailed, err)
	}

	s.setState(SubmissionSucceeded)
	s.metrics.ObserveSubmission(metrics.OutcomeOK)
	s.logger.Info("appointment created", "appointment_id", appt.ID, "provider_id", providerID, "date", req.Date)
	s.navigator.Navigate(ui.ScreenAppointmentCreated, ui.Params{"date": at.UnixMilli()})
	return &appt, nil
}

func (s *Submitter) setState(state SubmissionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
