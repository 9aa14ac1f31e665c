package scheduling

import "errors"

var (
	// ErrNoProviderSelected is returned when an operation needs a provider and none is set
	ErrNoProviderSelected = errors.New("no provider selected")

	// ErrInvalidHour is returned for hours outside 0..23
	ErrInvalidHour = errors.New("hour must be between 0 and 23")

	// ErrSlotUnavailable is returned when selecting an hour that is not open
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrNoHourSelected is returned when submitting before an hour was chosen
	ErrNoHourSelected = errors.New("no hour selected")

	// ErrSubmissionInProgress is returned when a booking is already being submitted
	ErrSubmissionInProgress = errors.New("booking submission already in progress")

	// ErrBookingFailed wraps transport and server errors from booking creation
	ErrBookingFailed = errors.New("booking submission failed")
)
