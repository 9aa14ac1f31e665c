package scheduling

// Selection is the provider, date and hour the user has chosen. It keeps
// the chosen hour consistent with the provider, date and availability it
// was picked from. It is not safe for concurrent use; the owning screen
// serializes access.
type Selection struct {
	providerID    string
	date          Date
	hour          int
	hourChosen    bool
	pickerVisible bool
}

// NewSelection seeds a selection with an initial provider and date. The
// provider id is not checked against the directory.
func NewSelection(providerID string, date Date) Selection {
	return Selection{providerID: providerID, date: date}
}

// ProviderID returns the selected provider.
func (s *Selection) ProviderID() string { return s.providerID }

// Date returns the selected date.
func (s *Selection) Date() Date { return s.date }

// Hour returns the chosen hour and whether one has been chosen.
func (s *Selection) Hour() (int, bool) { return s.hour, s.hourChosen }

// DatePickerVisible reports whether the date picker is shown.
func (s *Selection) DatePickerVisible() bool { return s.pickerVisible }

// Key returns the availability key for the current provider and date.
func (s *Selection) Key() AvailabilityKey {
	return AvailabilityKey{ProviderID: s.providerID, Date: s.date}
}

// SelectProvider sets the provider. It reports whether the value changed;
// a change clears the chosen hour.
func (s *Selection) SelectProvider(id string) bool {
	if id == s.providerID {
		return false
	}
	s.providerID = id
	s.clearHour()
	return true
}

// SelectDate sets the date. It reports whether the value changed; a change
// clears the chosen hour.
func (s *Selection) SelectDate(d Date) bool {
	if d == s.date {
		return false
	}
	s.date = d
	s.clearHour()
	return true
}

// ToggleDatePicker flips date picker visibility and returns the new value.
func (s *Selection) ToggleDatePicker() bool {
	s.pickerVisible = !s.pickerVisible
	return s.pickerVisible
}

// HideDatePicker hides the date picker.
func (s *Selection) HideDatePicker() {
	s.pickerVisible = false
}

// SelectHour chooses hour if it is open in availability. The selection is
// left untouched on error.
func (s *Selection) SelectHour(hour int, availability []AvailabilityItem) error {
	if hour < 0 || hour > 23 {
		return ErrInvalidHour
	}
	if !isAvailable(availability, hour) {
		return ErrSlotUnavailable
	}
	s.hour = hour
	s.hourChosen = true
	return nil
}

// Reconcile drops the chosen hour when it is no longer open in
// availability. It reports whether the hour was cleared.
func (s *Selection) Reconcile(availability []AvailabilityItem) bool {
	if !s.hourChosen || isAvailable(availability, s.hour) {
		return false
	}
	s.clearHour()
	return true
}

func (s *Selection) clearHour() {
	s.hour = 0
	s.hourChosen = false
}
