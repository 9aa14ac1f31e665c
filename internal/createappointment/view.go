package createappointment

import (
	"github.com/wolfman30/appointment-scheduler/internal/scheduling"
)

// ProviderItem is a provider as rendered in the horizontal list.
type ProviderItem struct {
	scheduling.Provider
	Selected bool
}

// SlotItem is an hour button.
type SlotItem struct {
	scheduling.SlotView
	Selected bool
	// Enabled is false for unavailable hours; the button ignores taps.
	Enabled bool
}

// View is a snapshot of everything the screen renders.
type View struct {
	Title             string
	UserAvatarURL     string
	Providers         []ProviderItem
	SelectedProvider  string
	Date              scheduling.Date
	DatePickerVisible bool
	Morning           []SlotItem
	Afternoon         []SlotItem
	SelectedHour      int
	HourChosen        bool
	Submission        scheduling.SubmissionState
}

// View returns the current render snapshot.
func (s *Screen) View() View {
	providers := s.directory.Providers()

	s.mu.Lock()
	defer s.mu.Unlock()

	hour, chosen := s.selection.Hour()
	v := View{
		Title:             HeaderTitle,
		SelectedProvider:  s.selection.ProviderID(),
		Date:              s.selection.Date(),
		DatePickerVisible: s.selection.DatePickerVisible(),
		SelectedHour:      hour,
		HourChosen:        chosen,
		Submission:        s.submitter.State(),
	}
	if s.session != nil {
		v.UserAvatarURL = s.session.User().AvatarURL
	}

	v.Providers = make([]ProviderItem, 0, len(providers))
	for _, p := range providers {
		v.Providers = append(v.Providers, ProviderItem{Provider: p, Selected: p.ID == v.SelectedProvider})
	}
	v.Morning = slotItems(s.slots.Morning, hour, chosen)
	v.Afternoon = slotItems(s.slots.Afternoon, hour, chosen)
	return v
}

func slotItems(slots []scheduling.SlotView, hour int, chosen bool) []SlotItem {
	items := make([]SlotItem, 0, len(slots))
	for _, slot := range slots {
		items = append(items, SlotItem{
			SlotView: slot,
			Selected: chosen && slot.Hour == hour,
			Enabled:  slot.Available,
		})
	}
	return items
}
