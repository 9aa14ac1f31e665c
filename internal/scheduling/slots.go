package scheduling

import "fmt"

const afternoonStartHour = 12

// SlotView is an availability item formatted for display.
type SlotView struct {
	Hour          int
	Available     bool
	HourFormatted string
}

// Slots splits a day into morning and afternoon sequences.
type Slots struct {
	Morning   []SlotView
	Afternoon []SlotView
}

// FormatHour renders hour as a zero-padded "HH:00" clock time.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// PartitionSlots puts every item with hour < 12 in Morning and the rest in
// Afternoon. Items keep the order they arrived in; nothing is sorted.
func PartitionSlots(items []AvailabilityItem) Slots {
	var slots Slots
	for _, item := range items {
		view := SlotView{
			Hour:          item.Hour,
			Available:     item.Available,
			HourFormatted: FormatHour(item.Hour),
		}
		if item.Hour < afternoonStartHour {
			slots.Morning = append(slots.Morning, view)
		} else {
			slots.Afternoon = append(slots.Afternoon, view)
		}
	}
	return slots
}
