// Package scheduling contains the client-side appointment booking flow:
// provider directory, selection state, day availability, slot partitioning
// and booking submission.
package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Getter is the read half of the booking API transport.
type Getter interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

// Poster is the write half of the booking API transport.
type Poster interface {
	Post(ctx context.Context, path string, body any, out any) error
}

// API is the booking API transport.
type API interface {
	Getter
	Poster
}

// Provider is a bookable service professional.
type Provider struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// UnmarshalJSON accepts both avatar_url and avatarUrl.
func (p *Provider) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		AvatarURL      string `json:"avatar_url"`
		AvatarURLCamel string `json:"avatarUrl"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.ID = raw.ID
	p.Name = raw.Name
	p.AvatarURL = raw.AvatarURL
	if p.AvatarURL == "" {
		p.AvatarURL = raw.AvatarURLCamel
	}
	return nil
}

// AvailabilityItem is the open/closed status of one hour of a provider's day.
type AvailabilityItem struct {
	Hour      int  `json:"hour"`
	Available bool `json:"available"`
}

// UnmarshalJSON also accepts the misspelt "avaliable" key some backends emit.
func (a *AvailabilityItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hour      int   `json:"hour"`
		Available *bool `json:"available"`
		Legacy    *bool `json:"avaliable"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Hour = raw.Hour
	switch {
	case raw.Available != nil:
		a.Available = *raw.Available
	case raw.Legacy != nil:
		a.Available = *raw.Legacy
	default:
		a.Available = false
	}
	return nil
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a yyyy-mm-dd date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// At returns the instant at hour:00 of d in loc.
func (d Date) At(hour int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, hour, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AvailabilityKey identifies the day availability of one provider.
type AvailabilityKey struct {
	ProviderID string
	Date       Date
}

// isAvailable reports whether hour is listed and open in items.
func isAvailable(items []AvailabilityItem, hour int) bool {
	for _, item := range items {
		if item.Hour == hour {
			return item.Available
		}
	}
	return false
}
