// Package trip defines the travel-planning domain types: trip profiles,
// schedule items, and their textual renderings used in prompts and output.
package trip

import (
	"fmt"
	"time"
)

// ActivityType classifies a schedule item.
type ActivityType string

const (
	ActivityTerminal       ActivityType = "terminal"
	ActivityTransport      ActivityType = "transport"
	ActivityWalk           ActivityType = "walk"
	ActivityMeal           ActivityType = "meal"
	ActivityEvent          ActivityType = "event"
	ActivityStreets        ActivityType = "streets"
	ActivityMuseumGallery  ActivityType = "museum_gallery"
	ActivityHistoricalSite ActivityType = "historical_site"
	ActivityOther          ActivityType = "other"

	// ActivityRemove is a sentinel, not a real activity. An incoming item
	// carrying it means "delete the item with this id" (see schedule.Merge).
	ActivityRemove ActivityType = "remove"
)

// TimeLayout is the datetime format used throughout: localized wall time.
const TimeLayout = "2006-01-02 15:04"

// clockLayout is the bare time-of-day form allowed for end times.
const clockLayout = "15:04"

// ItemTime holds a start timestamp and an optional end. End may be a full
// date-and-time or a bare time-of-day, interpreted as same-day as start.
type ItemTime struct {
	Start string `json:"start_time" yaml:"start"`
	End   string `json:"end_time,omitempty" yaml:"end,omitempty"`
}

// ScheduleItem is a single planned occurrence in an itinerary.
type ScheduleItem struct {
	ID           int          `json:"id" yaml:"id"`
	ActivityType ActivityType `json:"activity_type" yaml:"activity_type"`
	Time         ItemTime     `json:"time" yaml:"time"`
	Location     string       `json:"location" yaml:"location"`
	Title        string       `json:"title" yaml:"title"`
	Description  string       `json:"description,omitempty" yaml:"description,omitempty"`
	Suggestion   string       `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`

	// UserFixed marks an item supplied by the user that downstream
	// generation must preserve unmodified.
	UserFixed bool `json:"user_fixed,omitempty" yaml:"user_fixed,omitempty"`
}

// Profile holds the trip-level constraints supplied once at planning start.
type Profile struct {
	Location      string `yaml:"location"`
	Accommodation string `yaml:"accommodation"`

	ArrivalDate       string `yaml:"arrival_date"` // YYYY-MM-DD
	ArrivalTime       string `yaml:"arrival_time"` // HH:MM
	ArrivalTerminal   string `yaml:"arrival_terminal"`
	DepartureDate     string `yaml:"departure_date"`
	DepartureTime     string `yaml:"departure_time"`
	DepartureTerminal string `yaml:"departure_terminal"`

	StartOfDayAt string `yaml:"start_of_day_at"` // HH:MM
	EndOfDayAt   string `yaml:"end_of_day_at"`   // HH:MM

	Budget    string `yaml:"budget"`
	Theme     string `yaml:"theme"`
	Interests string `yaml:"interests"`
	ExtraInfo string `yaml:"extra_info"`

	FixedSchedules []ScheduleItem `yaml:"fixed_schedules"`
}

// ArrivalAt returns the combined arrival date-time string.
func (p *Profile) ArrivalAt() string {
	return p.ArrivalDate + " " + p.ArrivalTime
}

// DepartureAt returns the combined departure date-time string.
func (p *Profile) DepartureAt() string {
	return p.DepartureDate + " " + p.DepartureTime
}

// Validate checks that the profile carries everything planning needs.
func (p *Profile) Validate() error {
	if p.Location == "" {
		return fmt.Errorf("trip location is required")
	}
	if p.Accommodation == "" {
		return fmt.Errorf("accommodation location is required")
	}
	if _, err := ParseDateTime(p.ArrivalAt()); err != nil {
		return fmt.Errorf("invalid arrival: %w", err)
	}
	if _, err := ParseDateTime(p.DepartureAt()); err != nil {
		return fmt.Errorf("invalid departure: %w", err)
	}
	if p.ArrivalTerminal == "" || p.DepartureTerminal == "" {
		return fmt.Errorf("arrival and departure terminals are required")
	}
	if _, _, err := ParseClock(p.StartOfDayAt); err != nil {
		return fmt.Errorf("invalid start_of_day_at: %w", err)
	}
	if _, _, err := ParseClock(p.EndOfDayAt); err != nil {
		return fmt.Errorf("invalid end_of_day_at: %w", err)
	}
	for i, item := range p.FixedSchedules {
		if _, err := ParseDateTime(item.Time.Start); err != nil {
			return fmt.Errorf("fixed schedule %d: %w", i, err)
		}
	}
	return nil
}

// ParseDateTime parses a localized "YYYY-MM-DD HH:MM" string.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse datetime %q", s)
	}
	return t, nil
}

// ParseClock parses a bare "HH:MM" time-of-day.
func ParseClock(s string) (hour, minute int, err error) {
	t, perr := time.Parse(clockLayout, s)
	if perr != nil {
		return 0, 0, fmt.Errorf("unable to parse time-of-day %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

// Interval resolves the item's occupied time range. A missing end yields a
// zero-duration interval at start. A bare time-of-day end is anchored to the
// start's calendar day.
func (it *ScheduleItem) Interval() (start, end time.Time, err error) {
	start, err = ParseDateTime(it.Time.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if it.Time.End == "" {
		return start, start, nil
	}
	end, err = ParseDateTime(it.Time.End)
	if err == nil {
		return start, end, nil
	}
	h, m, cerr := ParseClock(it.Time.End)
	if cerr != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("item %d: %w", it.ID, err)
	}
	end = time.Date(start.Year(), start.Month(), start.Day(), h, m, 0, 0, start.Location())
	return start, end, nil
}
